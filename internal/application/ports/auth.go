package ports

import (
	"context"

	"minidrive-api/internal/domain/user"
)

type Auth interface {
	Register(ctx context.Context, email, name, password string) (*user.User, string, error)
	Login(ctx context.Context, email, password string) (*user.User, string, error)
}

// Authenticator resolves a session credential to an identity.
type Authenticator interface {
	Authenticate(token string) (user.Identity, error)
}
