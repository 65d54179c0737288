package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type (
	ID   uint64
	UUID = uuid.UUID
	User struct {
		UUID         UUID
		Email        string
		Name         string
		PasswordHash string

		CreatedAt time.Time
	}
	Users []*User

	// Identity is what a validated session credential resolves to.
	// Privilege is never stored here; see IsAdministrator.
	Identity struct {
		UserID UUID
		Email  string
	}
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAdministrator reports whether the identity matches the configured
// administrator address. An empty address grants nobody.
func IsAdministrator(id Identity, adminEmail string) bool {
	admin := NormalizeEmail(adminEmail)
	if admin == "" || id.Email == "" {
		return false
	}

	return NormalizeEmail(id.Email) == admin
}
