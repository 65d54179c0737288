package user

import (
	"minidrive-api/internal/domain/user"
)

func ToResponseUser(uDomain user.User, isAdmin bool) User {
	var u = User{
		UUID:    uDomain.UUID,
		Email:   uDomain.Email,
		Name:    uDomain.Name,
		IsAdmin: isAdmin,
	}

	return u
}
