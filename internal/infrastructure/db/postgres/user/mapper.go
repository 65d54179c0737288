package user

import (
	domain "minidrive-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	return &domain.User{
		UUID:         model.UUID,
		Email:        model.Email,
		Name:         model.Name,
		PasswordHash: model.PasswordHash,

		CreatedAt: model.CreatedAt,
	}
}
