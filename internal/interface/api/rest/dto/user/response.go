package user

import (
	"github.com/google/uuid"
)

type (
	User struct {
		UUID    uuid.UUID `json:"id"`
		Email   string    `json:"email"`
		Name    string    `json:"name"`
		IsAdmin bool      `json:"is_admin"`
	}
	ResponseData struct {
		User User `json:"user"`
	}
)
