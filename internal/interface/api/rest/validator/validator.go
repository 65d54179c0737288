package validator

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"minidrive-api/internal/interface/api/rest/dto/auth"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input limit, in bytes
	maxNameLen     = 64
	maxEmailLen    = 254
)

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

func ValidateRegister(r auth.RegisterRequest) map[string]string {
	errs := make(map[string]string)

	validateEmail(r.Email, errs)
	validatePassword(r.Password, errs)

	if l := utf8.RuneCountInString(strings.TrimSpace(r.Name)); l > maxNameLen {
		errs["name"] = "name must be at most 64 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	validateEmail(r.Email, errs)
	if strings.TrimSpace(r.Password) == "" {
		errs["password"] = "password is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateEmail(raw string, errs map[string]string) {
	email := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case email == "":
		errs["email"] = "email is required"
	case len(email) > maxEmailLen:
		errs["email"] = "email is too long"
	default:
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			errs["email"] = "invalid email format"
		}
	}
}

// password is not trimmed
func validatePassword(password string, errs map[string]string) {
	switch {
	case strings.TrimSpace(password) == "":
		errs["password"] = "password is required"
	case utf8.RuneCountInString(password) < minPasswordLen:
		errs["password"] = "password must be at least 8 characters"
	case len(password) > maxPasswordLen:
		errs["password"] = "password must be at most 72 bytes"
	}
}
