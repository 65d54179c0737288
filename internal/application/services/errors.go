package services

import "errors"

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrFailedToGenerateToken = errors.New("failed to generate token")
	ErrUnauthenticated       = errors.New("unauthenticated")

	ErrFileNotFound  = errors.New("file not found")
	ErrForbidden     = errors.New("forbidden")
	ErrOwnerNotFound = errors.New("owner not found")
	ErrStorage       = errors.New("storage failure")
)
