package file

import "errors"

var (
	// ErrOwnerMissing: the owning user row does not exist.
	ErrOwnerMissing = errors.New("file owner does not exist")
	// ErrStoredNameTaken: the owner already has a record with this stored name.
	ErrStoredNameTaken = errors.New("stored name already recorded for owner")
)
