package file

import (
	"minidrive-api/internal/domain/user"
)

// StorageKey derives "<owner uuid>/<stored name>". The owner segment has a
// fixed canonical form and stored names cannot contain "/", so distinct pairs
// never share a key. The original file name never takes part.
func StorageKey(owner user.UUID, storedName string) (string, error) {
	if err := ValidateStoredName(storedName); err != nil {
		return "", err
	}

	return owner.String() + "/" + storedName, nil
}
