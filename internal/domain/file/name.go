package file

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	storedNameLen   = 16
	maxOriginalName = 255

	storedNameAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
)

var (
	ErrInvalidStoredName = errors.New("invalid stored name")

	storedNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{12,64}(\.[a-z0-9]{1,10})?$`)
)

// NewStoredName returns a 16 symbol random token (96 bits) plus the
// extension chosen by ExtensionFor.
func NewStoredName(mediaType, originalName string) (string, error) {
	id, err := gonanoid.Generate(storedNameAlphabet, storedNameLen)
	if err != nil {
		return "", fmt.Errorf("generate stored name: %w", err)
	}

	return id + ExtensionFor(mediaType, originalName), nil
}

func ValidateStoredName(name string) error {
	if !storedNameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidStoredName, name)
	}
	return nil
}

// CleanOriginalName keeps the user supplied name for display only: last path
// element, no control characters, at most 255 runes.
func CleanOriginalName(name string) string {
	s := strings.ReplaceAll(name, "\\", "/")
	s = path.Base(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == utf8.RuneError {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)

	if s == "" || s == "." || s == ".." || s == "/" {
		return "file"
	}

	if utf8.RuneCountInString(s) > maxOriginalName {
		s = string([]rune(s)[:maxOriginalName])
	}

	return s
}
