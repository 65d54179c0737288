package file

import (
	"errors"
	"mime"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	DefaultMaxUploadBytes = int64(200 << 20)

	fallbackExt = ".bin"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFileTooLarge         = errors.New("file too large")
	ErrEmptyFile            = errors.New("file is empty")

	allowedMediaTypes = map[string]struct{}{
		"image/jpeg":      {},
		"image/png":       {},
		"video/mp4":       {},
		"application/pdf": {},
		"audio/mpeg":      {},
		"audio/ogg":       {},
		"audio/wav":       {},
		"audio/mp4":       {},
		"audio/x-m4a":     {},
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       {},
	}

	extRe = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)
)

// NormalizeMediaType lower-cases the declared type and drops parameters.
// An unparsable value yields "".
func NormalizeMediaType(declared string) string {
	mt, _, err := mime.ParseMediaType(strings.TrimSpace(declared))
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

func IsAllowedMediaType(mediaType string) bool {
	_, ok := allowedMediaTypes[NormalizeMediaType(mediaType)]
	return ok
}

func AllowedMediaTypes() []string {
	out := make([]string, 0, len(allowedMediaTypes))
	for mt := range allowedMediaTypes {
		out = append(out, mt)
	}
	slices.Sort(out)

	return out
}

// Validate runs the upload gate: declared type against the allow-list, then
// declared size against the ceiling. It returns the normalized media type.
func Validate(declaredType string, size, maxBytes int64) (string, error) {
	mt := NormalizeMediaType(declaredType)
	if _, ok := allowedMediaTypes[mt]; !ok {
		return "", ErrUnsupportedMediaType
	}
	if size > maxBytes {
		return "", ErrFileTooLarge
	}
	if size <= 0 {
		return "", ErrEmptyFile
	}

	return mt, nil
}

// ExtensionFor picks the stored-name extension: from the media type, then
// from the original name, then ".bin".
func ExtensionFor(mediaType, originalName string) string {
	if m := mimetype.Lookup(NormalizeMediaType(mediaType)); m != nil {
		if ext := m.Extension(); extRe.MatchString(ext) {
			return ext
		}
	}

	ext := strings.ToLower(path.Ext(strings.ReplaceAll(originalName, "\\", "/")))
	if extRe.MatchString(ext) {
		return ext
	}

	return fallbackExt
}
