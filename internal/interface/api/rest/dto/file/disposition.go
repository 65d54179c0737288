package file

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxFallbackLen = 120

const (
	DispositionAttachment = "attachment"
	DispositionInline     = "inline"
)

// ContentDisposition carries the original name twice: an ASCII fallback
// for old clients and the exact UTF-8 form in filename*.
func ContentDisposition(disposition, originalName string) string {
	if disposition != DispositionInline {
		disposition = DispositionAttachment
	}

	return disposition +
		`; filename="` + asciiFileName(originalName) + `"` +
		`; filename*=UTF-8''` + extValue(originalName)
}

// asciiFileName folds accents and keeps [a-z0-9-_] plus the extension.
func asciiFileName(original string) string {
	s := strings.TrimSpace(original)
	if s == "" {
		return "file"
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, _ = transform.String(t, s)

	ext := strings.ToLower(path.Ext(s))
	if !isASCIIExt(ext) {
		ext = ""
	}
	base := strings.TrimSuffix(s, path.Ext(s))

	var b strings.Builder
	b.Grow(len(base))
	prevDash := false
	for _, r := range base {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		case r == '_':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		}
	}
	base = strings.Trim(b.String(), "-")
	if base == "" {
		base = "file"
	}

	for utf8.RuneCountInString(base)+len(ext) > maxFallbackLen && len(base) > 1 {
		base = base[:len(base)-1]
	}

	return base + ext
}

// extValue percent-encodes every byte outside the RFC 5987 attr-char set.
func extValue(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}

func isASCIIExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 11 {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
