package file

import (
	"strings"

	"minidrive-api/internal/domain/file"
)

// ContentURL renders the content route for a file.
func ContentURL(route string, f file.File) string {
	return strings.Replace(route, ":file_id", f.UUID.String(), 1)
}

func ToResponseFile(fDomain file.File, contentRoute string) File {
	var f = File{
		UUID:         fDomain.UUID,
		OriginalName: fDomain.OriginalName,
		MediaType:    fDomain.MediaType,
		SizeBytes:    fDomain.SizeBytes,
		URL:          ContentURL(contentRoute, fDomain),
		CreatedAt:    fDomain.CreatedAt,
	}

	return f
}

func ToResponseFiles(fsDomain file.Files, contentRoute string) Files {
	fs := make(Files, len(fsDomain))
	for idx, f := range fsDomain {
		fs[idx] = ToResponseFile(*f, contentRoute)
	}

	return fs
}
