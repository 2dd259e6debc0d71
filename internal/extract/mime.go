package extract

import (
	"path/filepath"
	"strings"
)

// mimeTypes maps lowercase file extensions to the MIME type sent to the
// inference backend.
var mimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"pdf":  "application/pdf",
}

// fallbackMIMEType is used for any unrecognized extension. Most stray inputs
// are still photos.
const fallbackMIMEType = "image/jpeg"

// MIMEForFilename resolves the upload MIME type from the file extension.
func MIMEForFilename(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return fallbackMIMEType
}
