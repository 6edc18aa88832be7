/*
Package randx provides helpers for generating unique identifiers.

Message, call and upload identifiers are standard UUID v4 strings.
*/
package randx

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

// CallID generates a UUID v4 string identifying one call attempt.
func CallID() string {
	return uuid.New().String()
}

// ConnID generates a UUID v4 string identifying one live connection in logs.
func ConnID() string {
	return uuid.New().String()
}

// UploadKey builds an object key "<prefix>/<uuid><ext>" for an uploaded file.
// The extension is taken from fileName and lower-cased.
func UploadKey(prefix, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return prefix + "/" + uuid.New().String() + ext
}

// IsValidID reports whether id is a well-formed UUID.
func IsValidID(id string) bool {
	return uuid.Validate(id) == nil
}
