package chat

import (
	"path/filepath"
	"strings"
	"time"

	"rtchat/internal/pkg/errs"
)

const (
	// DefaultMaxFileSize is the upload limit used when none is configured (10 MiB).
	DefaultMaxFileSize int64 = 10 << 20

	// PresignedURLDuration is how long a download link handed out for an attachment stays valid.
	PresignedURLDuration = 15 * time.Minute
)

// AllowedImageMIMETypes defines the set of permitted MIME types for image attachments.
var AllowedImageMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ExtToMIME maps image file extensions to their corresponding MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ValidateFileSize checks that fileSize is positive and at most maxSize bytes.
func ValidateFileSize(fileSize, maxSize int64) *errs.CustomError {
	if fileSize <= 0 {
		return errs.NewError(errs.ErrFileRequired)
	}

	if fileSize > maxSize {
		return errs.NewError(errs.ErrFileSizeTooLarge)
	}

	return nil
}

// ValidateImageType checks that the file name extension and the declared MIME type are an
// allowed, matching image pair.
func ValidateImageType(fileName string, mimeType string) *errs.CustomError {
	lowerMimeType := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(lowerMimeType, ';'); i >= 0 {
		lowerMimeType = strings.TrimSpace(lowerMimeType[:i])
	}

	if _, ok := AllowedImageMIMETypes[lowerMimeType]; !ok {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if len(ext) < 2 {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}

	expectedMIME, ok := ExtToMIME[ext]
	if !ok || expectedMIME != lowerMimeType {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}

	return nil
}
