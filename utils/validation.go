package utils

import (
	"fmt"
	"mime/multipart"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AllowedImageContentTypes is the set of allowed content types for image uploads.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// AllowedAttachmentContentTypes covers designer documents: catalogs,
// registration proofs and certificates arrive as PDFs or scans.
var AllowedAttachmentContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

const (
	MaxUploadSize     = 5 << 20  // 5MB
	MaxAttachmentSize = 10 << 20 // 10MB
)

func validateUpload(fh *multipart.FileHeader, maxSize int64, allowed map[string]bool, allowedNames string) error {
	if fh.Size > maxSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %dMB", fh.Size, maxSize>>20)
	}

	contentType := fh.Header.Get("Content-Type")
	if !allowed[contentType] {
		return fmt.Errorf("invalid file type '%s'; allowed types: %s", contentType, allowedNames)
	}

	return nil
}

// ValidateFileUpload checks a product image upload.
func ValidateFileUpload(fh *multipart.FileHeader) error {
	return validateUpload(fh, MaxUploadSize, AllowedImageContentTypes, "image/jpeg, image/png, image/webp, image/gif")
}

// ValidateAttachmentUpload checks a designer application document.
func ValidateAttachmentUpload(fh *multipart.FileHeader) error {
	return validateUpload(fh, MaxAttachmentSize, AllowedAttachmentContentTypes, "application/pdf, image/jpeg, image/png, image/webp")
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// SanitizeValidationError takes a validator error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			if isNumberKind(fe.Kind()) {
				messages = append(messages, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
			}
		case "max":
			if isNumberKind(fe.Kind()) {
				messages = append(messages, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
			}
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}
