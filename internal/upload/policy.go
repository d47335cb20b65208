package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes is the upload ceiling applied when none is configured.
const DefaultMaxBytes int64 = 50 * 1024 * 1024

var (
	// ErrTooLarge indicates the file exceeds the configured size.
	ErrTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrTypeNotAllowed indicates the MIME type is outside the allow-list.
	ErrTypeNotAllowed = errors.New("unsupported file type")
)

// Allowed MIME types with the material type label recorded for each.
var allowedTypes = map[string]string{
	"application/pdf":               "pdf",
	"application/vnd.ms-powerpoint": "ppt",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "pptx",
	"application/zip":              "zip",
	"application/x-zip-compressed": "zip",
}

// Policy is the intake rule set for uploaded files.
type Policy struct {
	MaxBytes int64
}

// NewPolicy returns a policy bounded to maxBytes.
func NewPolicy(maxBytes int64) Policy {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return Policy{MaxBytes: maxBytes}
}

// Accept is a pure predicate over the declared MIME type and size.
func (p Policy) Accept(declaredMIME string, size int64) error {
	if size > p.maxBytes() {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	if _, ok := allowedTypes[NormalizeMIME(declaredMIME)]; !ok {
		return fmt.Errorf("%w: %s", ErrTypeNotAllowed, declaredMIME)
	}
	return nil
}

// Screen is Accept for request-time checks: a missing or generic declared
// type passes the type check and is resolved by sniffing later.
func (p Policy) Screen(declaredMIME string, size int64) error {
	if IsGeneric(declaredMIME) {
		if size > p.maxBytes() {
			return fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
		}
		return nil
	}
	return p.Accept(declaredMIME, size)
}

// IsGeneric reports whether a declared type carries no usable information.
func IsGeneric(declaredMIME string) bool {
	normalized := NormalizeMIME(declaredMIME)
	return normalized == "" || normalized == "application/octet-stream"
}

func (p Policy) maxBytes() int64 {
	if p.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return p.MaxBytes
}

// NormalizeMIME strips parameters and lower-cases a content type.
func NormalizeMIME(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(value); err == nil {
		return strings.ToLower(parsed)
	}
	return strings.ToLower(value)
}

// TypeLabel returns the short material type for an accepted MIME type.
func TypeLabel(mimeType string) string {
	if label, ok := allowedTypes[NormalizeMIME(mimeType)]; ok {
		return label
	}
	return "file"
}

// ResolveMIME returns the declared type unless it is missing or generic, in
// which case the content is sniffed.
func ResolveMIME(declared string, content io.Reader) (string, error) {
	if !IsGeneric(declared) {
		return NormalizeMIME(declared), nil
	}

	detected, err := mimetype.DetectReader(content)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}

	for current := detected; current != nil; current = current.Parent() {
		if _, ok := allowedTypes[NormalizeMIME(current.String())]; ok {
			return NormalizeMIME(current.String()), nil
		}
	}

	return NormalizeMIME(detected.String()), nil
}

// Extension picks the stored object's extension from the accepted MIME type.
// The client filename never contributes, so a stored file cannot be served
// under a type other than the one that passed the policy.
func Extension(mimeType string) string {
	switch TypeLabel(mimeType) {
	case "pdf":
		return ".pdf"
	case "ppt":
		return ".ppt"
	case "pptx":
		return ".pptx"
	case "zip":
		return ".zip"
	default:
		return ".bin"
	}
}
