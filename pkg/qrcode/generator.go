package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyContent is returned when content string is empty or only whitespace.
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrNotEnrollmentURI is returned when the content is not an otpauth:// URI.
	ErrNotEnrollmentURI = errors.New("content is not an otpauth URI")
	// ErrFailedToGenerateQRCode is returned when the QR code generation fails.
	ErrFailedToGenerateQRCode = errors.New("failed to generate QR code")
)

// defaultSize is the size in pixels used when no size is specified.
const defaultSize = 256

// Generate creates a QR code image in PNG format with the given content.
// Returns the image as a byte slice or an error if generation fails.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = defaultSize
	}
	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerateQRCode, err)
	}
	return png, nil
}

// EnrollmentImage renders a two-factor enrollment URI as a scannable PNG.
// The URI must use the otpauth scheme; anything else is rejected so the
// enrollment page cannot be tricked into rendering arbitrary payloads.
func EnrollmentImage(uri string, size int) ([]byte, error) {
	if !strings.HasPrefix(uri, "otpauth://") {
		return nil, ErrNotEnrollmentURI
	}
	return Generate(uri, size)
}

// EnrollmentBase64Image renders a two-factor enrollment URI as a base64
// data URI, ready to drop into an <img src="..."> attribute.
func EnrollmentBase64Image(uri string, size int) (string, error) {
	png, err := EnrollmentImage(uri, size)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(png)), nil
}
