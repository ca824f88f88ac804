package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrFileTooLarge is returned when an upload exceeds the configured limit.
var ErrFileTooLarge = errors.New("file exceeds upload limit")

// ErrInvalidSignature is returned for signature values that are not PNG data URLs.
var ErrInvalidSignature = errors.New("invalid signature image")

// ReadUpload reads an uploaded file into memory, detecting its content type
// from the bytes rather than trusting the browser.
func ReadUpload(name string, r io.Reader, maxBytes int64) (*UploadedFile, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, nil
	}
	content, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", name, err)
	}
	if int64(len(content)) > maxBytes {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, name)
	}
	return &UploadedFile{
		Name:        name,
		ContentType: mimetype.Detect(content).String(),
		Size:        int64(len(content)),
		Content:     content,
	}, nil
}

// DecodeSignature turns a canvas data URL ("data:image/png;base64,...") into
// PNG bytes. An empty value means no signature was drawn.
func DecodeSignature(dataURL string) ([]byte, error) {
	dataURL = strings.TrimSpace(dataURL)
	if dataURL == "" {
		return nil, nil
	}
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidSignature
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !mimetype.Detect(b).Is("image/png") {
		return nil, ErrInvalidSignature
	}
	return b, nil
}
