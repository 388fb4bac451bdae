package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// Limits for uploaded corpus material.
const (
	MaxDocumentSize  = 1 << 20 // 1MB of plain text
	MaxStopwordsSize = 64 << 10
)

// Common errors
var (
	ErrEmptyDocument   = errors.New("document has no indexable content")
	ErrDocumentTooBig  = errors.New("document exceeds the size limit")
	ErrInvalidFileType = errors.New("only .txt documents are accepted")
	ErrBlankName       = errors.New("document name cannot be blank")
)

// ValidateDocumentUpload checks an uploaded corpus document before it is
// stored and indexed.
func ValidateDocumentUpload(name, content string) error {
	if strings.TrimSpace(name) == "" {
		return ErrBlankName
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" && ext != ".txt" {
		return ErrInvalidFileType
	}

	if len(content) > MaxDocumentSize {
		return fmt.Errorf("%w: %d bytes", ErrDocumentTooBig, len(content))
	}

	if !hasIndexableContent(content) {
		return ErrEmptyDocument
	}
	return nil
}

// ValidateStopwordsUpload checks an uploaded stopword list.
func ValidateStopwordsUpload(content string) error {
	if len(content) > MaxStopwordsSize {
		return fmt.Errorf("%w: %d bytes", ErrDocumentTooBig, len(content))
	}
	return nil
}

// IsUploadError reports whether err came from upload validation rather than
// storage or indexing.
func IsUploadError(err error) bool {
	return errors.Is(err, ErrEmptyDocument) ||
		errors.Is(err, ErrDocumentTooBig) ||
		errors.Is(err, ErrInvalidFileType) ||
		errors.Is(err, ErrBlankName)
}

// hasIndexableContent reports whether the text contains at least one letter,
// i.e. whether tokenization could produce any term at all.
func hasIndexableContent(content string) bool {
	for _, r := range content {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
