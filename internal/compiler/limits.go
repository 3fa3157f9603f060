package compiler

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"
)

// DefaultMaxDocumentSize is the largest graph document accepted (4MB).
const DefaultMaxDocumentSize = 4 << 20

// EnvMaxDocumentSize is the environment variable to override the default.
const EnvMaxDocumentSize = "FLOWGEN_MAX_DOCUMENT_SIZE"

var (
	ErrDocumentTooLarge = errors.New("graph document exceeds maximum allowed size")
	ErrInvalidUTF8      = errors.New("graph document contains invalid UTF-8 sequences")
)

// CheckDocument enforces the size limit and UTF-8 validity of a raw
// document before it is decoded. A limit <= 0 uses MaxDocumentSize().
func CheckDocument(data []byte, limit int) error {
	if limit <= 0 {
		limit = MaxDocumentSize()
	}
	// Reject rather than truncate: a partial graph would generate a partial script.
	if len(data) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrDocumentTooLarge, len(data), limit)
	}
	if !utf8.Valid(data) {
		return ErrInvalidUTF8
	}
	return nil
}

// MaxDocumentSize returns the configured limit, honouring EnvMaxDocumentSize.
func MaxDocumentSize() int {
	if val := os.Getenv(EnvMaxDocumentSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxDocumentSize
}
