package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxVertices is the largest vertex count accepted from untrusted input.
// The adjacency matrix needs n²/8 bytes, so this caps it at about 1.25 GiB.
const MaxVertices = 100_000

// ValidateVertexCount checks a declared vertex count.
//
// Validation rules:
//   - Not negative
//   - At most limit (MaxVertices when limit <= 0)
func ValidateVertexCount(n, limit int) error {
	if limit <= 0 {
		limit = MaxVertices
	}
	if n < 0 {
		return New(ErrCodeInvalidInput, "vertex count must not be negative: %d", n)
	}
	if n > limit {
		return New(ErrCodeInvalidInput, "vertex count %d exceeds limit %d", n, limit)
	}
	return nil
}

// ValidateProbability checks an edge probability for random graph generation.
func ValidateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return New(ErrCodeInvalidInput, "edge probability must be in [0,1], got %v", p)
	}
	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if strings.IndexFunc(path, unicode.IsControl) >= 0 {
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}
	return nil
}
