package errors

import (
	"strings"
	"unicode"
)

// maxBaseNameLength bounds the artifact base name so that
// "{base}_{Color}_{rank}.svg" stays under common filesystem limits.
const maxBaseNameLength = 200

// ValidateBaseName validates the base name used for export artifacts.
//
// The base name becomes the prefix of every written file, so it must be a
// plain file name:
//   - not empty
//   - no control characters or null bytes
//   - no path separators or traversal sequences
//   - at most 200 bytes
func ValidateBaseName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFormat, "export base name cannot be empty")
	}

	if len(name) > maxBaseNameLength {
		return New(ErrCodeInvalidFormat, "export base name too long (max %d characters)", maxBaseNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFormat, "export base name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidFormat, "export base name cannot contain path separators")
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidFormat, "export base name cannot be %q", name)
	}

	return nil
}
