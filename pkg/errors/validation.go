package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds node and document identifiers.
const maxIDLength = 128

// ValidateID validates a node or document identifier for safety.
// Identifiers end up in file names, cache keys and URL paths, so the rules
// are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path traversal sequences or separators
//   - Maximum length of 128 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidID, "id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a CSS hex color such as "#3b82f6".
// The empty string is accepted and means "inherit".
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidInput, "invalid color %q (want #rgb or #rrggbb)", color)
	}
	return nil
}
