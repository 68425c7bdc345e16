package errors

import (
	"slices"
	"strings"
	"unicode"
)

// Input limits enforced at the CLI and API boundary.
const (
	MaxExpressionLength = 4096
	MaxDimension        = 16384
)

// ValidateExpression rejects input the API should not spend a parse on:
// empty or whitespace-only text, text longer than MaxExpressionLength bytes,
// and text with control characters other than tab, newline, and carriage
// return. Everything else, including malformed arithmetic, is left to the
// parser's diagnostics.
func ValidateExpression(s string) error {
	if strings.TrimSpace(s) == "" {
		return New(ErrCodeInvalidExpression, "expression cannot be empty")
	}

	if len(s) > MaxExpressionLength {
		return New(ErrCodeInvalidExpression, "expression too long (max %d bytes)", MaxExpressionLength)
	}

	for _, r := range s {
		if unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
			return New(ErrCodeInvalidExpression, "expression contains invalid control characters")
		}
	}

	return nil
}

// ValidateDimensions checks that a layout frame is between 1 and
// MaxDimension on both axes.
func ValidateDimensions(width, height int) error {
	if width < 1 || width > MaxDimension {
		return New(ErrCodeInvalidDimensions, "width must be between 1 and %d, got %d", MaxDimension, width)
	}
	if height < 1 || height > MaxDimension {
		return New(ErrCodeInvalidDimensions, "height must be between 1 and %d, got %d", MaxDimension, height)
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed output formats.
func ValidateFormat(format string, allowed []string) error {
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (available: %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateStyle checks that style is one of the available render styles.
func ValidateStyle(style string, available []string) error {
	if !slices.Contains(available, style) {
		return New(ErrCodeInvalidStyle, "unknown style %q (available: %s)", style, strings.Join(available, ", "))
	}
	return nil
}
