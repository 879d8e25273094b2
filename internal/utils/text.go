package utils

import (
	"strings"
	"unicode/utf8"
)

// HasInvalidText reports NUL bytes or invalid UTF-8, neither of which postgres text columns accept.
func HasInvalidText(input string) bool {
	return strings.Contains(input, "\x00") || !utf8.ValidString(input)
}

// CleanText strips NUL bytes and invalid UTF-8 sequences.
func CleanText(input string) string {
	if !HasInvalidText(input) {
		return input
	}

	cleaned := strings.ToValidUTF8(input, "")
	return strings.ReplaceAll(cleaned, "\x00", "")
}
