package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses internal whitespace
// runs to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName cleans a display name coming from an identity event.
// It deliberately does not collapse "A" + "" into "A": the caller owns
// how name parts are joined.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeEmail lowercases and trims an address. Addresses are
// case-insensitive in practice and the user store treats them as keys
// for outbound mail.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
