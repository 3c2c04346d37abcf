// Package validation holds the checks run on client input before any store
// mutation. Request structs carry validate tags; the rules the tag set lacks
// are registered here as custom validations.
package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minPasswordLength  = 8
	passwordSpecials   = "@$!%*?&"
	PasswordPolicyText = "Password must be at least 8 characters and contain uppercase, lowercase, number, and special character"
)

// Email reports whether s is a well formed address with no whitespace
// anywhere, including non-ASCII spaces.
func Email(s string) bool {
	return validate.Var(s, "required,email,nowhitespace") == nil
}

// Password reports whether s satisfies every strength rule: at least eight
// characters, one ASCII upper and lower case letter, one digit and one of
// @$!%*?&.
func Password(s string) bool {
	if utf8.RuneCountInString(s) < minPasswordLength {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func hasWhitespace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
