package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// PasswordSymbols is the punctuation set a strong password must draw from.
const PasswordSymbols = `!@#$%^&*(),.?":{}|<>`

const (
	MinPasswordLen = 8
	MinNameLen     = 2
	MaxNameLen     = 50
	MinHandleLen   = 3
	MaxHandleLen   = 20
)

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	handleRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// PasswordProblems lists every strength rule the password violates; empty means strong.
func PasswordProblems(pw string) []string {
	var out []string
	if utf8.RuneCountInString(pw) < MinPasswordLen {
		out = append(out, "Password must be at least 8 characters long")
	}
	if !strings.ContainsFunc(pw, isASCIIUpper) {
		out = append(out, "Password must contain at least one uppercase letter")
	}
	if !strings.ContainsFunc(pw, isASCIILower) {
		out = append(out, "Password must contain at least one lowercase letter")
	}
	if !strings.ContainsFunc(pw, isASCIIDigit) {
		out = append(out, "Password must contain at least one number")
	}
	if !strings.ContainsAny(pw, PasswordSymbols) {
		out = append(out, "Password must contain at least one special character")
	}
	return out
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func IsStrongPassword(pw string) bool { return len(PasswordProblems(pw)) == 0 }

// IsEmail matches the simple local@domain.tld shape.
func IsEmail(s string) bool { return emailRe.MatchString(s) }

// IsHandle validates usernames and profile slugs.
func IsHandle(s string) bool {
	n := len(s)
	return n >= MinHandleLen && n <= MaxHandleLen && handleRe.MatchString(s)
}

// IsPersonName checks the trimmed display-name length.
func IsPersonName(s string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= MinNameLen && n <= MaxNameLen
}

// NormalizeEmail lowercases and trims an address before storage or lookup.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// NormalizeHandle lowercases and trims a username.
func NormalizeHandle(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
