package services

import (
	"regexp"
	"strings"

	"melodix/internal/apperrors"
)

const (
	minPasswordLength = 8
	// bcrypt only hashes the first 72 bytes and refuses longer input.
	maxPasswordLength = 72
	passwordSymbols   = "@$!%*?&"
)

const (
	msgFieldsRequired   = "all fields are required"
	msgInvalidEmail     = "email is not valid"
	msgPasswordMismatch = "passwords do not match"
	msgPasswordTooShort = "password must be at least 8 characters long"
	msgPasswordTooLong  = "password must be at most 72 characters long"
	msgPasswordWeak     = "password must contain at least one uppercase letter, one lowercase letter, one digit and one special character (@$!%*?&)"
)

var (
	loginEmailPattern   = regexp.MustCompile(`\S+@\S+\.\S+`)
	contactEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NormalizeEmail lowercases and trims, so "  A@B.com " and "a@b.com" are the
// same identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return loginEmailPattern.MatchString(email)
}

func validContactEmail(email string) bool {
	return contactEmailPattern.MatchString(email)
}

// ValidatePassword checks confirmation, then length bounds, then strength.
// The first failing rule is reported.
func ValidatePassword(password, confirm string) error {
	if password != confirm {
		return apperrors.Validation(msgPasswordMismatch)
	}
	if len(password) < minPasswordLength {
		return apperrors.Validation(msgPasswordTooShort)
	}
	if len(password) > maxPasswordLength {
		return apperrors.Validation(msgPasswordTooLong)
	}
	if !strongPassword(password) {
		return apperrors.Validation(msgPasswordWeak)
	}
	return nil
}

// strongPassword requires one lowercase, one uppercase, one digit and one
// symbol from passwordSymbols, and nothing outside those classes.
func strongPassword(password string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}
