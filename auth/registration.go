// Package auth authenticates users of the lists service.
//
// Local accounts are stored in the "accounts" collection with bcrypt
// password hashes and exchanged for HS256 tokens. Firebase ID tokens are
// accepted as an alternative credential.
package auth

import (
	"errors"
	"regexp"
	"strings"

	internalstrings "github.com/amonks/lists/internal/strings"
)

var (
	// ErrEmailRequired is returned when the registration email is blank.
	ErrEmailRequired = errors.New("Please enter an email")

	// ErrInvalidEmail is returned when the email is malformed.
	ErrInvalidEmail = errors.New("Invalid Email")

	// ErrPasswordRequired is returned when the password is blank.
	ErrPasswordRequired = errors.New("Please enter a password")

	// ErrPasswordTooShort is returned when the password is shorter than MinPasswordLength.
	ErrPasswordTooShort = errors.New("Password should be at least 6 characters")

	// ErrPasswordMismatch is returned when the confirmation differs from the password.
	ErrPasswordMismatch = errors.New("Password confirmation does not match")
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// Email length bounds.
const (
	minEmailLength = 6
	maxEmailLength = 254
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]{1,64}@(?:[A-Za-z0-9-]{1,63}\.){1,8}[A-Za-z]{2,63}$`)

// Registration is a sign-up request.
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate checks the registration and returns the first problem found.
func (r Registration) Validate() error {
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return ErrPasswordRequired
	}
	if len(r.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// ValidateEmail checks that email is present and well formed.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	if len(email) < minEmailLength || len(email) > maxEmailLength || !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return internalstrings.NormalizeLowerTrimSpace(email)
}
