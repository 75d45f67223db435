package listable

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// AnonymousName is the display name of a user without name or email.
const AnonymousName = "Anonymous"

// User is a profile stored in the users collection.
type User struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	PhotoURL string `json:"photoURL,omitempty" yaml:"photoURL,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// IsAnonymous reports whether the user has neither name nor email.
func (u User) IsAnonymous() bool {
	return strings.TrimSpace(u.Name) == "" && strings.TrimSpace(u.Email) == ""
}

// IsLoggedIn reports whether the profile belongs to an identified user.
func (u User) IsLoggedIn() bool {
	return u.ID != "" && !u.IsAnonymous()
}

// DisplayName returns the name, the email, or AnonymousName.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if email := strings.TrimSpace(u.Email); email != "" {
		return email
	}
	return AnonymousName
}

// Initials returns the upper-cased first letter of the name, or of the email
// when the name is blank.
func (u User) Initials() string {
	source := strings.TrimSpace(u.Name)
	if source == "" {
		source = strings.TrimSpace(u.Email)
	}
	if source == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(source)
	return string(unicode.ToUpper(r))
}
