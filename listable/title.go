package listable

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormatTitle turns a route segment such as "shopping-list" into a page
// title such as "Shopping list".
func FormatTitle(segment string) string {
	title := strings.ToLower(strings.ReplaceAll(segment, "-", " "))
	if title == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(r)) + title[size:]
}
