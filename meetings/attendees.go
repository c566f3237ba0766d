// ABOUTME: External attendee parsing and serialization
// ABOUTME: Converts between the semicolon-delimited wire string and an email list
package meetings

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@;]+@[^\s@;]+\.[^\s@;]+$`)

// ParseExternal splits the wire string on ';', trimming each address and
// dropping empty segments.
func ParseExternal(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// JoinExternal is the inverse of ParseExternal.
func JoinExternal(emails []string) string {
	return strings.Join(ParseExternal(strings.Join(emails, ";")), ";")
}

// ValidEmail applies the basic address pattern used by the form.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateExternal returns an error naming the first invalid address in s.
// An empty string is valid.
func ValidateExternal(s string) error {
	for _, email := range ParseExternal(s) {
		if !ValidEmail(email) {
			return fmt.Errorf("invalid email address: %s", email)
		}
	}
	return nil
}
