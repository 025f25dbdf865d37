// Package sanitizer normalizes untrusted input before it reaches validation
// or storage. The authentication core uses it to canonicalize email
// addresses so lookups and uniqueness checks are case- and whitespace-insensitive.
package sanitizer

import (
	"regexp"
	"strings"
)

var dotRegex = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail lowercases and trims an email address and collapses
// consecutive dots in the local part. Malformed input is returned as-is;
// rejecting it is the validator's job.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := dotRegex.ReplaceAllString(parts[0], ".")
	local = strings.Trim(local, ".")

	return local + "@" + parts[1]
}
