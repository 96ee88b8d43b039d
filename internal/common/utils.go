package common

import "strings"

// HasAny returns true if s contains any of the substrings, ignoring case.
func HasAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// IsUniqueViolation reports whether err came from a unique constraint.
// Drivers that do not surface a typed error still put the SQLSTATE or the
// constraint wording in the message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return HasAny(err.Error(), "23505", "duplicate key", "unique constraint")
}
