// Package phone canonicalizes phone numbers into E.164 form for use as record
// keys. Originals submitted by callers are not stored; only the canonical form
// keys identity and pending-registration records, so "+91 98765 43210" and
// "+919876543210" address the same identity.
package phone

import (
	"strings"
	"unicode"
)

// Canonical strips formatting characters and returns "+<digits>". A number
// without a leading plus keeps its digits as-is; country-code inference is a
// caller concern.
func Canonical(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		return "+" + digits
	}
	return digits
}

// Valid reports whether raw canonicalizes to a plausible subscriber number.
// E.164 allows at most 15 digits; anything under 7 is rejected as noise.
func Valid(raw string) bool {
	c := strings.TrimPrefix(Canonical(raw), "+")
	return len(c) >= 7 && len(c) <= 15
}
