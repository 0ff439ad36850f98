// Package match holds the canonicalization rules and the predicate used to
// resolve a (type, identifier) pair against stored certificates. Normalization
// is applied at comparison time only; stored fields stay verbatim.
package match

import (
	"strings"
	"unicode"

	"certvault/internal/document/models"
)

// NormalizeType canonicalizes a certificate type: surrounding whitespace is
// trimmed and the result lowercased. Absent input normalizes to "".
func NormalizeType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeIdentifier canonicalizes an identifier number: every whitespace
// character is removed, interior ones included, so "1234 5678" and "12345678"
// compare equal. Absent input normalizes to "".
func NormalizeIdentifier(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Matches reports whether doc satisfies the requested (type, identifier) pair.
// Both fields must match; a type-only or identifier-only match is not a match.
func Matches(doc models.Document, certType, identifier string) bool {
	return NormalizeType(doc.CertificateType) == NormalizeType(certType) &&
		NormalizeIdentifier(doc.IdentifierNumber) == NormalizeIdentifier(identifier)
}
