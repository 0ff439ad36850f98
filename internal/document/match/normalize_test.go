package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"certvault/internal/document/models"
)

func TestNormalizeType(t *testing.T) {
	assert.Equal(t, "pan", NormalizeType("  PAN  "))
	assert.Equal(t, "aadhaar", NormalizeType("Aadhaar"))
	assert.Equal(t, "", NormalizeType("   "))
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "12345678", NormalizeIdentifier("1234 5678"))
	assert.Equal(t, "ABCDE1234F", NormalizeIdentifier(" ABCDE1234F "))
	assert.Equal(t, "12345678", NormalizeIdentifier("1234\t56 78"))
	assert.Equal(t, "", NormalizeIdentifier(""))
}

func TestMatches(t *testing.T) {
	doc := models.Document{
		CertificateType:  "PAN",
		IdentifierNumber: "ABCDE 1234F",
	}

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		assert.True(t, Matches(doc, "pan", "ABCDE1234F"))
		assert.True(t, Matches(doc, "  Pan ", "ABCDE 1234F"))
	})

	t.Run("both fields must match", func(t *testing.T) {
		assert.False(t, Matches(doc, "pan", "WRONG"))
		assert.False(t, Matches(doc, "aadhaar", "ABCDE1234F"))
	})

	t.Run("identifier case is significant", func(t *testing.T) {
		assert.False(t, Matches(doc, "pan", "abcde1234f"))
	})

	t.Run("empty fields compare equal", func(t *testing.T) {
		blank := models.Document{CertificateType: "pan"}
		assert.True(t, Matches(blank, "PAN", ""))
	})
}
