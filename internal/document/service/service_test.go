package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"certvault/internal/document/models"
	docstore "certvault/internal/document/store"
	idmodels "certvault/internal/identity/models"
	idstore "certvault/internal/identity/store"
	dErrors "certvault/pkg/domain-errors"
)

const ownerPhone = "+919876543210"

type DocumentServiceSuite struct {
	suite.Suite
	ctx   context.Context
	docs  *docstore.InMemoryDocumentStore
	users *idstore.InMemoryUserStore
	svc   *Service
}

func TestDocumentServiceSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceSuite))
}

func (s *DocumentServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.docs = docstore.NewInMemoryDocumentStore()
	s.users = idstore.NewInMemoryUserStore()
	s.svc = NewService(s.docs, s.users, nil, nil)

	s.Require().NoError(s.users.CreateIfAbsent(s.ctx, idmodels.User{
		Phone:     ownerPhone,
		Name:      "Asha",
		CreatedAt: time.Now().UTC(),
	}))
}

func (s *DocumentServiceSuite) addDocument(certType, name, identifier string) models.StoredDocument {
	stored, err := s.svc.Add(s.ctx, ownerPhone, models.Document{
		CertificateType:  certType,
		CertificateName:  name,
		HolderName:       "Asha",
		IdentifierNumber: identifier,
		SourceURI:        "ipfs://" + name,
	})
	s.Require().NoError(err)
	return stored
}

func (s *DocumentServiceSuite) TestAdd() {
	s.Run("fills source and upload time", func() {
		stored := s.addDocument("PAN", "PAN Card", "ABCDE 1234F")
		s.NotEmpty(stored.ID)
		s.Equal(models.SourceUserUpload, stored.Source)
		s.False(stored.UploadedAt.IsZero())
	})

	s.Run("stored fields stay verbatim", func() {
		docs, err := s.svc.List(s.ctx, ownerPhone)
		s.Require().NoError(err)
		s.Require().Len(docs, 1)
		s.Equal("PAN", docs[0].CertificateType)
		s.Equal("ABCDE 1234F", docs[0].IdentifierNumber)
	})

	s.Run("missing required fields rejected", func() {
		_, err := s.svc.Add(s.ctx, ownerPhone, models.Document{CertificateType: "pan"})
		s.Require().ErrorIs(err, ErrMissingFields)
	})

	s.Run("missing holder name rejected", func() {
		_, err := s.svc.Add(s.ctx, ownerPhone, models.Document{
			CertificateType: "pan",
			CertificateName: "PAN Card",
			SourceURI:       "ipfs://pan",
		})
		s.Require().ErrorIs(err, ErrMissingFields)
	})

	s.Run("owner need not be registered", func() {
		_, err := s.svc.Add(s.ctx, "+915555555555", models.Document{
			CertificateType: "pan",
			CertificateName: "PAN Card",
			HolderName:      "Ravi",
			SourceURI:       "ipfs://pan",
		})
		s.Require().NoError(err)
	})
}

func (s *DocumentServiceSuite) TestList() {
	s.Run("unknown user rejected", func() {
		_, err := s.svc.List(s.ctx, "+915555555555")
		s.Require().ErrorIs(err, ErrUserNotFound)
	})

	s.Run("registered user with no documents gets an empty list", func() {
		docs, err := s.svc.List(s.ctx, ownerPhone)
		s.Require().NoError(err)
		s.Empty(docs)
	})

	s.Run("returns documents oldest first", func() {
		s.addDocument("pan", "PAN Card", "ABCDE1234F")
		s.addDocument("aadhaar", "Aadhaar Card", "1234 5678 9012")

		docs, err := s.svc.List(s.ctx, ownerPhone)
		s.Require().NoError(err)
		s.Require().Len(docs, 2)
		s.Equal("PAN Card", docs[0].CertificateName)
		s.Equal("Aadhaar Card", docs[1].CertificateName)
	})
}

func (s *DocumentServiceSuite) TestFind() {
	s.addDocument("PAN", "PAN Card", "ABCDE 1234F")

	s.Run("matches case-insensitively on type", func() {
		doc, err := s.svc.Find(s.ctx, ownerPhone, "pan", "ABCDE 1234F")
		s.Require().NoError(err)
		s.Equal("PAN Card", doc.CertificateName)
	})

	s.Run("matches whitespace-insensitively on identifier", func() {
		doc, err := s.svc.Find(s.ctx, ownerPhone, "PAN", "ABCDE1234F")
		s.Require().NoError(err)
		s.Equal("PAN Card", doc.CertificateName)
	})

	s.Run("no match is not found", func() {
		_, err := s.svc.Find(s.ctx, ownerPhone, "pan", "WRONG")
		s.Require().ErrorIs(err, ErrDocumentNotFound)
	})

	s.Run("unknown user is distinguished from missing document", func() {
		_, err := s.svc.Find(s.ctx, "+915555555555", "pan", "ABCDE1234F")
		s.Require().ErrorIs(err, ErrUserNotFound)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
}

func (s *DocumentServiceSuite) TestFindDuplicatesFirstMatchWins() {
	first := s.addDocument("pan", "Original", "ABCDE1234F")
	s.addDocument("pan", "Duplicate", "ABCDE 1234F")

	for range 10 {
		doc, err := s.svc.Find(s.ctx, ownerPhone, "PAN", "ABCDE1234F")
		s.Require().NoError(err)
		s.Equal(first.ID, doc.ID, "earliest upload is the canonical answer")
		s.Equal("Original", doc.CertificateName)
	}
}
