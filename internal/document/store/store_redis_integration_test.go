//go:build integration

package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"certvault/internal/document/models"
	"certvault/pkg/testutil/containers"
)

type RedisDocumentStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *RedisDocumentStore
}

func TestRedisDocumentStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.NewRedisContainer(t)
	s := &RedisDocumentStoreSuite{
		ctx:   context.Background(),
		store: NewRedisDocumentStore(rc.Client),
	}
	suite.Run(t, s)
}

func (s *RedisDocumentStoreSuite) TestRoundTrip() {
	owner := "+919876543210"
	doc := models.Document{
		CertificateType:  "PAN",
		CertificateName:  "PAN Card",
		HolderName:       "Asha",
		IdentifierNumber: "ABCDE 1234F",
		SourceURI:        "ipfs://bafy123",
		Source:           models.SourceUserUpload,
	}

	id, err := s.store.Create(s.ctx, owner, doc)
	s.Require().NoError(err)
	s.NotEmpty(id)

	docs, err := s.store.Stream(s.ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(docs, 1)
	s.Equal(id, docs[0].ID)
	s.Equal("ABCDE 1234F", docs[0].IdentifierNumber, "stored fields stay verbatim")
}

func (s *RedisDocumentStoreSuite) TestStreamPreservesInsertionOrder() {
	owner := "+918888888888"
	for i := range 5 {
		_, err := s.store.Create(s.ctx, owner, models.Document{
			CertificateType: "pan",
			CertificateName: fmt.Sprintf("cert-%d", i),
		})
		s.Require().NoError(err)
	}

	docs, err := s.store.Stream(s.ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(docs, 5)
	for i, doc := range docs {
		s.Equal(fmt.Sprintf("cert-%d", i), doc.CertificateName)
	}
}

func (s *RedisDocumentStoreSuite) TestStreamUnknownOwnerIsEmpty() {
	docs, err := s.store.Stream(s.ctx, "+910000000000")
	s.Require().NoError(err)
	s.Empty(docs)
}
