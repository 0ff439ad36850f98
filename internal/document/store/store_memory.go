package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"certvault/internal/document/models"
)

// InMemoryDocumentStore keeps one append-only slice per owner so iteration
// order is insertion order.
type InMemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]models.StoredDocument
}

func NewInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{docs: make(map[string][]models.StoredDocument)}
}

func (s *InMemoryDocumentStore) Create(_ context.Context, ownerPhone string, doc models.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.docs[ownerPhone] = append(s.docs[ownerPhone], models.StoredDocument{ID: id, Document: doc})
	return id, nil
}

func (s *InMemoryDocumentStore) Stream(_ context.Context, ownerPhone string) ([]models.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.StoredDocument{}, s.docs[ownerPhone]...), nil
}
