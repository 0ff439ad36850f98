package store

import (
	"context"

	"certvault/internal/document/models"
)

// DocumentStore is the hierarchical certificate collection: one sub-collection
// per owner phone, records keyed by a store-assigned opaque id.
//
// Stream must return records in a stable iteration order between writes; the
// matcher's first-match-wins policy under duplicate (type, identifier) pairs
// depends on it. All implementations here use insertion order.
type DocumentStore interface {
	Create(ctx context.Context, ownerPhone string, doc models.Document) (string, error)
	Stream(ctx context.Context, ownerPhone string) ([]models.StoredDocument, error)
}
