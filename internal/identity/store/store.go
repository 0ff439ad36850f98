package store

import (
	"context"

	"certvault/internal/identity/models"
)

// Stores are interface-driven so the state machine can run against memory,
// redis or postgres without rewiring business code. Implementations return
// sentinel.ErrNotFound / sentinel.ErrConflict; the service layer translates.
type UserStore interface {
	// CreateIfAbsent is the store's conditional write: it persists the user
	// only when no record exists for the phone, returning sentinel.ErrConflict
	// otherwise. This closes the check-then-create race on registration.
	CreateIfAbsent(ctx context.Context, user models.User) error
	Find(ctx context.Context, phone string) (models.User, error)
}

type PendingStore interface {
	// Put upserts: a restarted registration overwrites the prior pending
	// record for the same phone.
	Put(ctx context.Context, pending models.PendingRegistration) error
	Find(ctx context.Context, phone string) (models.PendingRegistration, error)
	Delete(ctx context.Context, phone string) error
}
