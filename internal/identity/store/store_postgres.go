package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"certvault/internal/identity/models"
	"certvault/pkg/platform/sentinel"
)

// PostgresUserStore persists confirmed identities in PostgreSQL.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// CreateIfAbsent relies on ON CONFLICT DO NOTHING as the conditional write.
func (s *PostgresUserStore) CreateIfAbsent(ctx context.Context, user models.User) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (phone, name, dob, gender, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (phone) DO NOTHING`,
		user.Phone, user.Name, user.DOB, user.Gender, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresUserStore) Find(ctx context.Context, phone string) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT phone, name, dob, gender, created_at
		FROM users WHERE phone = $1`, phone,
	).Scan(&user.Phone, &user.Name, &user.DOB, &user.Gender, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// PostgresPendingStore persists pending registrations.
type PostgresPendingStore struct {
	db *sql.DB
}

func NewPostgresPendingStore(db *sql.DB) *PostgresPendingStore {
	return &PostgresPendingStore{db: db}
}

func (s *PostgresPendingStore) Put(ctx context.Context, p models.PendingRegistration) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registration_pending (phone, name, requested_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (phone) DO UPDATE
		SET name = EXCLUDED.name, requested_at = EXCLUDED.requested_at`,
		p.Phone, p.Name, p.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("put pending registration: %w", err)
	}
	return nil
}

func (s *PostgresPendingStore) Find(ctx context.Context, phone string) (models.PendingRegistration, error) {
	var p models.PendingRegistration
	err := s.db.QueryRowContext(ctx, `
		SELECT phone, name, requested_at
		FROM registration_pending WHERE phone = $1`, phone,
	).Scan(&p.Phone, &p.Name, &p.RequestedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PendingRegistration{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.PendingRegistration{}, fmt.Errorf("find pending registration: %w", err)
	}
	return p, nil
}

func (s *PostgresPendingStore) Delete(ctx context.Context, phone string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM registration_pending WHERE phone = $1`, phone,
	); err != nil {
		return fmt.Errorf("delete pending registration: %w", err)
	}
	return nil
}

// Schema creates the identity tables. Called at startup when postgres is the
// configured backend; production deployments can run it out of band instead.
func Schema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			phone       TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			dob         TEXT NOT NULL DEFAULT '',
			gender      TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS registration_pending (
			phone        TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			requested_at TIMESTAMPTZ NOT NULL
		);`)
	if err != nil {
		return fmt.Errorf("create identity schema: %w", err)
	}
	return nil
}
