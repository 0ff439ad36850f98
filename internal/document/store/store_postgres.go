package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"certvault/internal/document/models"
)

// PostgresDocumentStore persists certificates in PostgreSQL. Stream orders by
// (uploaded_at, id) which reproduces insertion order for the matcher's
// first-match policy.
type PostgresDocumentStore struct {
	db *sql.DB
}

func NewPostgresDocumentStore(db *sql.DB) *PostgresDocumentStore {
	return &PostgresDocumentStore{db: db}
}

func (s *PostgresDocumentStore) Create(ctx context.Context, ownerPhone string, doc models.Document) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO certificates
			(id, owner_phone, certificate_type, certificate_name, holder_name,
			 identifier_number, source_uri, source, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, ownerPhone, doc.CertificateType, doc.CertificateName, doc.HolderName,
		doc.IdentifierNumber, doc.SourceURI, doc.Source, doc.UploadedAt,
	)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	return id, nil
}

func (s *PostgresDocumentStore) Stream(ctx context.Context, ownerPhone string) ([]models.StoredDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, certificate_type, certificate_name, holder_name,
		       identifier_number, source_uri, source, uploaded_at
		FROM certificates
		WHERE owner_phone = $1
		ORDER BY uploaded_at, id`, ownerPhone,
	)
	if err != nil {
		return nil, fmt.Errorf("stream documents: %w", err)
	}
	defer rows.Close()

	var docs []models.StoredDocument
	for rows.Next() {
		var d models.StoredDocument
		if err := rows.Scan(
			&d.ID, &d.CertificateType, &d.CertificateName, &d.HolderName,
			&d.IdentifierNumber, &d.SourceURI, &d.Source, &d.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stream documents: %w", err)
	}
	if docs == nil {
		docs = []models.StoredDocument{}
	}
	return docs, nil
}

// Schema creates the certificates table.
func Schema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS certificates (
			id                TEXT PRIMARY KEY,
			owner_phone       TEXT NOT NULL,
			certificate_type  TEXT NOT NULL,
			certificate_name  TEXT NOT NULL,
			holder_name       TEXT NOT NULL,
			identifier_number TEXT NOT NULL DEFAULT '',
			source_uri        TEXT NOT NULL,
			source            TEXT NOT NULL,
			uploaded_at       TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS certificates_owner_idx
			ON certificates (owner_phone, uploaded_at, id);`)
	if err != nil {
		return fmt.Errorf("create certificate schema: %w", err)
	}
	return nil
}
