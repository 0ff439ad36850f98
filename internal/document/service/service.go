package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"certvault/internal/audit"
	"certvault/internal/document/match"
	"certvault/internal/document/models"
	idmodels "certvault/internal/identity/models"
	"certvault/internal/platform/metrics"
	dErrors "certvault/pkg/domain-errors"
	"certvault/pkg/phone"
	"certvault/pkg/platform/sentinel"
)

var (
	ErrUserNotFound     = dErrors.New(dErrors.CodeNotFound, "user not found")
	ErrDocumentNotFound = dErrors.New(dErrors.CodeNotFound, "document not found")
	ErrMissingFields    = dErrors.New(dErrors.CodeBadRequest, "certificate_type, certificate_name, holder_name and ipfs_url are required")
)

type DocumentStore interface {
	Create(ctx context.Context, ownerPhone string, doc models.Document) (string, error)
	Stream(ctx context.Context, ownerPhone string) ([]models.StoredDocument, error)
}

// UserFinder checks that list and lookup targets are registered identities.
type UserFinder interface {
	Find(ctx context.Context, phone string) (idmodels.User, error)
}

// Service owns the certificate registry: attach, list, and the normalized
// (type, identifier) lookup.
type Service struct {
	docs    DocumentStore
	users   UserFinder
	audit   *audit.Publisher
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

func NewService(docs DocumentStore, users UserFinder, auditor *audit.Publisher, m *metrics.Metrics) *Service {
	return &Service{
		docs:    docs,
		users:   users,
		audit:   auditor,
		metrics: m,
		tracer:  otel.Tracer("certvault/internal/document"),
	}
}

// Add attaches a document to the owner's collection. The owner is not
// required to be registered: uploads arrive from authenticated sessions and
// registration may be completed by a separate ingest path.
func (s *Service) Add(ctx context.Context, ownerPhone string, doc models.Document) (models.StoredDocument, error) {
	ctx, span := s.tracer.Start(ctx, "document.Add")
	defer span.End()

	if doc.CertificateType == "" || doc.CertificateName == "" || doc.HolderName == "" || doc.SourceURI == "" {
		return models.StoredDocument{}, ErrMissingFields
	}
	p := phone.Canonical(ownerPhone)
	if p == "" {
		return models.StoredDocument{}, dErrors.New(dErrors.CodeBadRequest, "mobile is required")
	}

	if doc.Source == "" {
		doc.Source = models.SourceUserUpload
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	id, err := s.docs.Create(ctx, p, doc)
	if err != nil {
		return models.StoredDocument{}, err
	}

	if s.metrics != nil {
		s.metrics.DocumentsAdded.Inc()
	}
	s.audit.Emit(ctx, audit.Event{
		Phone:  p,
		Action: audit.ActionDocumentAdded,
		Detail: doc.CertificateType,
	})
	return models.StoredDocument{ID: id, Document: doc}, nil
}

// List returns every document the phone owns, oldest first. The owner must be
// a registered identity; an empty collection is a valid answer.
func (s *Service) List(ctx context.Context, ownerPhone string) ([]models.StoredDocument, error) {
	ctx, span := s.tracer.Start(ctx, "document.List")
	defer span.End()

	p := phone.Canonical(ownerPhone)
	if _, err := s.users.Find(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.docs.Stream(ctx, p)
}

// Find scans the owner's documents in upload order and returns the first one
// whose normalized type and identifier match. Duplicates are allowed in the
// collection; the scan makes the earliest upload the canonical answer.
func (s *Service) Find(ctx context.Context, ownerPhone, certType, identifier string) (models.StoredDocument, error) {
	ctx, span := s.tracer.Start(ctx, "document.Find")
	defer span.End()

	p := phone.Canonical(ownerPhone)
	if _, err := s.users.Find(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.RecordLookup("user_not_found")
			return models.StoredDocument{}, ErrUserNotFound
		}
		return models.StoredDocument{}, err
	}

	docs, err := s.docs.Stream(ctx, p)
	if err != nil {
		return models.StoredDocument{}, err
	}
	for _, doc := range docs {
		if match.Matches(doc.Document, certType, identifier) {
			s.metrics.RecordLookup("found")
			return doc, nil
		}
	}
	s.metrics.RecordLookup("not_found")
	return models.StoredDocument{}, ErrDocumentNotFound
}
