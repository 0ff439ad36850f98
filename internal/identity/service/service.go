package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"certvault/internal/audit"
	docmodels "certvault/internal/document/models"
	"certvault/internal/identity/models"
	"certvault/internal/platform/metrics"
	"certvault/internal/verify"
	dErrors "certvault/pkg/domain-errors"
	"certvault/pkg/phone"
	"certvault/pkg/platform/sentinel"
)

// Domain rejections for the registration/login state machine. Handlers map all
// of these to 400; provider and store failures surface separately as 5xx.
var (
	ErrInvalidInput          = dErrors.New(dErrors.CodeBadRequest, "name and phone required")
	ErrAlreadyRegistered     = dErrors.New(dErrors.CodeBadRequest, "user already registered")
	ErrNotRegistered         = dErrors.New(dErrors.CodeBadRequest, "user not registered")
	ErrNoPendingRegistration = dErrors.New(dErrors.CodeBadRequest, "no registration pending")
	ErrInvalidCode           = dErrors.New(dErrors.CodeBadRequest, "invalid OTP")
)

type UserStore interface {
	CreateIfAbsent(ctx context.Context, user models.User) error
	Find(ctx context.Context, phone string) (models.User, error)
}

type PendingStore interface {
	Put(ctx context.Context, pending models.PendingRegistration) error
	Find(ctx context.Context, phone string) (models.PendingRegistration, error)
	Delete(ctx context.Context, phone string) error
}

// DocumentLister is the slice of the document store the login flow needs: a
// successful login returns the identity plus its full certificate list.
type DocumentLister interface {
	Stream(ctx context.Context, ownerPhone string) ([]docmodels.StoredDocument, error)
}

// TokenIssuer mints the session token returned on login verification.
type TokenIssuer interface {
	Issue(phone, device string) (string, error)
}

// LoginResult is everything verify_login hands back to the caller.
type LoginResult struct {
	User      models.User
	Documents []docmodels.StoredDocument
	Token     string
}

// Service is the identity state machine: unregistered -> pending -> registered,
// with login gated on a registered identity plus a fresh provider approval.
// Provider answers are authoritative; a check is issued once per verification
// and never retried.
type Service struct {
	users    UserStore
	pending  PendingStore
	docs     DocumentLister
	provider verify.Provider
	tokens   TokenIssuer
	audit    *audit.Publisher
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

func NewService(
	users UserStore,
	pending PendingStore,
	docs DocumentLister,
	provider verify.Provider,
	tokens TokenIssuer,
	auditor *audit.Publisher,
	m *metrics.Metrics,
) *Service {
	return &Service{
		users:    users,
		pending:  pending,
		docs:     docs,
		provider: provider,
		tokens:   tokens,
		audit:    auditor,
		metrics:  m,
		tracer:   otel.Tracer("certvault/internal/identity"),
	}
}

// StartRegistration begins the unregistered -> pending transition: it rejects
// phones that already own an identity, asks the provider for a challenge, and
// writes the pending record. Restarting overwrites any prior pending record
// for the same phone, so the most recent submitted name wins.
func (s *Service) StartRegistration(ctx context.Context, rawPhone, name string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "identity.StartRegistration")
	defer span.End()

	if name == "" || !phone.Valid(rawPhone) {
		return "", ErrInvalidInput
	}
	p := phone.Canonical(rawPhone)

	_, err := s.users.Find(ctx, p)
	switch {
	case err == nil:
		return "", ErrAlreadyRegistered
	case !errors.Is(err, sentinel.ErrNotFound):
		return "", err
	}

	challenge, err := s.provider.StartChallenge(ctx, p)
	if err != nil {
		return "", translateProviderErr(err)
	}

	if err := s.pending.Put(ctx, models.PendingRegistration{
		Phone:       p,
		Name:        name,
		RequestedAt: time.Now().UTC(),
	}); err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.RegistrationsStarted.Inc()
	}
	s.audit.Emit(ctx, audit.Event{Phone: p, Action: audit.ActionRegistrationStarted})
	return challenge.Status, nil
}

// VerifyRegistration is the pending -> registered transition. The provider
// check comes first and is authoritative; possession of an approved code is
// still not sufficient without a pending record to consume. The identity
// record is created with the store's conditional write, then the pending
// record is deleted.
func (s *Service) VerifyRegistration(ctx context.Context, rawPhone, code string) (models.User, error) {
	ctx, span := s.tracer.Start(ctx, "identity.VerifyRegistration")
	defer span.End()

	if code == "" || !phone.Valid(rawPhone) {
		return models.User{}, ErrInvalidInput
	}
	p := phone.Canonical(rawPhone)

	check, err := s.provider.CheckChallenge(ctx, p, code)
	if err != nil {
		return models.User{}, translateProviderErr(err)
	}
	if !check.Approved {
		return models.User{}, ErrInvalidCode
	}

	pending, err := s.pending.Find(ctx, p)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.User{}, ErrNoPendingRegistration
	}
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Phone:     p,
		Name:      pending.Name,
		CreatedAt: time.Now().UTC(),
	}
	err = s.users.CreateIfAbsent(ctx, user)
	if errors.Is(err, sentinel.ErrConflict) {
		// Raced a concurrent verification; exactly one identity exists.
		return models.User{}, ErrAlreadyRegistered
	}
	if err != nil {
		return models.User{}, err
	}

	if err := s.pending.Delete(ctx, p); err != nil {
		return models.User{}, err
	}

	if s.metrics != nil {
		s.metrics.RegistrationsCompleted.Inc()
	}
	s.audit.Emit(ctx, audit.Event{Phone: p, Action: audit.ActionUserRegistered})
	return user, nil
}

// StartLogin requests a challenge for a registered phone. No local state is
// written: the identity already exists and only needs to be read back on
// verification.
func (s *Service) StartLogin(ctx context.Context, rawPhone string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "identity.StartLogin")
	defer span.End()

	if !phone.Valid(rawPhone) {
		return "", ErrInvalidInput
	}
	p := phone.Canonical(rawPhone)

	if _, err := s.users.Find(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", ErrNotRegistered
		}
		return "", err
	}

	challenge, err := s.provider.StartChallenge(ctx, p)
	if err != nil {
		return "", translateProviderErr(err)
	}

	if s.metrics != nil {
		s.metrics.LoginsStarted.Inc()
	}
	s.audit.Emit(ctx, audit.Event{Phone: p, Action: audit.ActionLoginStarted})
	return challenge.Status, nil
}

// VerifyLogin completes a login: one provider check, then the identity record
// and its full document list are read back and a session token minted. The
// registered check is repeated after approval because the identity could have
// been deleted between start and verify.
func (s *Service) VerifyLogin(ctx context.Context, rawPhone, code, device string) (LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "identity.VerifyLogin")
	defer span.End()

	if code == "" || !phone.Valid(rawPhone) {
		return LoginResult{}, ErrInvalidInput
	}
	p := phone.Canonical(rawPhone)

	check, err := s.provider.CheckChallenge(ctx, p, code)
	if err != nil {
		return LoginResult{}, translateProviderErr(err)
	}
	if !check.Approved {
		return LoginResult{}, ErrInvalidCode
	}

	user, err := s.users.Find(ctx, p)
	if errors.Is(err, sentinel.ErrNotFound) {
		return LoginResult{}, ErrNotRegistered
	}
	if err != nil {
		return LoginResult{}, err
	}

	docs, err := s.docs.Stream(ctx, p)
	if err != nil {
		return LoginResult{}, err
	}

	token, err := s.tokens.Issue(p, device)
	if err != nil {
		return LoginResult{}, err
	}

	if s.metrics != nil {
		s.metrics.LoginsCompleted.Inc()
	}
	s.audit.Emit(ctx, audit.Event{Phone: p, Action: audit.ActionLoginSucceeded, Device: device})
	return LoginResult{User: user, Documents: docs, Token: token}, nil
}

// GetUser reads identity attributes without touching documents.
func (s *Service) GetUser(ctx context.Context, rawPhone string) (models.User, error) {
	user, err := s.users.Find(ctx, phone.Canonical(rawPhone))
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func translateProviderErr(err error) error {
	switch {
	case errors.Is(err, verify.ErrInvalidPhone):
		return dErrors.New(dErrors.CodeBadRequest, "invalid phone number")
	case errors.Is(err, verify.ErrUnavailable):
		return dErrors.New(dErrors.CodeUnavailable, "verification provider unavailable")
	default:
		return err
	}
}
