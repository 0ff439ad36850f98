package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"certvault/internal/audit"
	docmodels "certvault/internal/document/models"
	docstore "certvault/internal/document/store"
	idstore "certvault/internal/identity/store"
	"certvault/internal/session"
	"certvault/internal/verify"
	dErrors "certvault/pkg/domain-errors"
)

const (
	testPhone = "+919876543210"
	testCode  = "424242"
	wrongCode = "000001"
)

type IdentityServiceSuite struct {
	suite.Suite
	ctx       context.Context
	users     *idstore.InMemoryUserStore
	pending   *idstore.InMemoryPendingStore
	docs      *docstore.InMemoryDocumentStore
	publisher *audit.Publisher
	svc       *Service
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = idstore.NewInMemoryUserStore()
	s.pending = idstore.NewInMemoryPendingStore()
	s.docs = docstore.NewInMemoryDocumentStore()
	s.publisher = audit.NewPublisher(64, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.svc = NewService(
		s.users,
		s.pending,
		s.docs,
		verify.StaticProvider{Code: testCode},
		session.New("test-signing-key", time.Hour),
		s.publisher,
		nil,
	)
}

func (s *IdentityServiceSuite) register(phone, name string) {
	_, err := s.svc.StartRegistration(s.ctx, phone, name)
	s.Require().NoError(err)
	_, err = s.svc.VerifyRegistration(s.ctx, phone, testCode)
	s.Require().NoError(err)
}

func (s *IdentityServiceSuite) TestStartRegistration() {
	s.Run("happy path writes a pending record", func() {
		status, err := s.svc.StartRegistration(s.ctx, testPhone, "Asha")
		s.Require().NoError(err)
		s.Equal("pending", status)

		pending, err := s.pending.Find(s.ctx, testPhone)
		s.Require().NoError(err)
		s.Equal("Asha", pending.Name)
		s.False(pending.RequestedAt.IsZero())
	})

	s.Run("restart overwrites the pending name", func() {
		_, err := s.svc.StartRegistration(s.ctx, testPhone, "Asha Rao")
		s.Require().NoError(err)

		pending, err := s.pending.Find(s.ctx, testPhone)
		s.Require().NoError(err)
		s.Equal("Asha Rao", pending.Name)
	})

	s.Run("missing name rejected", func() {
		_, err := s.svc.StartRegistration(s.ctx, testPhone, "")
		s.Require().ErrorIs(err, ErrInvalidInput)
	})

	s.Run("implausible phone rejected", func() {
		_, err := s.svc.StartRegistration(s.ctx, "12345", "Asha")
		s.Require().ErrorIs(err, ErrInvalidInput)
	})

	s.Run("registered phone rejected", func() {
		s.register("+918888888888", "Ravi")
		_, err := s.svc.StartRegistration(s.ctx, "+918888888888", "Ravi")
		s.Require().ErrorIs(err, ErrAlreadyRegistered)
	})
}

func (s *IdentityServiceSuite) TestVerifyRegistration() {
	s.Run("consumes the pending record", func() {
		_, err := s.svc.StartRegistration(s.ctx, testPhone, "Asha")
		s.Require().NoError(err)

		user, err := s.svc.VerifyRegistration(s.ctx, testPhone, testCode)
		s.Require().NoError(err)
		s.Equal(testPhone, user.Phone)
		s.Equal("Asha", user.Name)
		s.False(user.CreatedAt.IsZero())

		_, err = s.pending.Find(s.ctx, testPhone)
		s.Require().Error(err, "pending record must be consumed")
	})

	s.Run("second verification finds no pending registration", func() {
		_, err := s.svc.VerifyRegistration(s.ctx, testPhone, testCode)
		s.Require().ErrorIs(err, ErrNoPendingRegistration)
	})

	s.Run("wrong code leaves pending intact", func() {
		other := "+917777777777"
		_, err := s.svc.StartRegistration(s.ctx, other, "Meena")
		s.Require().NoError(err)

		_, err = s.svc.VerifyRegistration(s.ctx, other, wrongCode)
		s.Require().ErrorIs(err, ErrInvalidCode)

		pending, err := s.pending.Find(s.ctx, other)
		s.Require().NoError(err)
		s.Equal("Meena", pending.Name)

		// The same pending record still completes with a good code.
		user, err := s.svc.VerifyRegistration(s.ctx, other, testCode)
		s.Require().NoError(err)
		s.Equal("Meena", user.Name)
	})

	s.Run("approved code without pending record is rejected", func() {
		_, err := s.svc.VerifyRegistration(s.ctx, "+916666666666", testCode)
		s.Require().ErrorIs(err, ErrNoPendingRegistration)
	})
}

func (s *IdentityServiceSuite) TestPhoneCanonicalization() {
	// Formatting variants of the same number address the same identity.
	_, err := s.svc.StartRegistration(s.ctx, "+91 98765 43210", "Asha")
	s.Require().NoError(err)

	user, err := s.svc.VerifyRegistration(s.ctx, "+91-9876543210", testCode)
	s.Require().NoError(err)
	s.Equal(testPhone, user.Phone)

	_, err = s.svc.StartRegistration(s.ctx, "+919876543210", "Asha")
	s.Require().ErrorIs(err, ErrAlreadyRegistered)
}

func (s *IdentityServiceSuite) TestStartLogin() {
	s.Run("unregistered phone gets no challenge", func() {
		_, err := s.svc.StartLogin(s.ctx, testPhone)
		s.Require().ErrorIs(err, ErrNotRegistered)
	})

	s.Run("registered phone gets a challenge", func() {
		s.register(testPhone, "Asha")
		status, err := s.svc.StartLogin(s.ctx, testPhone)
		s.Require().NoError(err)
		s.Equal("pending", status)
	})
}

func (s *IdentityServiceSuite) TestVerifyLogin() {
	s.register(testPhone, "Asha")

	s.Run("wrong code rejected", func() {
		_, err := s.svc.VerifyLogin(s.ctx, testPhone, wrongCode, "")
		s.Require().ErrorIs(err, ErrInvalidCode)
	})

	s.Run("success returns identity, documents and a token", func() {
		_, err := s.docs.Create(s.ctx, testPhone, docDocument("pan", "PAN Card"))
		s.Require().NoError(err)
		_, err = s.docs.Create(s.ctx, testPhone, docDocument("aadhaar", "Aadhaar Card"))
		s.Require().NoError(err)

		result, err := s.svc.VerifyLogin(s.ctx, testPhone, testCode, "Firefox on Linux")
		s.Require().NoError(err)
		s.Equal("Asha", result.User.Name)
		s.Require().Len(result.Documents, 2)
		s.Equal("PAN Card", result.Documents[0].CertificateName)
		s.NotEmpty(result.Token)
	})

	s.Run("unregistered phone rejected even with a good code", func() {
		_, err := s.svc.VerifyLogin(s.ctx, "+915555555555", testCode, "")
		s.Require().ErrorIs(err, ErrNotRegistered)
	})
}

func (s *IdentityServiceSuite) TestAuditTrail() {
	s.register(testPhone, "Asha")

	var actions []string
	for {
		select {
		case event := <-s.publisher.Inbox():
			actions = append(actions, event.Action)
			continue
		default:
		}
		break
	}
	s.Equal([]string{audit.ActionRegistrationStarted, audit.ActionUserRegistered}, actions)
}

func (s *IdentityServiceSuite) TestProviderOutage() {
	outage := failingProvider{err: verify.ErrUnavailable}
	svc := NewService(s.users, s.pending, s.docs, outage, session.New("k", time.Hour), s.publisher, nil)

	_, err := svc.StartRegistration(s.ctx, testPhone, "Asha")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeUnavailable))

	_, err = s.pending.Find(s.ctx, testPhone)
	s.Require().Error(err, "no pending record written when the provider is down")
}

func (s *IdentityServiceSuite) TestProviderRejectsPhone() {
	rejecting := failingProvider{err: verify.ErrInvalidPhone}
	svc := NewService(s.users, s.pending, s.docs, rejecting, session.New("k", time.Hour), s.publisher, nil)

	_, err := svc.StartRegistration(s.ctx, testPhone, "Asha")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))
}

func (s *IdentityServiceSuite) TestGetUser() {
	s.register(testPhone, "Asha")

	user, err := s.svc.GetUser(s.ctx, testPhone)
	s.Require().NoError(err)
	s.Equal("Asha", user.Name)

	_, err = s.svc.GetUser(s.ctx, "+915555555555")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

type failingProvider struct {
	err error
}

func (p failingProvider) StartChallenge(context.Context, string) (verify.Challenge, error) {
	return verify.Challenge{}, p.err
}

func (p failingProvider) CheckChallenge(context.Context, string, string) (verify.CheckResult, error) {
	return verify.CheckResult{}, p.err
}

func docDocument(certType, name string) docmodels.Document {
	return docmodels.Document{
		CertificateType: certType,
		CertificateName: name,
		SourceURI:       "ipfs://" + name,
	}
}
