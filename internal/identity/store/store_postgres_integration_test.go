//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"certvault/internal/identity/models"
	"certvault/pkg/platform/sentinel"
	"certvault/pkg/testutil/containers"
)

type PostgresIdentityStoreSuite struct {
	suite.Suite
	ctx     context.Context
	users   *PostgresUserStore
	pending *PostgresPendingStore
}

func TestPostgresIdentityStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pc := containers.NewPostgresContainer(t)
	ctx := context.Background()
	if err := Schema(ctx, pc.DB); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	s := &PostgresIdentityStoreSuite{
		ctx:     ctx,
		users:   NewPostgresUserStore(pc.DB),
		pending: NewPostgresPendingStore(pc.DB),
	}
	suite.Run(t, s)
}

func (s *PostgresIdentityStoreSuite) TestUserRoundTrip() {
	user := models.User{
		Phone:     "+919876543210",
		Name:      "Asha",
		DOB:       "1994-03-12",
		Gender:    "F",
		CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.users.CreateIfAbsent(s.ctx, user))

	got, err := s.users.Find(s.ctx, user.Phone)
	s.Require().NoError(err)
	s.Equal(user.Name, got.Name)
	s.Equal(user.DOB, got.DOB)
	s.Equal(user.Gender, got.Gender)
	s.WithinDuration(user.CreatedAt, got.CreatedAt, time.Second)
}

func (s *PostgresIdentityStoreSuite) TestCreateIfAbsentConflicts() {
	phone := "+918888888888"
	s.Require().NoError(s.users.CreateIfAbsent(s.ctx, models.User{Phone: phone, Name: "First", CreatedAt: time.Now().UTC()}))

	err := s.users.CreateIfAbsent(s.ctx, models.User{Phone: phone, Name: "Second", CreatedAt: time.Now().UTC()})
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	got, err := s.users.Find(s.ctx, phone)
	s.Require().NoError(err)
	s.Equal("First", got.Name)
}

func (s *PostgresIdentityStoreSuite) TestFindMissingUser() {
	_, err := s.users.Find(s.ctx, "+910000000000")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresIdentityStoreSuite) TestPendingUpsertAndDelete() {
	phone := "+917777777777"
	s.Require().NoError(s.pending.Put(s.ctx, models.PendingRegistration{Phone: phone, Name: "First", RequestedAt: time.Now().UTC()}))
	s.Require().NoError(s.pending.Put(s.ctx, models.PendingRegistration{Phone: phone, Name: "Second", RequestedAt: time.Now().UTC()}))

	got, err := s.pending.Find(s.ctx, phone)
	s.Require().NoError(err)
	s.Equal("Second", got.Name)

	s.Require().NoError(s.pending.Delete(s.ctx, phone))
	_, err = s.pending.Find(s.ctx, phone)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.pending.Delete(s.ctx, phone), "double delete is a no-op")
}
