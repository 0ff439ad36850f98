package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"certvault/internal/identity/models"
	"certvault/pkg/platform/sentinel"
)

const (
	userKeyPrefix    = "user:"
	pendingKeyPrefix = "pending:"
)

// RedisUserStore persists confirmed identities as JSON values keyed by phone.
// This is the recommended backend for multi-instance deployments.
type RedisUserStore struct {
	client *redis.Client
}

func NewRedisUserStore(client *redis.Client) *RedisUserStore {
	return &RedisUserStore{client: client}
}

// CreateIfAbsent uses SETNX so the identity record is created atomically:
// concurrent verifications for the same phone produce exactly one record.
func (s *RedisUserStore) CreateIfAbsent(ctx context.Context, user models.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	ok, err := s.client.SetNX(ctx, userKeyPrefix+user.Phone, payload, 0).Result()
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *RedisUserStore) Find(ctx context.Context, phone string) (models.User, error) {
	payload, err := s.client.Get(ctx, userKeyPrefix+phone).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.User{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	var user models.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return models.User{}, fmt.Errorf("unmarshal user: %w", err)
	}
	return user, nil
}

// RedisPendingStore holds pending registrations under a TTL so abandoned
// registrations expire on their own.
type RedisPendingStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPendingStore(client *redis.Client, ttl time.Duration) *RedisPendingStore {
	return &RedisPendingStore{client: client, ttl: ttl}
}

func (s *RedisPendingStore) Put(ctx context.Context, p models.PendingRegistration) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pending registration: %w", err)
	}
	if err := s.client.Set(ctx, pendingKeyPrefix+p.Phone, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("put pending registration: %w", err)
	}
	return nil
}

func (s *RedisPendingStore) Find(ctx context.Context, phone string) (models.PendingRegistration, error) {
	payload, err := s.client.Get(ctx, pendingKeyPrefix+phone).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.PendingRegistration{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.PendingRegistration{}, fmt.Errorf("find pending registration: %w", err)
	}
	var p models.PendingRegistration
	if err := json.Unmarshal(payload, &p); err != nil {
		return models.PendingRegistration{}, fmt.Errorf("unmarshal pending registration: %w", err)
	}
	return p, nil
}

func (s *RedisPendingStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, pendingKeyPrefix+phone).Err(); err != nil {
		return fmt.Errorf("delete pending registration: %w", err)
	}
	return nil
}
