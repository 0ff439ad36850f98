package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"certvault/internal/document/models"
)

const (
	certListKeyPrefix = "certs:"
	certKeyPrefix     = "cert:"
)

// RedisDocumentStore keeps a per-owner list of document ids (RPUSH preserves
// insertion order for Stream) and one JSON value per document.
type RedisDocumentStore struct {
	client *redis.Client
}

func NewRedisDocumentStore(client *redis.Client) *RedisDocumentStore {
	return &RedisDocumentStore{client: client}
}

func (s *RedisDocumentStore) Create(ctx context.Context, ownerPhone string, doc models.Document) (string, error) {
	id := uuid.NewString()
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, certKeyPrefix+ownerPhone+":"+id, payload, 0)
	pipe.RPush(ctx, certListKeyPrefix+ownerPhone, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	return id, nil
}

func (s *RedisDocumentStore) Stream(ctx context.Context, ownerPhone string) ([]models.StoredDocument, error) {
	ids, err := s.client.LRange(ctx, certListKeyPrefix+ownerPhone, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("list document ids: %w", err)
	}
	docs := make([]models.StoredDocument, 0, len(ids))
	for _, id := range ids {
		payload, err := s.client.Get(ctx, certKeyPrefix+ownerPhone+":"+id).Bytes()
		if errors.Is(err, redis.Nil) {
			// Value expired or deleted out of band; skip rather than fail the stream.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", id, err)
		}
		var doc models.Document
		if err := json.Unmarshal(payload, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal document %s: %w", id, err)
		}
		docs = append(docs, models.StoredDocument{ID: id, Document: doc})
	}
	return docs, nil
}
