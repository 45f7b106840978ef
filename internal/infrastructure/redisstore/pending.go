package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mzeitler/bank-portal/internal/domain/entity"
)

const keyPrefix = "pending_transfer:"

// PendingTransferStore keeps pending transfers in Redis, keyed by the
// gateway reference. The TTL bounds how long a reference stays
// verifiable; entries are otherwise deleted only after a successful
// recording.
type PendingTransferStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPendingTransferStore(client *redis.Client, ttl time.Duration) *PendingTransferStore {
	return &PendingTransferStore{client: client, ttl: ttl}
}

func (s *PendingTransferStore) Put(ctx context.Context, reference string, t entity.PendingTransfer) error {
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal pending transfer: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+reference, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("store pending transfer: %w", err)
	}
	return nil
}

func (s *PendingTransferStore) Get(ctx context.Context, reference string) (*entity.PendingTransfer, error) {
	raw, err := s.client.Get(ctx, keyPrefix+reference).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load pending transfer: %w", err)
	}
	var t entity.PendingTransfer
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("unmarshal pending transfer: %w", err)
	}
	return &t, nil
}

func (s *PendingTransferStore) Delete(ctx context.Context, reference string) error {
	if err := s.client.Del(ctx, keyPrefix+reference).Err(); err != nil {
		return fmt.Errorf("delete pending transfer: %w", err)
	}
	return nil
}
