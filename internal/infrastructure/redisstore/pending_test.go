package redisstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzeitler/bank-portal/internal/domain/entity"
	"github.com/mzeitler/bank-portal/internal/infrastructure/redisstore"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("skipping Redis integration tests: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPendingTransferStore_RoundTrip(t *testing.T) {
	client := newTestClient(t)
	store := redisstore.NewPendingTransferStore(client, time.Minute)
	ctx := context.Background()
	reference := "ref-" + uuid.NewString()

	missing, err := store.Get(ctx, reference)
	require.NoError(t, err)
	assert.Nil(t, missing)

	in := entity.PendingTransfer{
		RecipientEmail: "b@x.com",
		PayerEmail:     "a@x.com",
		Amount:         decimal.RequireFromString("99.99"),
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Put(ctx, reference, in))

	got, err := store.Get(ctx, reference)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, in.RecipientEmail, got.RecipientEmail)
	assert.Equal(t, in.PayerEmail, got.PayerEmail)
	assert.True(t, in.Amount.Equal(got.Amount))

	require.NoError(t, store.Delete(ctx, reference))
	gone, err := store.Get(ctx, reference)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestPendingTransferStore_TTL(t *testing.T) {
	client := newTestClient(t)
	store := redisstore.NewPendingTransferStore(client, 50*time.Millisecond)
	ctx := context.Background()
	reference := "ref-" + uuid.NewString()

	require.NoError(t, store.Put(ctx, reference, entity.PendingTransfer{
		RecipientEmail: "b@x.com",
	}))

	time.Sleep(100 * time.Millisecond)

	got, err := store.Get(ctx, reference)
	require.NoError(t, err)
	assert.Nil(t, got)
}
