package querysequence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
)

func TestValkeyStoreKey(t *testing.T) {
	require.Equal(t, "bayfinder:query-seq:tab-1", NewValkeyStore(nil, "", time.Minute).key("tab-1"))
	require.Equal(t, "custom:tab-1", NewValkeyStore(nil, "custom", time.Minute).key("tab-1"))
}

// Runs against a live server when VALKEY_ADDR is set, e.g. 127.0.0.1:6379.
func newValkeyClient(t *testing.T) valkey.Client {
	t.Helper()
	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		t.Skip("VALKEY_ADDR not set")
	}
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}, DisableCache: true})
	require.NoError(t, err)
	return client
}

func TestValkeyStoreIssuesIncreasingTickets(t *testing.T) {
	client := newValkeyClient(t)
	defer client.Close()
	store := NewValkeyStore(client, "bayfinder-test:"+uuid.NewString(), time.Minute)
	ctx := context.Background()

	latest, err := store.Latest(ctx, "tab-1")
	require.NoError(t, err, "missing key reads as zero")
	require.Zero(t, latest)

	first, err := store.Next(ctx, "tab-1")
	require.NoError(t, err)
	second, err := store.Next(ctx, "tab-1")
	require.NoError(t, err)
	require.Equal(t, uint64(1), first)
	require.Equal(t, uint64(2), second)

	latest, err = store.Latest(ctx, "tab-1")
	require.NoError(t, err)
	require.Equal(t, uint64(2), latest)

	ttl, err := client.Do(ctx, client.B().Ttl().Key(store.key("tab-1")).Build()).AsInt64()
	require.NoError(t, err)
	require.Greater(t, ttl, int64(0))
	require.LessOrEqual(t, ttl, int64(60))
}

func TestValkeyStoreReportsClientErrors(t *testing.T) {
	client := newValkeyClient(t)
	store := NewValkeyStore(client, "bayfinder-test:"+uuid.NewString(), time.Minute)
	client.Close()

	_, err := store.Next(context.Background(), "tab-1")
	require.ErrorContains(t, err, "increment query sequence")
	_, err = store.Latest(context.Background(), "tab-1")
	require.ErrorContains(t, err, "read query sequence")
}
