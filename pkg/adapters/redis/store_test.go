package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbadge-labs/sprout/pkg/domain"
	"github.com/openbadge-labs/sprout/pkg/ledger"
	"github.com/openbadge-labs/sprout/pkg/ports"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewFromClient(client, opts...), mr
}

func TestStoreContract(t *testing.T) {
	store, _ := newTestStore(t)
	ports.RunSessionStoreContract(t, store)
}

func TestStoreUsesPrefix(t *testing.T) {
	store, mr := newTestStore(t, WithPrefix("custom:"))
	ctx := context.Background()

	session := domain.NewSession("abc", ledger.AddressOf([]byte("auth")), 1000)
	require.NoError(t, store.Save(ctx, "abc", session))

	assert.True(t, mr.Exists("custom:abc"))
	assert.False(t, mr.Exists(defaultPrefix+"abc"))
}

func TestListPrunesExpiredIndexEntries(t *testing.T) {
	store, _ := newTestStore(t, WithTTL(time.Minute))
	ctx := context.Background()

	session := domain.NewSession("live", ledger.AddressOf([]byte("auth")), 1000)
	require.NoError(t, store.Save(ctx, "live", session))

	// Plant an index member whose expiry has long passed, as if its key
	// TTL'd out between saves.
	require.NoError(t, store.client.ZAdd(ctx, store.indexKey(),
		backend.Z{Score: 1, Member: "stale"}).Err())

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "live")
	assert.NotContains(t, ids, "stale")
}
