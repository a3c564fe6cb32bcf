package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbadge-labs/sprout/pkg/adapters/memory"
	"github.com/openbadge-labs/sprout/pkg/domain"
	"github.com/openbadge-labs/sprout/pkg/ledger"
	"github.com/openbadge-labs/sprout/pkg/ports"
)

func TestLoadOrCreate(t *testing.T) {
	m := NewManager(memory.NewStore())
	ctx := context.Background()
	authority := ledger.AddressOf([]byte("auth"))

	created, err := m.LoadOrCreate(ctx, "s1", authority, 5000)
	require.NoError(t, err)
	assert.Equal(t, "s1", created.ID)
	assert.Equal(t, authority, created.Authority)
	assert.Equal(t, uint64(5000), created.MinBalance)

	// Second call loads the reserved session; the different authority is
	// ignored because the ID already exists.
	loaded, err := m.LoadOrCreate(ctx, "s1", ledger.AddressOf([]byte("other")), 9000)
	require.NoError(t, err)
	assert.Equal(t, authority, loaded.Authority)
	assert.Equal(t, uint64(5000), loaded.MinBalance)
}

func TestLoadMissing(t *testing.T) {
	m := NewManager(memory.NewStore())

	_, err := m.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSaveDeleteList(t *testing.T) {
	m := NewManager(memory.NewStore())
	ctx := context.Background()

	s := domain.NewSession("s1", ledger.AddressOf([]byte("auth")), 1000)
	require.NoError(t, m.Save(ctx, "s1", s))

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "s1")

	require.NoError(t, m.Delete(ctx, "s1"))
	_, err = m.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

// WithLock must serialize critical sections per session: concurrent
// increments through the lock lose no updates.
func TestWithLockSerializes(t *testing.T) {
	m := NewManager(memory.NewStore())
	ctx := context.Background()

	s := domain.NewSession("s1", ledger.AddressOf([]byte("auth")), 1000)
	require.NoError(t, m.Save(ctx, "s1", s))

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.WithLock(ctx, "s1", func(ctx context.Context) error {
				cur, err := m.Store().Load(ctx, "s1")
				if err != nil {
					return err
				}
				cur.Version++
				return m.Store().Save(ctx, "s1", cur)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := m.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, uint64(workers), final.Version)
}

// countingLocker records distributed lock activity.
type countingLocker struct {
	mu       sync.Mutex
	locked   int
	unlocked int
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	l.locked++
	l.mu.Unlock()
	return func(ctx context.Context) error {
		l.mu.Lock()
		l.unlocked++
		l.mu.Unlock()
		return nil
	}, nil
}

func TestWithLockUsesDistributedLocker(t *testing.T) {
	locker := &countingLocker{}
	m := NewManager(memory.NewStore(), WithLocker(locker), WithLockTTL(time.Second))

	err := m.WithLock(context.Background(), "s1", func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	locker.mu.Lock()
	defer locker.mu.Unlock()
	assert.Equal(t, 1, locker.locked)
	assert.Equal(t, 1, locker.unlocked)
}

// The lock map must not leak entries once all holders are done.
func TestLockEntriesAreReleased(t *testing.T) {
	m := NewManager(memory.NewStore())
	ctx := context.Background()

	err := m.WithLock(ctx, "s1", func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.locks)
}
