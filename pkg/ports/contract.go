package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbadge-labs/sprout/pkg/domain"
	"github.com/openbadge-labs/sprout/pkg/ledger"
)

// RunSessionStoreContract verifies that a SessionStore implementation
// adheres to the interface contract. Adapter test suites call this with a
// freshly constructed store.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-session-" + time.Now().Format("20060102150405")
	authority := ledger.AddressOf([]byte("contract-authority"))

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession(sessionID, authority, 5000)
		session.Resources[domain.KindProfile].Address = ledger.Derive(ledger.TagIssuer, authority)
		session.Resources[domain.KindProfile].Existence = domain.ExistencePresent
		session.Params.Achievement = &domain.AchievementParams{Name: "Go 101", Description: "Completed the course"}
		session.Version = 7

		require.NoError(t, store.Save(ctx, sessionID, session))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, session.ID, loaded.ID)
		assert.Equal(t, authority, loaded.Authority)
		assert.Equal(t, domain.ExistencePresent, loaded.Resources[domain.KindProfile].Existence)
		assert.Equal(t, session.Resources[domain.KindProfile].Address, loaded.Resources[domain.KindProfile].Address)
		require.NotNil(t, loaded.Params.Achievement)
		assert.Equal(t, "Go 101", loaded.Params.Achievement.Name)
		assert.Equal(t, uint64(7), loaded.Version)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "no-such-session")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Caller Mutation Isolation", func(t *testing.T) {
		session := domain.NewSession(sessionID+"-iso", authority, 5000)
		require.NoError(t, store.Save(ctx, sessionID+"-iso", session))

		// Mutating the saved value must not leak into the store.
		session.Completed = true
		session.Params.Profile = &domain.ProfileParams{Name: "mutated"}

		loaded, err := store.Load(ctx, sessionID+"-iso")
		require.NoError(t, err)
		assert.False(t, loaded.Completed)
		assert.Nil(t, loaded.Params.Profile)

		// Mutating a loaded value must not leak either.
		loaded.InProgress = true
		reloaded, err := store.Load(ctx, sessionID+"-iso")
		require.NoError(t, err)
		assert.False(t, reloaded.InProgress)
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, sessionID)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, sessionID))
		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}
