package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbadge-labs/sprout/internal/config"
	"github.com/openbadge-labs/sprout/internal/logging"
	"github.com/openbadge-labs/sprout/pkg/ledger"
)

func TestBuildEngineDemoMode(t *testing.T) {
	opts := Options{Config: config.Default(), SessionID: "s1", Demo: true}

	eng, program, err := BuildEngine(opts, logging.NewNop(), nil)
	require.NoError(t, err)
	assert.Equal(t, demoProgram, program)

	// The demo ledger is self-contained: the engine works end to end
	// without any external node.
	authority, err := opts.ResolveAuthority()
	require.NoError(t, err)
	_, err = eng.StartSession(context.Background(), "s1", authority)
	require.NoError(t, err)
	_, err = eng.ProbeChain(context.Background(), "s1")
	require.NoError(t, err)
}

func TestBuildEngineRequiresProgramID(t *testing.T) {
	opts := Options{Config: config.Default()}

	_, _, err := BuildEngine(opts, logging.NewNop(), nil)
	assert.Error(t, err)
}

func TestBuildEngineRejectsBadProgramID(t *testing.T) {
	cfg := config.Default()
	cfg.ProgramID = "not!base58"

	_, _, err := BuildEngine(Options{Config: cfg}, logging.NewNop(), nil)
	assert.Error(t, err)
}

func TestResolveAuthority(t *testing.T) {
	t.Run("explicit flag wins", func(t *testing.T) {
		want := ledger.AddressOf([]byte("wallet"))
		opts := Options{Authority: want.String(), Demo: true}

		got, err := opts.ResolveAuthority()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("demo derives from session id", func(t *testing.T) {
		a, err := Options{Demo: true, SessionID: "s1"}.ResolveAuthority()
		require.NoError(t, err)
		b, err := Options{Demo: true, SessionID: "s1"}.ResolveAuthority()
		require.NoError(t, err)
		other, err := Options{Demo: true, SessionID: "s2"}.ResolveAuthority()
		require.NoError(t, err)

		assert.Equal(t, a, b, "stable per session")
		assert.NotEqual(t, a, other)
	})

	t.Run("required outside demo", func(t *testing.T) {
		_, err := Options{SessionID: "s1"}.ResolveAuthority()
		assert.Error(t, err)
	})

	t.Run("malformed flag", func(t *testing.T) {
		_, err := Options{Authority: "zz!!"}.ResolveAuthority()
		assert.Error(t, err)
	})
}
