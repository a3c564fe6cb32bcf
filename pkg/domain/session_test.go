package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbadge-labs/sprout/pkg/ledger"
)

func TestNewSession(t *testing.T) {
	authority := ledger.AddressOf([]byte("auth"))
	s := NewSession("s1", authority, 5000)

	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, authority, s.Resource(KindAccount).Address)
	for _, res := range s.Resources {
		assert.Equal(t, ExistenceUnknown, res.Existence)
	}
	assert.False(t, s.InProgress)
	assert.False(t, s.Completed)
}

func TestAccountSatisfied(t *testing.T) {
	authority := ledger.AddressOf([]byte("auth"))
	s := NewSession("s1", authority, 5000)

	assert.False(t, s.AccountSatisfied(), "unprobed account")

	acct := s.Resource(KindAccount)
	acct.Existence = ExistencePresent
	acct.Lamports = 4999
	assert.False(t, s.AccountSatisfied(), "underfunded account")

	acct.Lamports = 5000
	assert.True(t, s.AccountSatisfied())

	acct.Existence = ExistenceAbsent
	assert.False(t, s.AccountSatisfied(), "funded but absent")
}

func TestCloneIsDeep(t *testing.T) {
	s := NewSession("s1", ledger.AddressOf([]byte("auth")), 5000)
	s.Params.Profile = &ProfileParams{Name: "Acme"}

	clone := s.Clone()
	clone.Resource(KindProfile).Existence = ExistencePresent
	clone.Params.Profile.Name = "changed"
	clone.Completed = true

	assert.Equal(t, ExistenceUnknown, s.Resource(KindProfile).Existence)
	assert.Equal(t, "Acme", s.Params.Profile.Name)
	assert.False(t, s.Completed)
}

func TestKindParentChain(t *testing.T) {
	_, ok := KindAccount.Parent()
	assert.False(t, ok, "root has no parent")

	for kind := KindProfile; int(kind) < NumKinds; kind++ {
		parent, ok := kind.Parent()
		require.True(t, ok)
		assert.Equal(t, kind-1, parent)
	}
}

func TestParseKind(t *testing.T) {
	for i := 0; i < NumKinds; i++ {
		kind := Kind(i)
		parsed, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseKind("badge")
	assert.Error(t, err)
}

func TestPendingParamsStagedAndConsume(t *testing.T) {
	p := PendingParams{}
	assert.True(t, p.Staged(KindAccount), "account never needs params")
	assert.False(t, p.Staged(KindProfile))

	p.Profile = &ProfileParams{Name: "Acme"}
	assert.True(t, p.Staged(KindProfile))

	p.Consume(KindProfile)
	assert.Nil(t, p.Profile)

	// Consuming the root is a no-op.
	p.Consume(KindAccount)
	assert.True(t, p.Staged(KindAccount))
}

func TestParamsValidate(t *testing.T) {
	assert.Error(t, ProfileParams{}.Validate())
	assert.NoError(t, ProfileParams{Name: "Acme"}.Validate())

	assert.Error(t, AchievementParams{Name: "Go 101"}.Validate())
	assert.NoError(t, AchievementParams{Name: "Go 101", Description: "intro"}.Validate())

	assert.Error(t, CredentialParams{}.Validate())
	assert.NoError(t, CredentialParams{Recipient: ledger.AddressOf([]byte("r"))}.Validate())
}

func TestParseResetBoundary(t *testing.T) {
	for _, name := range []string{"flags", "credential", "achievement"} {
		b, err := ParseResetBoundary(name)
		require.NoError(t, err)
		assert.Equal(t, ResetBoundary(name), b)
	}

	_, err := ParseResetBoundary("profile")
	assert.Error(t, err)
}

func TestStepKind(t *testing.T) {
	kind, ok := StepNeedCredential.Kind()
	require.True(t, ok)
	assert.Equal(t, KindCredential, kind)

	_, ok = StepComplete.Kind()
	assert.False(t, ok)
}
