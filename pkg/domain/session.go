package domain

import (
	"github.com/openbadge-labs/sprout/pkg/ledger"
)

// Session is the mutable aggregate for one onboarding interaction.
// The ledger stays authoritative; everything here is a cache of the last
// chain resolution plus the flags that gate creation writes.
type Session struct {
	ID        string         `json:"id"`
	Authority ledger.Address `json:"authority"`

	// Resources holds the chain links in order, indexed by Kind.
	Resources [NumKinds]Resource `json:"resources"`

	// InProgress is true while a creation write awaits confirmation.
	// At most one creation may be in flight per session.
	InProgress bool `json:"in_progress"`

	// Completed records that the full chain was observed resolved at
	// least once. Monotonic until an explicit reset.
	Completed bool `json:"completed"`

	// Params stages user input for the next creation.
	Params PendingParams `json:"params"`

	// MinBalance is the funding level (lamports) the root account needs
	// before creation writes may be attempted.
	MinBalance uint64 `json:"min_balance"`

	// Version increments on every persisted update. Staleness diagnostics
	// only; it carries no concurrency-control meaning.
	Version uint64 `json:"version"`
}

// NewSession creates a fresh session for an authority. All links start
// unprobed; the root account's address is the authority key itself.
func NewSession(id string, authority ledger.Address, minBalance uint64) *Session {
	s := &Session{
		ID:         id,
		Authority:  authority,
		MinBalance: minBalance,
	}
	for i := range s.Resources {
		s.Resources[i] = Resource{Kind: Kind(i), Existence: ExistenceUnknown}
	}
	s.Resources[KindAccount].Address = authority
	return s
}

// Resource returns the chain link for the given kind.
func (s *Session) Resource(kind Kind) *Resource {
	return &s.Resources[kind]
}

// AccountSatisfied reports whether the root account exists and carries at
// least the minimum balance. Funding gates progression past NeedAccount.
func (s *Session) AccountSatisfied() bool {
	acct := s.Resources[KindAccount]
	return acct.Present() && acct.Lamports >= s.MinBalance
}

// Clone returns a deep copy, so chain updates can be prepared without any
// partial state becoming visible to other readers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.Params = s.Params.Clone()
	return &next
}
