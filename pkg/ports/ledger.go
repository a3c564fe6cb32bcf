package ports

import (
	"context"

	"github.com/openbadge-labs/sprout/pkg/domain"
	"github.com/openbadge-labs/sprout/pkg/ledger"
)

// CreateRequest carries everything a ledger adapter needs to submit one
// creation write. Exactly one of the params pointers is set, matching Kind.
type CreateRequest struct {
	Kind      domain.Kind    `json:"kind"`
	Address   ledger.Address `json:"address"` // derived target address
	Authority ledger.Address `json:"authority"`
	Parent    ledger.Address `json:"parent"`

	// Lamports is the funding amount for KindAccount requests.
	Lamports uint64 `json:"lamports,omitempty"`

	Profile     *domain.ProfileParams     `json:"profile,omitempty"`
	Achievement *domain.AchievementParams `json:"achievement,omitempty"`
	Credential  *domain.CredentialParams  `json:"credential,omitempty"`
}

// LedgerClient is the boundary to the distributed ledger.
//
// Reads fail softly: a missing account is (nil, nil), and transport errors
// surface as errors that the caller treats as "unknown" rather than as a
// confirmed resolution. No retry policy lives here; retries belong to the
// caller. Reads should be bounded by a timeout; writes may legitimately
// take longer, and a write timeout must not be read as "it didn't happen";
// the next probe is authoritative.
type LedgerClient interface {
	// GetAccount fetches existence, ownership and balance for an address.
	GetAccount(ctx context.Context, addr ledger.Address) (*ledger.AccountInfo, error)

	// GetBalance fetches only the lamport balance for an address.
	GetBalance(ctx context.Context, addr ledger.Address) (uint64, error)

	// SubmitCreate submits the creation write for one resource. The ledger
	// may reject it (duplicate, authorization, malformed parameters); the
	// error is surfaced verbatim to the user.
	SubmitCreate(ctx context.Context, req CreateRequest) (ledger.CreateResult, error)
}
