package runtime

import (
	"context"

	"github.com/openbadge-labs/sprout/pkg/domain"
	"github.com/openbadge-labs/sprout/pkg/ledger"
	"github.com/openbadge-labs/sprout/pkg/observability"
)

// probeChain re-resolves every link in strict Account → Profile →
// Achievement → Credential order. It works on a clone, so no partial
// resolution is ever visible to another reader.
//
// A link is only probed after its parent is confirmed present: the child's
// address derivation needs the parent's confirmed address, and probing an
// orphan is a wasted read. Probe failures classify as absent, never as
// present: offering a redundant creation is retryable, silently skipping
// a missing resource is not.
func (e *Engine) probeChain(ctx context.Context, s *domain.Session) *domain.Session {
	next := s.Clone()

	e.probeAccount(ctx, next)

	// When a link re-derives to a different address (a new achievement
	// name was staged), the child's recorded address belongs to the old
	// branch of the chain and must not be reused.
	parentChanged := false

	for kind := domain.KindProfile; int(kind) < domain.NumKinds; kind++ {
		parent, _ := kind.Parent()
		if !next.Resource(parent).Present() {
			markUnknownFrom(next, kind)
			break
		}

		res := next.Resource(kind)
		addr, ok := e.deriveLinkAddress(next, kind, parentChanged)
		if !ok {
			// Parent confirmed but the discriminating inputs are neither
			// staged nor previously resolved: nothing derivable can exist.
			res.Existence = domain.ExistenceAbsent
			parentChanged = true
			continue
		}

		parentChanged = !res.Address.IsZero() && addr != res.Address
		res.Address = addr
		res.Detached = false
		e.classify(ctx, next.ID, res)
	}

	// Completed is monotonic within a session; only recovery clears it.
	if NextStep(next) == domain.StepComplete {
		next.Completed = true
	}
	return next
}

// probeAccount resolves the root wallet account. Ownership is not checked
// here: the wallet is a plain system account, and its funding level is
// what gates the rest of the chain.
func (e *Engine) probeAccount(ctx context.Context, s *domain.Session) {
	res := s.Resource(domain.KindAccount)
	res.Address = s.Authority

	info, err := e.ledger.GetAccount(ctx, res.Address)
	switch {
	case err != nil:
		e.logger.Warn("account probe failed, treating as absent",
			"session_id", s.ID, "address", res.Address.Short(), "err", err)
		e.metrics.ObserveProbe(res.Kind.String(), observability.ProbeError)
		res.Existence = domain.ExistenceAbsent
	case info == nil:
		e.metrics.ObserveProbe(res.Kind.String(), observability.ProbeAbsent)
		res.Existence = domain.ExistenceAbsent
		res.Lamports = 0
	default:
		e.metrics.ObserveProbe(res.Kind.String(), observability.ProbePresent)
		res.Existence = domain.ExistencePresent
		res.Lamports = info.Lamports
	}
}

// classify probes one derived address and records the tri-state result.
// A present account owned by a different program is an address collision,
// not our resource: it classifies as absent.
func (e *Engine) classify(ctx context.Context, sessionID string, res *domain.Resource) {
	info, err := e.ledger.GetAccount(ctx, res.Address)
	switch {
	case err != nil:
		e.logger.Warn("ledger probe failed, treating as absent",
			"session_id", sessionID, "kind", res.Kind.String(), "address", res.Address.Short(), "err", err)
		e.metrics.ObserveProbe(res.Kind.String(), observability.ProbeError)
		res.Existence = domain.ExistenceAbsent
	case info == nil:
		e.metrics.ObserveProbe(res.Kind.String(), observability.ProbeAbsent)
		res.Existence = domain.ExistenceAbsent
	case info.Owner != e.program:
		e.logger.Debug("address occupied by foreign program",
			"session_id", sessionID, "kind", res.Kind.String(),
			"address", res.Address.Short(), "owner", info.Owner.Short())
		e.metrics.ObserveProbe(res.Kind.String(), observability.ProbeForeign)
		res.Existence = domain.ExistenceAbsent
	default:
		e.metrics.ObserveProbe(res.Kind.String(), observability.ProbePresent)
		res.Existence = domain.ExistencePresent
	}
}

// deriveLinkAddress computes a link's deterministic address from its
// confirmed parent and discriminating arguments. Staged parameters win;
// otherwise the previously resolved address is reused unless the parent
// re-derived elsewhere. ok is false when no source yields inputs.
func (e *Engine) deriveLinkAddress(s *domain.Session, kind domain.Kind, parentChanged bool) (ledger.Address, bool) {
	switch kind {
	case domain.KindProfile:
		return ledger.Derive(ledger.TagIssuer, s.Authority), true

	case domain.KindAchievement:
		if p := s.Params.Achievement; p != nil {
			profile := s.Resource(domain.KindProfile).Address
			return ledger.Derive(ledger.TagAchievement, profile, []byte(p.Name)), true
		}

	case domain.KindCredential:
		if p := s.Params.Credential; p != nil {
			achievement := s.Resource(domain.KindAchievement).Address
			profile := s.Resource(domain.KindProfile).Address
			return ledger.Derive(ledger.TagCredential, achievement, profile[:], p.Recipient[:]), true
		}
	}

	if res := s.Resource(kind); !parentChanged && !res.Detached && !res.Address.IsZero() {
		return res.Address, true
	}
	return ledger.Zero, false
}

// markUnknownFrom resets the resolution of kind and everything deeper.
// Addresses are kept: once confirmed they stay cheap to re-probe.
func markUnknownFrom(s *domain.Session, kind domain.Kind) {
	for k := kind; int(k) < domain.NumKinds; k++ {
		s.Resource(k).Existence = domain.ExistenceUnknown
	}
}
