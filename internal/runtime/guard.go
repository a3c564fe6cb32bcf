package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/openbadge-labs/sprout/pkg/domain"
	"github.com/openbadge-labs/sprout/pkg/ledger"
	"github.com/openbadge-labs/sprout/pkg/observability"
	"github.com/openbadge-labs/sprout/pkg/ports"
)

// AttemptCreate submits the creation write for one resource, with at most
// one write in flight per session and a no-op once the resource is known
// to exist.
//
// The busy check and the in-progress flag set happen inside one critical
// section under the session mutex, before the first ledger suspension
// point. A bare flag read followed by a later write would leave a
// check-then-act gap where rapid double-activation submits twice; the
// mutex closes it, and the losing activation gets ErrCreationBusy.
func (e *Engine) AttemptCreate(ctx context.Context, sessionID string, kind domain.Kind) (ledger.Address, error) {
	var (
		req    ports.CreateRequest
		cached ledger.Address
		skip   bool
	)

	// Phase 1: check-and-set, no ledger I/O.
	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := e.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}
		if s.InProgress {
			e.metrics.ObserveBusyRejection()
			return domain.ErrCreationBusy
		}
		res := s.Resource(kind)
		satisfied := res.Present()
		if kind == domain.KindAccount {
			// A present but underfunded root account still needs the
			// funding write; only a satisfied one is a no-op.
			satisfied = s.AccountSatisfied()
		}
		if satisfied {
			// Session-layer idempotence, independent of whatever the
			// ledger itself offers.
			cached, skip = res.Address, true
			e.metrics.ObserveCreate(kind.String(), observability.CreateSkipped, 0)
			return nil
		}

		req, err = e.buildCreateRequest(s, kind)
		if err != nil {
			return err
		}

		s.InProgress = true
		s.Version++
		return e.sessions.Store().Save(ctx, sessionID, s)
	})
	if err != nil {
		return ledger.Zero, err
	}
	if skip {
		e.logger.Debug("creation skipped, resource already confirmed",
			"session_id", sessionID, "kind", kind.String(), "address", cached.Short())
		return cached, nil
	}

	// Phase 2: the write. Overlapping activations now see InProgress.
	start := time.Now()
	result, writeErr := e.ledger.SubmitCreate(ctx, req)
	elapsed := time.Since(start).Seconds()

	// Phase 3: guaranteed release of the flag on both paths. A canceled
	// caller context must not leave the session stuck in-progress.
	finCtx := context.WithoutCancel(ctx)
	finErr := e.sessions.WithLock(finCtx, sessionID, func(ctx context.Context) error {
		s, err := e.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}
		s.InProgress = false
		if writeErr == nil {
			res := s.Resource(kind)
			res.Existence = domain.ExistencePresent
			res.Address = result.Address
			res.Detached = false
			s.Params.Consume(kind)
		}
		s.Version++
		return e.sessions.Store().Save(ctx, sessionID, s)
	})

	if writeErr != nil {
		// Surfaced verbatim; the retry path re-runs the idempotency check,
		// so a rejection that was really "already exists" no-ops next time
		// once a probe confirms it.
		if finErr != nil {
			// The in-progress flag may still be set; an explicit reset
			// clears it, but the failure must leave a trace.
			e.logger.Warn("session update failed after rejected write",
				"session_id", sessionID, "kind", kind.String(), "err", finErr)
		}
		e.logger.Warn("creation write rejected",
			"session_id", sessionID, "kind", kind.String(), "err", writeErr)
		e.metrics.ObserveCreate(kind.String(), observability.CreateFailed, elapsed)
		return ledger.Zero, writeErr
	}
	e.metrics.ObserveCreate(kind.String(), observability.CreateSucceeded, elapsed)
	e.logger.Info("resource created",
		"session_id", sessionID, "kind", kind.String(),
		"address", result.Address.Short(), "signature", result.Signature)

	if finErr != nil {
		// The write committed; only the local cache update failed. The
		// next probe re-confirms the resource from the ledger.
		return result.Address, fmt.Errorf("creation committed but session update failed: %w", finErr)
	}
	return result.Address, nil
}

// buildCreateRequest validates the chain invariants and assembles the
// write. Violations are rejected here and never reach the ledger.
func (e *Engine) buildCreateRequest(s *domain.Session, kind domain.Kind) (ports.CreateRequest, error) {
	req := ports.CreateRequest{
		Kind:      kind,
		Authority: s.Authority,
	}

	if parent, ok := kind.Parent(); ok {
		parentRes := s.Resource(parent)
		if !parentRes.Present() {
			return req, fmt.Errorf("%w: %s requires %s", domain.ErrParentMissing, kind, parent)
		}
		req.Parent = parentRes.Address

		// Every child creation is paid by the root account.
		if !s.AccountSatisfied() {
			return req, &domain.InsufficientFundsError{
				Balance:  s.Resource(domain.KindAccount).Lamports,
				Required: s.MinBalance,
			}
		}
	}

	switch kind {
	case domain.KindAccount:
		req.Address = s.Authority
		req.Lamports = s.MinBalance

	case domain.KindProfile:
		if s.Params.Profile == nil {
			return req, fmt.Errorf("%w: profile", domain.ErrMissingParams)
		}
		req.Profile = s.Params.Profile
		req.Address = ledger.Derive(ledger.TagIssuer, s.Authority)

	case domain.KindAchievement:
		if s.Params.Achievement == nil {
			return req, fmt.Errorf("%w: achievement", domain.ErrMissingParams)
		}
		req.Achievement = s.Params.Achievement
		req.Address = ledger.Derive(ledger.TagAchievement, req.Parent, []byte(req.Achievement.Name))

	case domain.KindCredential:
		if s.Params.Credential == nil {
			return req, fmt.Errorf("%w: credential", domain.ErrMissingParams)
		}
		req.Credential = s.Params.Credential
		profile := s.Resource(domain.KindProfile).Address
		req.Address = ledger.Derive(ledger.TagCredential, req.Parent, profile[:], req.Credential.Recipient[:])

	default:
		return req, fmt.Errorf("unknown resource kind %d", int(kind))
	}

	return req, nil
}
