// Package runtime implements the onboarding state machine: the chain
// prober, the idempotency guard, the flow controller and the recovery
// mechanism. The ledger is the single source of truth; sessions only cache
// its last observed resolution.
package runtime

import (
	"context"
	"log/slog"

	"github.com/openbadge-labs/sprout/internal/logging"
	"github.com/openbadge-labs/sprout/pkg/domain"
	"github.com/openbadge-labs/sprout/pkg/ledger"
	"github.com/openbadge-labs/sprout/pkg/observability"
	"github.com/openbadge-labs/sprout/pkg/ports"
	"github.com/openbadge-labs/sprout/pkg/session"
)

// DefaultMinBalance is the funding level (lamports) the root account needs
// before creation writes are attempted.
const DefaultMinBalance uint64 = 1_000_000

// Engine drives the resource chain for onboarding sessions.
type Engine struct {
	ledger   ports.LedgerClient
	sessions *session.Manager

	program    ledger.Address
	minBalance uint64

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithMinBalance overrides the funding threshold for the root account.
func WithMinBalance(lamports uint64) Option {
	return func(e *Engine) {
		e.minBalance = lamports
	}
}

// NewEngine creates the state machine runner. program is the on-ledger
// program expected to own every derived resource account.
func NewEngine(ledgerClient ports.LedgerClient, sessions *session.Manager, program ledger.Address, opts ...Option) *Engine {
	e := &Engine{
		ledger:     ledgerClient,
		sessions:   sessions,
		program:    program,
		minBalance: DefaultMinBalance,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sessions exposes the session manager (listing, deletion).
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// StartSession loads the session or creates a fresh one for the authority.
func (e *Engine) StartSession(ctx context.Context, sessionID string, authority ledger.Address) (*domain.Session, error) {
	return e.sessions.LoadOrCreate(ctx, sessionID, authority, e.minBalance)
}

// Session returns the current snapshot without touching the ledger.
func (e *Engine) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.sessions.Load(ctx, sessionID)
}

// ProbeChain re-resolves the whole chain against the ledger and persists
// the result. If the session is stuck (completed and in-progress at once,
// a combination normal transitions cannot produce) it is repaired first.
func (e *Engine) ProbeChain(ctx context.Context, sessionID string) (*domain.Session, error) {
	var out *domain.Session
	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := e.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}
		e.repairIfStuck(s)

		next := e.probeChain(ctx, s)
		next.Version++
		if err := e.sessions.Store().Save(ctx, sessionID, next); err != nil {
			return err
		}
		out = next
		return nil
	})
	return out, err
}

// Evaluate probes the chain, then derives the next step and its fresh
// presentation node.
func (e *Engine) Evaluate(ctx context.Context, sessionID string) (*domain.Session, *domain.PresentationNode, error) {
	s, err := e.ProbeChain(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return s, Render(NextStep(s), s), nil
}

// RefreshBalance re-runs only the root balance probe. Offered as the retry
// action after an insufficient-funds rejection, so the user does not pay
// for a full chain re-resolution.
func (e *Engine) RefreshBalance(ctx context.Context, sessionID string) (*domain.Session, error) {
	var out *domain.Session
	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := e.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}
		next := s.Clone()
		balance, err := e.ledger.GetBalance(ctx, next.Authority)
		if err != nil {
			e.logger.Warn("balance probe failed", "session_id", sessionID, "err", err)
			return err
		}
		acct := next.Resource(domain.KindAccount)
		acct.Lamports = balance
		if balance > 0 {
			acct.Existence = domain.ExistencePresent
		}
		next.Version++
		if err := e.sessions.Store().Save(ctx, sessionID, next); err != nil {
			return err
		}
		out = next
		return nil
	})
	return out, err
}

// StageProfile stages the issuer profile inputs for the next creation.
func (e *Engine) StageProfile(ctx context.Context, sessionID string, params domain.ProfileParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return e.stage(ctx, sessionID, func(s *domain.Session) {
		s.Params.Profile = &params
	})
}

// StageAchievement stages the achievement definition inputs. The name
// discriminates the derived address, so staging a new name after a reset
// targets a fresh achievement.
func (e *Engine) StageAchievement(ctx context.Context, sessionID string, params domain.AchievementParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return e.stage(ctx, sessionID, func(s *domain.Session) {
		s.Params.Achievement = &params
	})
}

// StageCredential stages the credential issuance inputs.
func (e *Engine) StageCredential(ctx context.Context, sessionID string, params domain.CredentialParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return e.stage(ctx, sessionID, func(s *domain.Session) {
		s.Params.Credential = &params
	})
}

func (e *Engine) stage(ctx context.Context, sessionID string, apply func(*domain.Session)) error {
	return e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := e.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}
		apply(s)
		s.Version++
		return e.sessions.Store().Save(ctx, sessionID, s)
	})
}
