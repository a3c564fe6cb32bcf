package sprout

import (
	"context"
	"log/slog"

	"github.com/openbadge-labs/sprout/internal/logging"
	"github.com/openbadge-labs/sprout/internal/runtime"
	"github.com/openbadge-labs/sprout/pkg/adapters/memory"
	"github.com/openbadge-labs/sprout/pkg/domain"
	"github.com/openbadge-labs/sprout/pkg/ledger"
	"github.com/openbadge-labs/sprout/pkg/observability"
	"github.com/openbadge-labs/sprout/pkg/ports"
	"github.com/openbadge-labs/sprout/pkg/session"
)

// Version is the module release version, surfaced by the CLI.
var Version = "0.3.0"

// Engine is the high-level entry point for the sprout library. It wraps
// the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime  *runtime.Engine
	sessions *session.Manager

	store      ports.SessionStore
	locker     ports.DistributedLocker
	metrics    *observability.Metrics
	logger     *slog.Logger
	minBalance uint64
}

// Option configures the Engine.
type Option func(*Engine)

// WithStore injects a session store (default: in-memory).
func WithStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed session locking for multi-replica
// deployments.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
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

// New initializes a sprout Engine over a ledger client. program is the
// on-ledger program expected to own every derived resource account.
func New(ledgerClient ports.LedgerClient, program ledger.Address, opts ...Option) *Engine {
	e := &Engine{
		minBalance: runtime.DefaultMinBalance,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}

	managerOpts := []session.Option{session.WithLogger(e.logger)}
	if e.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(e.locker))
	}
	e.sessions = session.NewManager(e.store, managerOpts...)

	e.runtime = runtime.NewEngine(ledgerClient, e.sessions, program,
		runtime.WithLogger(e.logger),
		runtime.WithMetrics(e.metrics),
		runtime.WithMinBalance(e.minBalance),
	)
	return e
}

// StartSession loads the session or creates a fresh one for the authority.
func (e *Engine) StartSession(ctx context.Context, sessionID string, authority ledger.Address) (*domain.Session, error) {
	return e.runtime.StartSession(ctx, sessionID, authority)
}

// Session returns the current snapshot without touching the ledger.
func (e *Engine) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.runtime.Session(ctx, sessionID)
}

// ProbeChain re-resolves the resource chain against the ledger.
func (e *Engine) ProbeChain(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.runtime.ProbeChain(ctx, sessionID)
}

// Evaluate probes the chain and renders the next presentation node.
func (e *Engine) Evaluate(ctx context.Context, sessionID string) (*domain.Session, *domain.PresentationNode, error) {
	return e.runtime.Evaluate(ctx, sessionID)
}

// RefreshBalance re-runs only the root balance probe.
func (e *Engine) RefreshBalance(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.runtime.RefreshBalance(ctx, sessionID)
}

// StageProfile stages issuer profile inputs for the next creation.
func (e *Engine) StageProfile(ctx context.Context, sessionID string, params domain.ProfileParams) error {
	return e.runtime.StageProfile(ctx, sessionID, params)
}

// StageAchievement stages achievement definition inputs.
func (e *Engine) StageAchievement(ctx context.Context, sessionID string, params domain.AchievementParams) error {
	return e.runtime.StageAchievement(ctx, sessionID, params)
}

// StageCredential stages credential issuance inputs.
func (e *Engine) StageCredential(ctx context.Context, sessionID string, params domain.CredentialParams) error {
	return e.runtime.StageCredential(ctx, sessionID, params)
}

// AttemptCreate submits the creation write for one resource, guarded
// against double submission and no-op once the resource exists.
func (e *Engine) AttemptCreate(ctx context.Context, sessionID string, kind domain.Kind) (ledger.Address, error) {
	return e.runtime.AttemptCreate(ctx, sessionID, kind)
}

// ForceReset clears the session flags down to the given boundary,
// preserving every confirmed address.
func (e *Engine) ForceReset(ctx context.Context, sessionID string, boundary domain.ResetBoundary) (*domain.Session, error) {
	return e.runtime.ForceReset(ctx, sessionID, boundary)
}

// NextStep derives the next required step. Pure.
func (e *Engine) NextStep(s *domain.Session) domain.Step {
	return runtime.NextStep(s)
}

// Render produces a fresh presentation node for a step.
func (e *Engine) Render(step domain.Step, s *domain.Session) *domain.PresentationNode {
	return runtime.Render(step, s)
}

// Sessions exposes the session manager for listing and deletion.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}
