// Package cli implements the interactive onboarding commands.
package cli

import (
	"fmt"
	"log/slog"

	backend "github.com/redis/go-redis/v9"

	sprout "github.com/openbadge-labs/sprout"
	"github.com/openbadge-labs/sprout/internal/config"
	"github.com/openbadge-labs/sprout/pkg/adapters/memory"
	redisAdapter "github.com/openbadge-labs/sprout/pkg/adapters/redis"
	"github.com/openbadge-labs/sprout/pkg/adapters/rpc"
	"github.com/openbadge-labs/sprout/pkg/ledger"
	"github.com/openbadge-labs/sprout/pkg/observability"
	"github.com/openbadge-labs/sprout/pkg/ports"
)

// Options carries the flag and config inputs shared by the CLI commands.
type Options struct {
	Config    config.Config
	SessionID string
	Authority string
	Demo      bool
	Fresh     bool
	Plain     bool
}

// demoProgram owns resource accounts on the in-memory demo ledger.
var demoProgram = ledger.AddressOf([]byte("sprout-demo-program"))

// BuildEngine assembles the engine from options: in-memory everything for
// demo mode, JSON-RPC ledger plus optional Redis sessions otherwise.
func BuildEngine(opts Options, logger *slog.Logger, metrics *observability.Metrics) (*sprout.Engine, ledger.Address, error) {
	cfg := opts.Config

	var (
		client  ports.LedgerClient
		program ledger.Address
	)
	if opts.Demo {
		client = memory.NewLedger(demoProgram)
		program = demoProgram
	} else {
		var err error
		program, err = ledger.Parse(cfg.ProgramID)
		if err != nil {
			return nil, ledger.Zero, fmt.Errorf("invalid program_id: %w", err)
		}
		if program.IsZero() {
			return nil, ledger.Zero, fmt.Errorf("program_id is required (set it in the config file)")
		}
		client = rpc.NewClient(cfg.LedgerURL,
			rpc.WithReadTimeout(cfg.ProbeTimeout.Std()),
			rpc.WithWriteTimeout(cfg.WriteTimeout.Std()),
		)
	}

	engineOpts := []sprout.Option{
		sprout.WithLogger(logger),
		sprout.WithMinBalance(cfg.MinBalance),
	}
	if metrics != nil {
		engineOpts = append(engineOpts, sprout.WithMetrics(metrics))
	}
	if cfg.RedisAddr != "" && !opts.Demo {
		redisClient := backend.NewClient(&backend.Options{Addr: cfg.RedisAddr})
		engineOpts = append(engineOpts,
			sprout.WithStore(redisAdapter.NewFromClient(redisClient, redisAdapter.WithPrefix(cfg.RedisPrefix))),
			sprout.WithLocker(redisAdapter.NewLocker(redisClient, cfg.RedisPrefix)),
		)
	}

	return sprout.New(client, program, engineOpts...), program, nil
}

// ResolveAuthority picks the session authority: the --authority flag when
// given, or a seed-derived address in demo mode.
func (o Options) ResolveAuthority() (ledger.Address, error) {
	if o.Authority != "" {
		return ledger.Parse(o.Authority)
	}
	if o.Demo {
		return ledger.AddressOf([]byte("demo-authority:" + o.SessionID)), nil
	}
	return ledger.Zero, fmt.Errorf("--authority is required outside demo mode")
}
