/*
Package sprout walks a user through provisioning the chain of dependent
on-ledger resources needed to issue achievement credentials:

	Account (funded wallet) → Issuer Profile → Achievement → Credential

The distributed ledger is the single source of truth. Local session state
is only a cache of the last observed resolution: every link's address is
derived deterministically from its parent, probed in strict chain order,
and re-probed whenever the flow is evaluated. The next dialogue step is a
pure function of the cached existence flags, so the conversation branches
from derived state rather than a fixed script.

# Architecture

Hexagonal: the core (internal/runtime) talks to the ledger and to session
storage exclusively through ports (pkg/ports). Adapters provide a JSON-RPC
ledger client, in-memory and Redis session stores, a Redis distributed
locker, and a chi HTTP presentation surface. The per-session mutex in
pkg/session is load-bearing: the idempotency guard checks and sets the
in-flight flag inside one critical section before any ledger I/O, so rapid
double-activation can never submit the same creation twice.

# Usage

	client := rpc.NewClient("https://ledger.example.org")
	eng := sprout.New(client, programID)

	state, _ := eng.StartSession(ctx, "session-123", authority)
	state, node, _ := eng.Evaluate(ctx, state.ID)
	// node.Text + node.Actions drive the presentation layer;
	// activating a create action calls eng.AttemptCreate.

Failed probes are absorbed (a link that cannot be read classifies as
absent, which is always safe to retry); failed writes surface verbatim
with a retry path that re-runs the idempotency check first.
*/
package sprout
