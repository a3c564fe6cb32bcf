/*
Package ports defines the driven ports (interfaces) for the sprout engine.

These interfaces decouple the core logic from external implementations,
allowing the engine to work against different ledgers, session stores and
locking backends.

# Key Interfaces

  - LedgerClient: read/write access to the distributed ledger.
  - SessionStore: persistence of onboarding Session snapshots.
  - DistributedLocker: distributed locking for multi-replica deployments.
*/
package ports
