package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openbadge-labs/sprout/pkg/domain"
	"github.com/openbadge-labs/sprout/pkg/ledger"
	"github.com/openbadge-labs/sprout/pkg/ports"
)

// Ledger implements ports.LedgerClient against an in-process account map.
// It honors the same observable semantics as a remote ledger: creations at
// an occupied address are rejected, unfunded authorities cannot pay, and
// reads can be forced to fail to exercise the caller's fail-safe paths.
type Ledger struct {
	mu       sync.Mutex
	program  ledger.Address
	accounts map[ledger.Address]ledger.AccountInfo
	seq      uint64

	readErr    error
	writeErr   error
	writeDelay time.Duration
}

// LedgerOption configures the fake ledger.
type LedgerOption func(*Ledger)

// WithReadError makes every read fail with err until cleared.
func WithReadError(err error) LedgerOption {
	return func(l *Ledger) {
		l.readErr = err
	}
}

// WithWriteDelay makes SubmitCreate sleep before committing, so tests can
// overlap activations deterministically.
func WithWriteDelay(d time.Duration) LedgerOption {
	return func(l *Ledger) {
		l.writeDelay = d
	}
}

// NewLedger creates a fake ledger whose resource accounts are owned by the
// given program address.
func NewLedger(program ledger.Address, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		program:  program,
		accounts: make(map[ledger.Address]ledger.AccountInfo),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fund credits lamports to an address, creating a plain (system-owned)
// account when none exists.
func (l *Ledger) Fund(addr ledger.Address, lamports uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	info := l.accounts[addr]
	info.Lamports += lamports
	l.accounts[addr] = info
}

// Put installs an account verbatim. Tests use it to plant foreign-owned
// occupants at derived addresses.
func (l *Ledger) Put(addr ledger.Address, info ledger.AccountInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[addr] = info
}

// SetReadError switches read failures on (non-nil) or off (nil).
func (l *Ledger) SetReadError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readErr = err
}

// SetWriteError makes subsequent SubmitCreate calls fail.
func (l *Ledger) SetWriteError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeErr = err
}

// GetAccount implements ports.LedgerClient.
func (l *Ledger) GetAccount(ctx context.Context, addr ledger.Address) (*ledger.AccountInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.readErr != nil {
		return nil, l.readErr
	}
	info, ok := l.accounts[addr]
	if !ok {
		return nil, nil
	}
	out := info
	return &out, nil
}

// GetBalance implements ports.LedgerClient.
func (l *Ledger) GetBalance(ctx context.Context, addr ledger.Address) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.readErr != nil {
		return 0, l.readErr
	}
	return l.accounts[addr].Lamports, nil
}

// SubmitCreate implements ports.LedgerClient.
func (l *Ledger) SubmitCreate(ctx context.Context, req ports.CreateRequest) (ledger.CreateResult, error) {
	if d := l.delay(); d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ledger.CreateResult{}, ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.writeErr != nil {
		return ledger.CreateResult{}, l.writeErr
	}

	if req.Kind == domain.KindAccount {
		// Funding the root account is idempotent enough for a fake:
		// credit the requested amount.
		info := l.accounts[req.Address]
		info.Lamports += req.Lamports
		l.accounts[req.Address] = info
		return l.result(req.Address), nil
	}

	if existing, ok := l.accounts[req.Address]; ok && existing.Owner == l.program {
		return ledger.CreateResult{}, fmt.Errorf("account already exists at %s", req.Address)
	}

	payer := l.accounts[req.Authority]
	if payer.Lamports == 0 {
		return ledger.CreateResult{}, fmt.Errorf("authority %s cannot pay rent", req.Authority.Short())
	}

	l.accounts[req.Address] = ledger.AccountInfo{
		Owner:    l.program,
		Lamports: 1,
		DataLen:  256,
	}
	return l.result(req.Address), nil
}

func (l *Ledger) delay() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writeDelay
}

func (l *Ledger) result(addr ledger.Address) ledger.CreateResult {
	l.seq++
	return ledger.CreateResult{
		Signature: fmt.Sprintf("memtx-%d", l.seq),
		Address:   addr,
	}
}
