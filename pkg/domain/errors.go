package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrCreationBusy is returned when a creation is attempted while another
// write is already in flight for the session.
var ErrCreationBusy = errors.New("another creation is already in flight")

// ErrParentMissing is returned when a creation targets a link whose parent
// is not confirmed on the ledger. It never reaches the ledger.
var ErrParentMissing = errors.New("parent resource not confirmed on ledger")

// ErrMissingParams is returned when a creation is attempted before its
// parameters were staged.
var ErrMissingParams = errors.New("creation parameters not staged")

// InsufficientFundsError reports that the root account cannot pay for a
// creation write. It carries the observed balance so the user sees what
// is missing.
type InsufficientFundsError struct {
	Balance  uint64
	Required uint64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %d lamports, need at least %d", e.Balance, e.Required)
}
