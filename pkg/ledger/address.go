package ledger

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// AddressLen is the byte length of a ledger address.
const AddressLen = 32

// Address identifies an account on the ledger. The zero value is not a
// valid on-ledger address and is used as "not derived yet".
type Address [AddressLen]byte

// Zero is the empty address.
var Zero Address

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a == Zero
}

// String returns the canonical base58 text form.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Short returns an abbreviated form for display (e.g. "3nF9…kQ2x").
func (a Address) Short() string {
	s := a.String()
	if len(s) <= 8 {
		return s
	}
	return s[:4] + "…" + s[len(s)-4:]
}

// MarshalText implements encoding.TextMarshaler so addresses serialize as
// base58 strings in JSON session snapshots.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Parse decodes a base58 address string.
func Parse(s string) (Address, error) {
	if s == "" {
		return Zero, nil
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(raw) != AddressLen {
		return Zero, fmt.Errorf("invalid address %q: expected %d bytes, got %d", s, AddressLen, len(raw))
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}

// MustParse is Parse for static inputs; it panics on malformed addresses.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressOf maps an arbitrary seed to an address. Useful for demo and
// test authorities where no real keypair exists.
func AddressOf(seed []byte) Address {
	return Address(sha256.Sum256(seed))
}
