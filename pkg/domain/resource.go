package domain

import (
	"fmt"

	"github.com/openbadge-labs/sprout/pkg/ledger"
)

// Kind identifies a link in the resource dependency chain, in creation
// order. Every link except the root Account is derived from its parent.
type Kind int

const (
	// KindAccount is the funded wallet account that pays for everything else.
	KindAccount Kind = iota
	// KindProfile is the issuer profile owned by the account authority.
	KindProfile
	// KindAchievement is an achievement definition under the profile.
	KindAchievement
	// KindCredential is an issued credential for a recipient.
	KindCredential

	// NumKinds is the chain length.
	NumKinds int = iota
)

var kindNames = [NumKinds]string{"account", "profile", "achievement", "credential"}

func (k Kind) String() string {
	if k < 0 || int(k) >= NumKinds {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Parent returns the kind one level up the chain. ok is false for the root.
func (k Kind) Parent() (Kind, bool) {
	if k <= KindAccount {
		return KindAccount, false
	}
	return k - 1, true
}

// ParseKind maps a kind name back to its enum value.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown resource kind %q", s)
}

// MarshalText serializes kinds by name in JSON snapshots.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= NumKinds {
		return nil, fmt.Errorf("invalid resource kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Existence is the tri-state resolution of a resource against the ledger.
type Existence string

const (
	// ExistenceUnknown means the resource was never probed (or its parent
	// is not confirmed, so probing it would violate the chain order).
	ExistenceUnknown Existence = "unknown"
	// ExistenceAbsent means the address was probed and either holds
	// nothing, holds a foreign-owned account, or the probe failed.
	ExistenceAbsent Existence = "absent"
	// ExistencePresent means the address holds an account recognized as
	// this chain's resource.
	ExistencePresent Existence = "present"
)

// Resource is the last-known resolution of one chain link.
type Resource struct {
	Kind      Kind           `json:"kind"`
	Address   ledger.Address `json:"address"`
	Existence Existence      `json:"existence"`

	// Lamports is only meaningful for the root Account; it gates whether
	// creation writes can be attempted at all.
	Lamports uint64 `json:"lamports,omitempty"`

	// Detached marks a link cut loose by a user-boundary reset ("issue
	// another achievement"). The old address stays recorded, but the chain
	// will not re-attach to it: resolution waits for freshly staged
	// parameters that derive the new branch.
	Detached bool `json:"detached,omitempty"`
}

// Present reports whether the resource is confirmed on the ledger.
func (r Resource) Present() bool {
	return r.Existence == ExistencePresent
}
