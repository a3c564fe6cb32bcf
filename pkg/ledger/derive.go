package ledger

import (
	"crypto/sha256"
	"encoding/binary"
)

// Seed tags mirror the on-ledger program's address namespaces.
const (
	TagIssuer      = "issuer"
	TagAchievement = "achievement"
	TagCredential  = "credential"
)

// deriveDomain separates sprout derivations from any other sha256 usage.
const deriveDomain = "sprout:pda:v1"

// Derive computes the deterministic address for a resource from its
// namespace tag, its parent address and discriminating arguments.
// It is pure: any party holding the same inputs computes the same address
// without a ledger lookup. Arguments are length-prefixed so that
// ("ab","c") and ("a","bc") never collide.
func Derive(tag string, parent Address, args ...[]byte) Address {
	h := sha256.New()
	h.Write([]byte(deriveDomain))
	writeChunk(h, []byte(tag))
	h.Write(parent[:])
	for _, arg := range args {
		writeChunk(h, arg)
	}
	var a Address
	h.Sum(a[:0])
	return a
}

func writeChunk(h interface{ Write([]byte) (int, error) }, chunk []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(chunk)))
	h.Write(n[:])
	h.Write(chunk)
}
