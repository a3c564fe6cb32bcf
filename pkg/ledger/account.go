package ledger

// AccountInfo is the raw view of an on-ledger account as returned by a
// read. The owner program decides whether the account belongs to this
// chain or is an unrelated occupant of the same address.
type AccountInfo struct {
	Owner    Address `json:"owner"`
	Lamports uint64  `json:"lamports"`
	DataLen  uint32  `json:"dataLen"`
}

// CreateResult is the outcome of a successful creation write.
type CreateResult struct {
	Signature string  `json:"signature"`
	Address   Address `json:"address"`
}
