package models

// Stats is a point-in-time projection of the ledger for one wallet.
// It is recomputed from scratch on every observed change and carries
// the address it was computed for, so consumers can tell which
// identity a delivered snapshot belongs to.
type Stats struct {
	Address        string
	CreatedCount   int
	ClaimedCount   int
	CompletedCount int
	CompletionRate int // integer percentage in [0, 100]
	VoteCount      int
}
