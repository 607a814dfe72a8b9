package models

import "time"

// Vote is one governance vote cast during a task dispute. Only the
// voter identity matters to the metrics core; the rest is carried for
// the ledger's dispute resolution.
type Vote struct {
	ID      string
	TaskID  string
	Voter   string
	Support bool
	CastAt  time.Time
}
