package models

import "time"

// Task lifecycle statuses, mirroring the bounty flow on chain. The
// metrics core only ever branches on StatusCompleted; unknown upstream
// statuses simply count as not completed.
const (
	StatusOpen      = "open"
	StatusClaimed   = "claimed"
	StatusSubmitted = "submitted"
	StatusCompleted = "completed"
	StatusDisputed  = "disputed"
)

type Task struct {
	ID        string
	Creator   string
	Claimant  string // empty while the task is unclaimed
	Title     string
	Reward    uint64
	Status    string
	Deadline  time.Time // zero value means no deadline
	CreatedAt time.Time
	UpdatedAt time.Time
}
