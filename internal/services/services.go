package services

import (
	"errors"
	"time"

	"github.com/taskbounty/daoboard/internal/models"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskNotOpen      = errors.New("task is not open")
	ErrTaskNotClaimed   = errors.New("task is not claimed")
	ErrTaskNotSubmitted = errors.New("task is not submitted")
	ErrNotClaimant      = errors.New("sender is not the claimant")
	ErrNotCreator       = errors.New("sender is not the creator")
	ErrNotParticipant   = errors.New("sender is neither claimant nor creator")
	ErrNoActiveDispute  = errors.New("no active dispute")
	ErrAlreadyVoted     = errors.New("already voted in this dispute")
	ErrEmptyAddress     = errors.New("address must not be empty")
	ErrMalformedSeed    = errors.New("malformed seed document")
)

// WalletService is the identity source: it holds the currently active
// wallet address. It performs no signature verification; in production
// a wallet adapter sits behind this interface.
type WalletService interface {
	// Connect sets the active wallet address. It returns
	// ErrEmptyAddress for a blank address.
	Connect(address string) error

	// Disconnect clears the active wallet address.
	Disconnect()

	// Current returns the active wallet address, or the empty string
	// if no wallet is connected. Safe to call repeatedly.
	Current() string
}

// LedgerService owns the task and vote collections and drives the
// bounty lifecycle: open -> claimed -> submitted -> completed, with a
// dispute vote branching off submitted. Every mutation notifies
// subscribers through the event bus.
type LedgerService interface {
	// CreateTask records a new open task authored by params.Creator.
	CreateTask(params CreateTaskParams) (*models.Task, error)

	// ClaimTask assigns an open task to the claimant.
	//
	// It returns ErrTaskNotOpen if the task has already been claimed.
	ClaimTask(taskID, claimant string) error

	// SubmitTask moves a claimed task to submitted. Only the claimant
	// may submit.
	SubmitTask(taskID, claimant string) error

	// ApproveTask completes a submitted task. Only the creator may
	// approve.
	ApproveTask(taskID, approver string) error

	// DisputeTask opens a yes/no vote over a submitted task. Either
	// the claimant or the creator may dispute.
	DisputeTask(taskID, by string) error

	// CastVote records one vote in an active dispute. Each voter may
	// vote at most once per dispute.
	CastVote(taskID, voter string, support bool) error

	// FinalizeVote closes an active dispute. Only the creator may
	// finalize: a yes majority completes the task, anything else
	// clears the claimant and reopens it.
	FinalizeVote(taskID, by string) error

	// ReopenExpired reverts claimed and submitted tasks whose deadline
	// has passed back to open, clearing the claimant. It returns the
	// number of tasks reopened.
	ReopenExpired(now time.Time) int

	// View returns a copy of the ledger scoped to the given address,
	// taken under a single lock so the caller never observes a
	// half-applied update.
	View(address string) LedgerView

	// Import appends pre-built records, bypassing the lifecycle. It
	// exists for demo seeding and tests. A nil votes argument leaves
	// the vote collection in whatever loaded state it already has.
	Import(tasks []models.Task, votes []models.Vote)
}

type CreateTaskParams struct {
	Creator  string
	Title    string
	Reward   uint64
	Deadline time.Time
}

// LedgerView is one consistent read of the ledger. Claimed is already
// filtered to tasks claimed by the requested address (empty for the
// empty address). Votes is nil until the vote collection has loaded;
// nil and empty count identically downstream.
type LedgerView struct {
	Tasks   []models.Task
	Claimed []models.Task
	Votes   []models.Vote
}

// StatsService keeps the contributor statistics snapshot in step with
// the wallet and the ledger.
type StatsService interface {
	// Latest returns the snapshot derived from the most recent
	// observed state of both sources.
	Latest() models.Stats

	// Updates delivers fresh snapshots as they are computed. The
	// channel holds at most one pending snapshot: when the consumer
	// lags, older undelivered snapshots are dropped in favor of the
	// newest.
	Updates() <-chan models.Stats

	// Close detaches from the event bus and closes the updates
	// channel. Recomputations in flight are discarded.
	Close()
}
