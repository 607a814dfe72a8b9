package services

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskbounty/daoboard/internal/event"
	"github.com/taskbounty/daoboard/internal/models"
)

func newTestLedger() LedgerService {
	return NewLedgerService(zerolog.Nop(), event.NewBus(zerolog.Nop()))
}

func mustCreateTask(t *testing.T, ledger LedgerService, creator string) *models.Task {
	t.Helper()
	task, err := ledger.CreateTask(CreateTaskParams{
		Creator: creator,
		Title:   "write docs",
		Reward:  100,
	})
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	return task
}

func findTask(t *testing.T, ledger LedgerService, id string) models.Task {
	t.Helper()
	for _, task := range ledger.View("").Tasks {
		if task.ID == id {
			return task
		}
	}
	t.Fatalf("task %s not found", id)
	return models.Task{}
}

func TestTaskLifecycle(t *testing.T) {
	ledger := newTestLedger()
	task := mustCreateTask(t, ledger, "0xCC")

	if task.Status != models.StatusOpen {
		t.Fatalf("expected open, got %s", task.Status)
	}

	if err := ledger.ClaimTask(task.ID, "0xAA"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if got := findTask(t, ledger, task.ID); got.Status != models.StatusClaimed || got.Claimant != "0xAA" {
		t.Fatalf("expected claimed by 0xAA, got %+v", got)
	}

	if err := ledger.SubmitTask(task.ID, "0xAA"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if err := ledger.ApproveTask(task.ID, "0xCC"); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if got := findTask(t, ledger, task.ID); got.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
}

func TestClaimGuards(t *testing.T) {
	ledger := newTestLedger()
	task := mustCreateTask(t, ledger, "0xCC")

	if err := ledger.ClaimTask(task.ID, ""); !errors.Is(err, ErrEmptyAddress) {
		t.Fatalf("expected ErrEmptyAddress, got %v", err)
	}
	if err := ledger.ClaimTask("missing", "0xAA"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}

	if err := ledger.ClaimTask(task.ID, "0xAA"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := ledger.ClaimTask(task.ID, "0xBB"); !errors.Is(err, ErrTaskNotOpen) {
		t.Fatalf("expected ErrTaskNotOpen, got %v", err)
	}
	if got := findTask(t, ledger, task.ID); got.Claimant != "0xAA" {
		t.Fatalf("claimant overwritten: %+v", got)
	}
}

func TestSubmitGuards(t *testing.T) {
	ledger := newTestLedger()
	task := mustCreateTask(t, ledger, "0xCC")

	if err := ledger.SubmitTask(task.ID, "0xAA"); !errors.Is(err, ErrTaskNotClaimed) {
		t.Fatalf("expected ErrTaskNotClaimed, got %v", err)
	}

	if err := ledger.ClaimTask(task.ID, "0xAA"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := ledger.SubmitTask(task.ID, "0xBB"); !errors.Is(err, ErrNotClaimant) {
		t.Fatalf("expected ErrNotClaimant, got %v", err)
	}
}

func TestApproveGuards(t *testing.T) {
	ledger := newTestLedger()
	task := mustCreateTask(t, ledger, "0xCC")

	if err := ledger.ApproveTask(task.ID, "0xCC"); !errors.Is(err, ErrTaskNotSubmitted) {
		t.Fatalf("expected ErrTaskNotSubmitted, got %v", err)
	}

	if err := ledger.ClaimTask(task.ID, "0xAA"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := ledger.SubmitTask(task.ID, "0xAA"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if err := ledger.ApproveTask(task.ID, "0xAA"); !errors.Is(err, ErrNotCreator) {
		t.Fatalf("expected ErrNotCreator, got %v", err)
	}
}

func TestDisputeVoteAccepted(t *testing.T) {
	ledger := newTestLedger()
	task := mustCreateTask(t, ledger, "0xCC")

	if err := ledger.CastVote(task.ID, "0xD1", true); !errors.Is(err, ErrNoActiveDispute) {
		t.Fatalf("expected ErrNoActiveDispute, got %v", err)
	}

	if err := ledger.ClaimTask(task.ID, "0xAA"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := ledger.DisputeTask(task.ID, "0xAA"); !errors.Is(err, ErrTaskNotSubmitted) {
		t.Fatalf("expected ErrTaskNotSubmitted, got %v", err)
	}
	if err := ledger.SubmitTask(task.ID, "0xAA"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if err := ledger.DisputeTask(task.ID, "0xD1"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
	if err := ledger.DisputeTask(task.ID, "0xAA"); err != nil {
		t.Fatalf("dispute failed: %v", err)
	}
	if got := findTask(t, ledger, task.ID); got.Status != models.StatusDisputed {
		t.Fatalf("expected disputed, got %s", got.Status)
	}

	if err := ledger.CastVote(task.ID, "0xD1", true); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if err := ledger.CastVote(task.ID, "0xD1", false); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
	if err := ledger.CastVote(task.ID, "0xD2", true); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if err := ledger.CastVote(task.ID, "0xD3", false); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	if err := ledger.FinalizeVote(task.ID, "0xAA"); !errors.Is(err, ErrNotCreator) {
		t.Fatalf("expected ErrNotCreator, got %v", err)
	}
	if err := ledger.FinalizeVote(task.ID, "0xCC"); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	got := findTask(t, ledger, task.ID)
	if got.Status != models.StatusCompleted {
		t.Fatalf("expected completed after yes majority, got %s", got.Status)
	}
	if got.Claimant != "0xAA" {
		t.Fatalf("expected claimant kept, got %q", got.Claimant)
	}
	if votes := ledger.View("").Votes; len(votes) != 3 {
		t.Fatalf("expected 3 recorded votes, got %d", len(votes))
	}
}

func TestDisputeVoteRejectedReopensTask(t *testing.T) {
	ledger := newTestLedger()
	task := mustCreateTask(t, ledger, "0xCC")

	for _, step := range []error{
		ledger.ClaimTask(task.ID, "0xAA"),
		ledger.SubmitTask(task.ID, "0xAA"),
		ledger.DisputeTask(task.ID, "0xCC"),
		ledger.CastVote(task.ID, "0xD1", false),
	} {
		if step != nil {
			t.Fatalf("setup failed: %v", step)
		}
	}

	if err := ledger.FinalizeVote(task.ID, "0xCC"); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	got := findTask(t, ledger, task.ID)
	if got.Status != models.StatusOpen {
		t.Fatalf("expected reopened, got %s", got.Status)
	}
	if got.Claimant != "" {
		t.Fatalf("expected claimant cleared, got %q", got.Claimant)
	}
	if err := ledger.FinalizeVote(task.ID, "0xCC"); !errors.Is(err, ErrNoActiveDispute) {
		t.Fatalf("expected ErrNoActiveDispute after finalizing, got %v", err)
	}
}

func TestViewScoping(t *testing.T) {
	ledger := newTestLedger()
	first := mustCreateTask(t, ledger, "0xCC")
	second := mustCreateTask(t, ledger, "0xCC")

	if err := ledger.ClaimTask(first.ID, "0xAA"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := ledger.ClaimTask(second.ID, "0xBB"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	view := ledger.View("0xAA")
	if len(view.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(view.Tasks))
	}
	if len(view.Claimed) != 1 || view.Claimed[0].ID != first.ID {
		t.Fatalf("expected only 0xAA's claim, got %+v", view.Claimed)
	}

	if claimed := ledger.View("").Claimed; len(claimed) != 0 {
		t.Fatalf("expected no claims for the empty address, got %d", len(claimed))
	}
}

func TestViewCopyIsolation(t *testing.T) {
	ledger := newTestLedger()
	task := mustCreateTask(t, ledger, "0xCC")

	view := ledger.View("")
	view.Tasks[0].Status = models.StatusCompleted
	view.Tasks[0].Creator = "0xEE"

	got := findTask(t, ledger, task.ID)
	if got.Status != models.StatusOpen || got.Creator != "0xCC" {
		t.Fatalf("view mutation leaked into the ledger: %+v", got)
	}
}

func TestVotesAbsentUntilLoaded(t *testing.T) {
	ledger := newTestLedger()
	mustCreateTask(t, ledger, "0xCC")

	if votes := ledger.View("").Votes; votes != nil {
		t.Fatalf("expected nil votes before loading, got %v", votes)
	}

	ledger.Import(nil, []models.Vote{})
	votes := ledger.View("").Votes
	if votes == nil {
		t.Fatal("expected loaded empty votes to be non-nil")
	}
	if len(votes) != 0 {
		t.Fatalf("expected no votes, got %d", len(votes))
	}
}

func TestReopenExpired(t *testing.T) {
	ledger := newTestLedger()
	now := time.Now()

	expired, err := ledger.CreateTask(CreateTaskParams{
		Creator:  "0xCC",
		Title:    "stale",
		Deadline: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	fresh, err := ledger.CreateTask(CreateTaskParams{
		Creator:  "0xCC",
		Title:    "fresh",
		Deadline: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	unclaimed, err := ledger.CreateTask(CreateTaskParams{
		Creator:  "0xCC",
		Title:    "open and stale",
		Deadline: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := ledger.ClaimTask(expired.ID, "0xAA"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := ledger.ClaimTask(fresh.ID, "0xAA"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	if reopened := ledger.ReopenExpired(now); reopened != 1 {
		t.Fatalf("expected 1 reopened task, got %d", reopened)
	}

	if got := findTask(t, ledger, expired.ID); got.Status != models.StatusOpen || got.Claimant != "" {
		t.Fatalf("expected expired claim reverted, got %+v", got)
	}
	if got := findTask(t, ledger, fresh.ID); got.Status != models.StatusClaimed {
		t.Fatalf("expected fresh claim kept, got %+v", got)
	}
	if got := findTask(t, ledger, unclaimed.ID); got.Status != models.StatusOpen {
		t.Fatalf("expected open task untouched, got %+v", got)
	}
}

func TestImportFillsDefaults(t *testing.T) {
	ledger := newTestLedger()
	ledger.Import([]models.Task{{Creator: "0xCC"}}, nil)

	tasks := ledger.View("").Tasks
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if tasks[0].Status != models.StatusOpen {
		t.Fatalf("expected open, got %s", tasks[0].Status)
	}
	if votes := ledger.View("").Votes; votes != nil {
		t.Fatal("expected votes to stay unloaded after a nil import")
	}
}
