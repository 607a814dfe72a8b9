package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskbounty/daoboard/internal/event"
	"github.com/taskbounty/daoboard/internal/models"
)

type disputeState struct {
	yes   int
	no    int
	voted map[string]bool
}

type ledgerServiceImpl struct {
	logger zerolog.Logger
	bus    *event.Bus

	mu          sync.RWMutex
	tasks       []models.Task  // insertion order
	index       map[string]int // task id -> position in tasks
	disputes    map[string]*disputeState
	votes       []models.Vote
	votesLoaded bool
}

func NewLedgerService(logger zerolog.Logger, bus *event.Bus) LedgerService {
	return &ledgerServiceImpl{
		logger:   logger,
		bus:      bus,
		index:    make(map[string]int),
		disputes: make(map[string]*disputeState),
	}
}

func (s *ledgerServiceImpl) CreateTask(params CreateTaskParams) (*models.Task, error) {
	if params.Creator == "" {
		s.logger.Error().Msg("refusing to create a task without a creator")
		return nil, ErrEmptyAddress
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}

	now := time.Now()
	task := models.Task{
		ID:        taskUUID.String(),
		Creator:   params.Creator,
		Title:     params.Title,
		Reward:    params.Reward,
		Status:    models.StatusOpen,
		Deadline:  params.Deadline,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.index[task.ID] = len(s.tasks)
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	s.logger.Debug().
		Str("task_id", task.ID).
		Str("creator", task.Creator).
		Msg("created task")
	s.bus.Publish(event.Event{Type: event.TypeTasksChanged})
	return &task, nil
}

func (s *ledgerServiceImpl) ClaimTask(taskID, claimant string) error {
	if claimant == "" {
		return ErrEmptyAddress
	}

	err := s.transition(taskID, func(task *models.Task) error {
		if task.Status != models.StatusOpen {
			return ErrTaskNotOpen
		}
		task.Claimant = claimant
		task.Status = models.StatusClaimed
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Str("claimant", claimant).
			Msg("failed to claim task")
		return err
	}

	s.logger.Debug().
		Str("task_id", taskID).
		Str("claimant", claimant).
		Msg("claimed task")
	s.bus.Publish(event.Event{Type: event.TypeTasksChanged})
	return nil
}

func (s *ledgerServiceImpl) SubmitTask(taskID, claimant string) error {
	err := s.transition(taskID, func(task *models.Task) error {
		if task.Status != models.StatusClaimed {
			return ErrTaskNotClaimed
		}
		if task.Claimant != claimant {
			return ErrNotClaimant
		}
		task.Status = models.StatusSubmitted
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to submit task")
		return err
	}

	s.logger.Debug().
		Str("task_id", taskID).
		Msg("submitted task")
	s.bus.Publish(event.Event{Type: event.TypeTasksChanged})
	return nil
}

func (s *ledgerServiceImpl) ApproveTask(taskID, approver string) error {
	err := s.transition(taskID, func(task *models.Task) error {
		if task.Status != models.StatusSubmitted {
			return ErrTaskNotSubmitted
		}
		if task.Creator != approver {
			return ErrNotCreator
		}
		task.Status = models.StatusCompleted
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to approve task")
		return err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Msg("approved task")
	s.bus.Publish(event.Event{Type: event.TypeTasksChanged})
	return nil
}

func (s *ledgerServiceImpl) DisputeTask(taskID, by string) error {
	err := s.transition(taskID, func(task *models.Task) error {
		if task.Status != models.StatusSubmitted {
			return ErrTaskNotSubmitted
		}
		if by != task.Claimant && by != task.Creator {
			return ErrNotParticipant
		}
		task.Status = models.StatusDisputed
		s.disputes[taskID] = &disputeState{voted: make(map[string]bool)}
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to dispute task")
		return err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("by", by).
		Msg("opened dispute vote")
	s.bus.Publish(event.Event{Type: event.TypeTasksChanged})
	return nil
}

func (s *ledgerServiceImpl) CastVote(taskID, voter string, support bool) error {
	if voter == "" {
		return ErrEmptyAddress
	}

	voteUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate vote uuid")
		return err
	}

	s.mu.Lock()
	dispute, ok := s.disputes[taskID]
	if !ok {
		s.mu.Unlock()
		return ErrNoActiveDispute
	}
	if dispute.voted[voter] {
		s.mu.Unlock()
		return ErrAlreadyVoted
	}
	dispute.voted[voter] = true
	if support {
		dispute.yes++
	} else {
		dispute.no++
	}
	s.votes = append(s.votes, models.Vote{
		ID:      voteUUID.String(),
		TaskID:  taskID,
		Voter:   voter,
		Support: support,
		CastAt:  time.Now(),
	})
	s.votesLoaded = true
	s.mu.Unlock()

	s.logger.Debug().
		Str("task_id", taskID).
		Str("voter", voter).
		Bool("support", support).
		Msg("cast dispute vote")
	s.bus.Publish(event.Event{Type: event.TypeVotesChanged})
	return nil
}

func (s *ledgerServiceImpl) FinalizeVote(taskID, by string) error {
	var accepted bool
	err := s.transition(taskID, func(task *models.Task) error {
		dispute, ok := s.disputes[taskID]
		if !ok {
			return ErrNoActiveDispute
		}
		if task.Creator != by {
			return ErrNotCreator
		}

		accepted = dispute.yes > dispute.no
		if accepted {
			task.Status = models.StatusCompleted
		} else {
			task.Status = models.StatusOpen
			task.Claimant = ""
		}
		delete(s.disputes, taskID)
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to finalize dispute vote")
		return err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Bool("accepted", accepted).
		Msg("finalized dispute vote")
	s.bus.Publish(event.Event{Type: event.TypeTasksChanged})
	return nil
}

func (s *ledgerServiceImpl) ReopenExpired(now time.Time) int {
	s.mu.Lock()
	reopened := 0
	for i := range s.tasks {
		task := &s.tasks[i]
		if task.Deadline.IsZero() || !now.After(task.Deadline) {
			continue
		}
		if task.Status != models.StatusClaimed && task.Status != models.StatusSubmitted {
			continue
		}
		task.Status = models.StatusOpen
		task.Claimant = ""
		task.UpdatedAt = now
		reopened++
	}
	s.mu.Unlock()

	if reopened == 0 {
		return 0
	}

	s.logger.Info().
		Int("count", reopened).
		Msg("reopened expired tasks")
	s.bus.Publish(event.Event{Type: event.TypeTasksChanged})
	return reopened
}

func (s *ledgerServiceImpl) View(address string) LedgerView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := LedgerView{
		Tasks: make([]models.Task, len(s.tasks)),
	}
	copy(view.Tasks, s.tasks)

	if address != "" {
		for _, task := range s.tasks {
			if task.Claimant == address {
				view.Claimed = append(view.Claimed, task)
			}
		}
	}

	if s.votesLoaded {
		view.Votes = make([]models.Vote, len(s.votes))
		copy(view.Votes, s.votes)
	}
	return view
}

func (s *ledgerServiceImpl) Import(tasks []models.Task, votes []models.Vote) {
	now := time.Now()

	s.mu.Lock()
	for _, task := range tasks {
		if task.ID == "" {
			taskUUID, err := uuid.NewV7()
			if err != nil {
				continue
			}
			task.ID = taskUUID.String()
		}
		if task.Status == "" {
			task.Status = models.StatusOpen
		}
		if task.CreatedAt.IsZero() {
			task.CreatedAt = now
		}
		if task.UpdatedAt.IsZero() {
			task.UpdatedAt = now
		}
		s.index[task.ID] = len(s.tasks)
		s.tasks = append(s.tasks, task)
	}
	if votes != nil {
		s.votesLoaded = true
		s.votes = append(s.votes, votes...)
	}
	s.mu.Unlock()

	s.logger.Debug().
		Int("tasks", len(tasks)).
		Int("votes", len(votes)).
		Msg("imported ledger records")
	if len(tasks) > 0 {
		s.bus.Publish(event.Event{Type: event.TypeTasksChanged})
	}
	if votes != nil {
		s.bus.Publish(event.Event{Type: event.TypeVotesChanged})
	}
}

// transition applies fn to the task under the write lock. The update
// is kept and the event published by the caller only when fn returns
// nil.
func (s *ledgerServiceImpl) transition(taskID string, fn func(task *models.Task) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[taskID]
	if !ok {
		return ErrTaskNotFound
	}

	task := &s.tasks[i]
	if err := fn(task); err != nil {
		return err
	}
	task.UpdatedAt = time.Now()
	return nil
}
