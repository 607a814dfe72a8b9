package services

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskbounty/daoboard/internal/event"
	"github.com/taskbounty/daoboard/internal/metrics"
	"github.com/taskbounty/daoboard/internal/models"
)

type statsServiceImpl struct {
	logger zerolog.Logger
	bus    *event.Bus
	wallet WalletService
	ledger LedgerService

	subscriptions []uint64

	mu      sync.Mutex
	latest  models.Stats
	updates chan models.Stats
	closed  bool
}

// NewStatsService builds the reactive binding between the wallet, the
// ledger and the aggregator, primed with an initial snapshot.
func NewStatsService(
	logger zerolog.Logger,
	bus *event.Bus,
	walletService WalletService,
	ledgerService LedgerService,
) StatsService {
	s := &statsServiceImpl{
		logger:  logger,
		bus:     bus,
		wallet:  walletService,
		ledger:  ledgerService,
		updates: make(chan models.Stats, 1),
	}

	onChange := func(event.Event) { s.recompute() }
	for _, eventType := range []event.Type{
		event.TypeWalletChanged,
		event.TypeTasksChanged,
		event.TypeVotesChanged,
	} {
		s.subscriptions = append(s.subscriptions, bus.Subscribe(eventType, onChange))
	}

	s.recompute()
	return s
}

// recompute reads the wallet address once and then takes a single
// ledger view for that address, so the pair handed to the aggregator
// is consistent even when both sources change concurrently. The mutex
// serializes read-and-store, which makes snapshot delivery
// last-write-wins: a newer snapshot can never be overwritten by an
// older computation.
func (s *statsServiceImpl) recompute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	address := s.wallet.Current()
	view := s.ledger.View(address)
	stats := metrics.Aggregate(address, view.Tasks, view.Claimed, view.Votes)

	s.latest = stats

	// drop the undelivered snapshot, if any; only the newest matters
	select {
	case <-s.updates:
	default:
	}
	s.updates <- stats

	s.logger.Debug().
		Str("address", stats.Address).
		Int("created", stats.CreatedCount).
		Int("claimed", stats.ClaimedCount).
		Int("completed", stats.CompletedCount).
		Int("completion_rate", stats.CompletionRate).
		Int("votes", stats.VoteCount).
		Msg("recomputed contributor stats")
}

func (s *statsServiceImpl) Latest() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *statsServiceImpl) Updates() <-chan models.Stats {
	return s.updates
}

func (s *statsServiceImpl) Close() {
	for _, id := range s.subscriptions {
		s.bus.Unsubscribe(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.updates)

	s.logger.Debug().Msg("stats binding closed")
}
