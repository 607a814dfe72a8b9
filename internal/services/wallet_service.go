package services

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskbounty/daoboard/internal/event"
)

type walletServiceImpl struct {
	logger zerolog.Logger
	bus    *event.Bus

	mu      sync.RWMutex
	address string
}

func NewWalletService(logger zerolog.Logger, bus *event.Bus) WalletService {
	return &walletServiceImpl{
		logger: logger,
		bus:    bus,
	}
}

func (s *walletServiceImpl) Connect(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		s.logger.Error().Msg("refusing to connect an empty address")
		return ErrEmptyAddress
	}

	s.mu.Lock()
	previous := s.address
	s.address = address
	s.mu.Unlock()

	if previous == address {
		return nil
	}

	s.logger.Info().
		Str("address", address).
		Msg("wallet connected")
	s.bus.Publish(event.Event{Type: event.TypeWalletChanged})
	return nil
}

func (s *walletServiceImpl) Disconnect() {
	s.mu.Lock()
	previous := s.address
	s.address = ""
	s.mu.Unlock()

	if previous == "" {
		return
	}

	s.logger.Info().
		Str("address", previous).
		Msg("wallet disconnected")
	s.bus.Publish(event.Event{Type: event.TypeWalletChanged})
}

func (s *walletServiceImpl) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address
}
