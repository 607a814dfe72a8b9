package app

import (
	"os"

	"github.com/taskbounty/daoboard/internal/config"
	"github.com/taskbounty/daoboard/internal/event"
	"github.com/taskbounty/daoboard/internal/services"
)

var (
	globalBus    *event.Bus
	globalWallet services.WalletService
	globalLedger services.LedgerService
	globalStats  services.StatsService
)

func MustInitServices() {
	globalBus = event.NewBus(globalLogger)
	globalWallet = services.NewWalletService(globalLogger, globalBus)
	globalLedger = services.NewLedgerService(globalLogger, globalBus)

	mustSeedLedger()

	// The stats binding subscribes last so seeding does not race it;
	// it primes itself with an initial snapshot on construction.
	globalStats = services.NewStatsService(globalLogger, globalBus, globalWallet, globalLedger)

	globalLogger.Info().Msg("initialized services")
}

func mustSeedLedger() {
	path := config.Global().Ledger.SeedFile
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("file", path).
			Msg("failed to read seed file")
		panic(err)
	}

	tasks, votes, err := services.ParseSeed(data)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("file", path).
			Msg("failed to parse seed file")
		panic(err)
	}

	globalLedger.Import(tasks, votes)
	globalLogger.Info().
		Int("tasks", len(tasks)).
		Int("votes", len(votes)).
		Str("file", path).
		Msg("seeded ledger")
}

func CloseServices() {
	globalStats.Close()
	globalLogger.Info().Msg("closed services")
}
