package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/taskbounty/daoboard/internal/services"
)

type Handler interface {
	HandleGetStats(c *gin.Context)
	HandleConnectWallet(c *gin.Context)
	HandleDisconnectWallet(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	wallet services.WalletService
	stats  services.StatsService
}

func New(
	logger zerolog.Logger,
	walletService services.WalletService,
	statsService services.StatsService,
) Handler {
	return &handlerImpl{
		logger: logger,
		wallet: walletService,
		stats:  statsService,
	}
}
