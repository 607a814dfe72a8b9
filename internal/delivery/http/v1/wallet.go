package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type connectWalletRequest struct {
	Address string `json:"address" binding:"required,max=255"`
}

// HandleConnectWallet sets the active demo wallet address. There is no
// signature verification here; a real deployment fronts this with an
// actual wallet adapter.
func (h *handlerImpl) HandleConnectWallet(c *gin.Context) {
	var req connectWalletRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	err = h.wallet.Connect(req.Address)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to connect wallet")
		abort(c, newBadRequestError(err.Error()))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleDisconnectWallet(c *gin.Context) {
	h.wallet.Disconnect()
	c.Status(http.StatusNoContent)
}
