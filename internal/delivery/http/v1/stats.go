package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskbounty/daoboard/internal/models"
)

// ratingSentinel is rendered verbatim until contributor ratings ship;
// there is nothing to compute yet.
const ratingSentinel = "coming soon"

type getStatsResponse struct {
	Address        string `json:"address"`
	CreatedCount   int    `json:"created_count"`
	ClaimedCount   int    `json:"claimed_count"`
	CompletedCount int    `json:"completed_count"`
	CompletionRate int    `json:"completion_rate"`
	VoteCount      int    `json:"vote_count"`
	Rating         string `json:"rating"`
}

func newGetStatsResponse(stats models.Stats) getStatsResponse {
	return getStatsResponse{
		Address:        stats.Address,
		CreatedCount:   stats.CreatedCount,
		ClaimedCount:   stats.ClaimedCount,
		CompletedCount: stats.CompletedCount,
		CompletionRate: stats.CompletionRate,
		VoteCount:      stats.VoteCount,
		Rating:         ratingSentinel,
	}
}

func (h *handlerImpl) HandleGetStats(c *gin.Context) {
	c.JSON(http.StatusOK, newGetStatsResponse(h.stats.Latest()))
}
