package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"monedero/internal/services"
)

// CoachHandler handles coaching metric requests.
type CoachHandler struct {
	coachService services.CoachServicer
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService services.CoachServicer) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// GetMetrics handles the weekly coaching metrics
// @Summary     Get coaching metrics
// @Description Get aligned/regretted spend totals, unclassified backlog, goal progress, and recoverable impact for a user
// @Tags        coach
// @Produce     json
// @Param       user_id path int true "User ID"
// @Success     200 {object} services.CoachMetrics "Coaching metrics"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /coach/{user_id} [get]
func (h *CoachHandler) GetMetrics(c *gin.Context) {
	userID, err := parsePathID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	metrics, err := h.coachService.Metrics(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// GetOpportunities handles the savings suggestions
// @Summary     Get savings opportunities
// @Description Get up to 3 templated savings suggestions derived from the user's regretted expenses
// @Tags        coach
// @Produce     json
// @Param       user_id path int true "User ID"
// @Success     200 {object} map[string][]services.Opportunity "Savings opportunities"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /coach/{user_id}/opportunities [get]
func (h *CoachHandler) GetOpportunities(c *gin.Context) {
	userID, err := parsePathID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	opportunities, err := h.coachService.Opportunities(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"opportunities": opportunities})
}
