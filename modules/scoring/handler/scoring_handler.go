package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpPlatform "github.com/jobscout/scouter/internal/platform/http"
	"github.com/jobscout/scouter/modules/scoring"
)

// Handler exposes C9's on-demand scoring triggers: score a single job
// and rescore every link still in the Discovered state.
type Handler struct {
	service *scoring.Service
}

func NewHandler(service *scoring.Service) *Handler {
	return &Handler{service: service}
}

type scoreJobRequest struct {
	JobPostingID string `json:"job_posting_id" binding:"required"`
}

// ScoreJob godoc
// @Summary Score one job for a persona
// @Tags scoring
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param request body scoreJobRequest true "Target job"
// @Success 200 {object} scoring.Result
// @Router /personas/{personaId}/scoring/score-job [post]
func (h *Handler) ScoreJob(c *gin.Context) {
	var req scoreJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	result, err := h.service.ScoreJob(c.Request.Context(), c.Param("personaId"), req.JobPostingID)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "SCORING_FAILED", err.Error())
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, result)
}

// RescoreDiscovered godoc
// @Summary Rescore every Discovered-status link for a persona
// @Tags scoring
// @Security BearerAuth
// @Produce json
// @Param personaId path string true "Persona ID"
// @Success 200 {array} scoring.Result
// @Router /personas/{personaId}/scoring/rescore [post]
func (h *Handler) RescoreDiscovered(c *gin.Context) {
	results, err := h.service.RescoreAllDiscovered(c.Request.Context(), c.Param("personaId"))
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "SCORING_FAILED", err.Error())
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, results)
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	group := router.Group("/personas/:personaId/scoring")
	group.Use(authMiddleware)
	{
		group.POST("/score-job", h.ScoreJob)
		group.POST("/rescore", h.RescoreDiscovered)
	}
}
