package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpPlatform "github.com/jobscout/scouter/internal/platform/http"
	"github.com/jobscout/scouter/modules/fetch/service"
)

// Handler exposes C6's orchestrator as an on-demand poll trigger. It
// registers no route for reading or editing a persona's poll config.
type Handler struct {
	service *service.Service
}

func NewHandler(service *service.Service) *Handler {
	return &Handler{service: service}
}

// RunPoll godoc
// @Summary Run one fetch/dedup/enrich/link poll cycle for a persona
// @Tags fetch
// @Security BearerAuth
// @Produce json
// @Param personaId path string true "Persona ID"
// @Success 200 {object} fetchmodel.PollResult
// @Router /personas/{personaId}/poll [post]
func (h *Handler) RunPoll(c *gin.Context) {
	result, err := h.service.RunPoll(c.Request.Context(), c.Param("personaId"))
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "POLL_FAILED", err.Error())
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, result)
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	group := router.Group("/personas/:personaId")
	group.Use(authMiddleware)
	{
		group.POST("/poll", h.RunPoll)
	}
}
