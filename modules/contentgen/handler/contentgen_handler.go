package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	platformAuth "github.com/jobscout/scouter/internal/platform/auth"
	httpPlatform "github.com/jobscout/scouter/internal/platform/http"
	"github.com/jobscout/scouter/modules/contentgen"
	"github.com/jobscout/scouter/modules/contentgen/model"
)

type ContentGenHandler struct {
	service *contentgen.Service
}

func NewContentGenHandler(service *contentgen.Service) *ContentGenHandler {
	return &ContentGenHandler{service: service}
}

type generateRequest struct {
	JobPostingID string `json:"job_posting_id" binding:"required"`
}

func contentgenStatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrVariantDraftExists), errors.Is(err, model.ErrVariantApproved):
		return http.StatusConflict
	case errors.Is(err, model.ErrNoPrimaryBaseResume):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Generate godoc
// @Summary Generate tailored content for a job application
// @Description Runs C10: duplicate check, tailoring decision, optional variant, cover letter draft
// @Tags content-generation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param request body generateRequest true "Target job"
// @Success 200 {object} model.Result
// @Router /personas/{personaId}/content-generation [post]
func (h *ContentGenHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	userID, _ := platformAuth.GetUserID(c)
	result, err := h.service.Generate(c.Request.Context(), userID, c.Param("personaId"), req.JobPostingID, model.TriggerManual)
	if err != nil {
		httpPlatform.RespondWithError(c, contentgenStatusCode(err), "CONTENT_GENERATION_FAILED", err.Error())
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, result)
}

func (h *ContentGenHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	group := router.Group("/personas/:personaId/content-generation")
	group.Use(authMiddleware)
	{
		group.POST("", h.Generate)
	}
}
