package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpPlatform "github.com/jobscout/scouter/internal/platform/http"
	"github.com/jobscout/scouter/modules/resumes/model"
	"github.com/jobscout/scouter/modules/resumes/service"
)

type BaseResumeHandler struct {
	service *service.BaseResumeService
}

func NewBaseResumeHandler(service *service.BaseResumeService) *BaseResumeHandler {
	return &BaseResumeHandler{service: service}
}

func resumeStatusCode(err error) int {
	switch model.GetErrorCode(err) {
	case model.CodeBaseResumeNotFound:
		return http.StatusNotFound
	case model.CodeBaseResumeNameRequired, model.CodeDuplicateBaseResumeName, model.CodeCannotDeletePrimary:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Create godoc
// @Summary Create a base resume
// @Tags resumes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param request body model.CreateBaseResumeRequest true "Base resume details"
// @Success 201 {object} model.BaseResume
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 401 {object} httpPlatform.ErrorResponse
// @Router /personas/{personaId}/base-resumes [post]
func (h *BaseResumeHandler) Create(c *gin.Context) {
	personaID := c.Param("personaId")
	var req model.CreateBaseResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	resume, err := h.service.Create(c.Request.Context(), personaID, &req)
	if err != nil {
		httpPlatform.RespondWithError(c, resumeStatusCode(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusCreated, resume)
}

// Get godoc
// @Summary Get a base resume
// @Tags resumes
// @Security BearerAuth
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param id path string true "Base Resume ID"
// @Success 200 {object} model.BaseResume
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /personas/{personaId}/base-resumes/{id} [get]
func (h *BaseResumeHandler) Get(c *gin.Context) {
	resume, err := h.service.GetByID(c.Request.Context(), c.Param("personaId"), c.Param("id"))
	if err != nil {
		httpPlatform.RespondWithError(c, resumeStatusCode(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, resume)
}

// List godoc
// @Summary List a persona's base resumes
// @Tags resumes
// @Security BearerAuth
// @Produce json
// @Param personaId path string true "Persona ID"
// @Success 200 {object} []model.BaseResume
// @Router /personas/{personaId}/base-resumes [get]
func (h *BaseResumeHandler) List(c *gin.Context) {
	resumes, err := h.service.List(c.Request.Context(), c.Param("personaId"))
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list base resumes")
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, resumes)
}

// Update godoc
// @Summary Update a base resume's selections
// @Tags resumes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param id path string true "Base Resume ID"
// @Param request body model.UpdateBaseResumeRequest true "Updated fields"
// @Success 200 {object} model.BaseResume
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /personas/{personaId}/base-resumes/{id} [patch]
func (h *BaseResumeHandler) Update(c *gin.Context) {
	var req model.UpdateBaseResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	resume, err := h.service.Update(c.Request.Context(), c.Param("personaId"), c.Param("id"), &req)
	if err != nil {
		httpPlatform.RespondWithError(c, resumeStatusCode(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, resume)
}

// SetPrimary godoc
// @Summary Mark a base resume as the persona's primary
// @Tags resumes
// @Security BearerAuth
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param id path string true "Base Resume ID"
// @Success 200 {object} model.BaseResume
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /personas/{personaId}/base-resumes/{id}/primary [post]
func (h *BaseResumeHandler) SetPrimary(c *gin.Context) {
	resume, err := h.service.SetPrimary(c.Request.Context(), c.Param("personaId"), c.Param("id"))
	if err != nil {
		httpPlatform.RespondWithError(c, resumeStatusCode(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, resume)
}

// Delete godoc
// @Summary Delete a base resume
// @Tags resumes
// @Security BearerAuth
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param id path string true "Base Resume ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /personas/{personaId}/base-resumes/{id} [delete]
func (h *BaseResumeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("personaId"), c.Param("id")); err != nil {
		httpPlatform.RespondWithError(c, resumeStatusCode(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, gin.H{"message": "Base resume deleted successfully"})
}

func (h *BaseResumeHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	resumes := router.Group("/personas/:personaId/base-resumes")
	resumes.Use(authMiddleware)
	{
		resumes.POST("", h.Create)
		resumes.GET("", h.List)
		resumes.GET("/:id", h.Get)
		resumes.PATCH("/:id", h.Update)
		resumes.POST("/:id/primary", h.SetPrimary)
		resumes.DELETE("/:id", h.Delete)
	}
}
