package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpPlatform "github.com/jobscout/scouter/internal/platform/http"
	"github.com/jobscout/scouter/modules/applications/model"
	"github.com/jobscout/scouter/modules/applications/service"
)

type ApplicationHandler struct {
	service *service.ApplicationService
}

func NewApplicationHandler(service *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

func applicationStatusCode(err error) int {
	switch model.GetErrorCode(err) {
	case model.CodeApplicationNotFound:
		return http.StatusNotFound
	case model.CodeInvalidStatus, model.CodeAlreadyApplied:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Create godoc
// @Summary Create an application
// @Description Snapshot a pool job and record a persona's application to it
// @Tags applications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param request body model.CreateApplicationRequest true "Application details"
// @Success 201 {object} model.DTO
// @Router /personas/{personaId}/applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req model.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	app, err := h.service.Create(c.Request.Context(), c.Param("personaId"), &req)
	if err != nil {
		httpPlatform.RespondWithError(c, applicationStatusCode(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusCreated, app)
}

// Get godoc
// @Summary Get an application
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param id path string true "Application ID"
// @Success 200 {object} model.DTO
// @Router /personas/{personaId}/applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.service.GetByID(c.Request.Context(), c.Param("personaId"), c.Param("id"))
	if err != nil {
		httpPlatform.RespondWithError(c, applicationStatusCode(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, app)
}

// List godoc
// @Summary List applications
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Param personaId path string true "Persona ID"
// @Success 200 {array} model.DTO
// @Router /personas/{personaId}/applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	apps, total, err := h.service.List(c.Request.Context(), c.Param("personaId"), c.Query("sort_by"), c.Query("sort_dir"), limit, offset)
	if err != nil {
		httpPlatform.RespondWithError(c, applicationStatusCode(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": apps, "total": total})
}

// Update godoc
// @Summary Update an application
// @Tags applications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param id path string true "Application ID"
// @Param request body model.UpdateApplicationRequest true "Fields to update"
// @Success 200 {object} model.DTO
// @Router /personas/{personaId}/applications/{id} [patch]
func (h *ApplicationHandler) Update(c *gin.Context) {
	var req model.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	app, err := h.service.Update(c.Request.Context(), c.Param("personaId"), c.Param("id"), &req)
	if err != nil {
		httpPlatform.RespondWithError(c, applicationStatusCode(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, app)
}

// Delete godoc
// @Summary Delete an application
// @Tags applications
// @Security BearerAuth
// @Param personaId path string true "Persona ID"
// @Param id path string true "Application ID"
// @Success 204
// @Router /personas/{personaId}/applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("personaId"), c.Param("id")); err != nil {
		httpPlatform.RespondWithError(c, applicationStatusCode(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ApplicationHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	apps := router.Group("/personas/:personaId/applications")
	apps.Use(authMiddleware)
	{
		apps.POST("", h.Create)
		apps.GET("", h.List)
		apps.GET("/:id", h.Get)
		apps.PATCH("/:id", h.Update)
		apps.DELETE("/:id", h.Delete)
	}
}
