package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpPlatform "github.com/jobscout/scouter/internal/platform/http"
	"github.com/jobscout/scouter/modules/resumes/model"
	"github.com/jobscout/scouter/modules/resumes/service"
)

type ResumeFileHandler struct {
	service *service.ResumeFileService
}

func NewResumeFileHandler(service *service.ResumeFileService) *ResumeFileHandler {
	return &ResumeFileHandler{service: service}
}

// GenerateUploadURL godoc
// @Summary Generate a presigned resume file upload URL
// @Description Create a pending ResumeFile record and a presigned S3 PUT URL for its content
// @Tags resumes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param request body model.GenerateUploadURLRequest true "Upload request"
// @Success 200 {object} model.GenerateUploadURLResponse
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 401 {object} httpPlatform.ErrorResponse
// @Failure 500 {object} httpPlatform.ErrorResponse
// @Router /personas/{personaId}/resume-files/upload-url [post]
func (h *ResumeFileHandler) GenerateUploadURL(c *gin.Context) {
	personaID := c.Param("personaId")
	var req model.GenerateUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	resp, err := h.service.GenerateUploadURL(c.Request.Context(), personaID, &req)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "UPLOAD_URL_GENERATION_FAILED", err.Error())
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, resp)
}

// List godoc
// @Summary List a persona's uploaded resume files
// @Tags resumes
// @Security BearerAuth
// @Produce json
// @Param personaId path string true "Persona ID"
// @Success 200 {object} []model.ResumeFile
// @Failure 401 {object} httpPlatform.ErrorResponse
// @Failure 500 {object} httpPlatform.ErrorResponse
// @Router /personas/{personaId}/resume-files [get]
func (h *ResumeFileHandler) List(c *gin.Context) {
	personaID := c.Param("personaId")
	files, err := h.service.List(c.Request.Context(), personaID)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list resume files")
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, files)
}

// ConfirmUpload godoc
// @Summary Confirm a resume file upload completed
// @Description Call once the client's presigned PUT succeeds; fetches the object back from S3, extracts its text, and activates the file
// @Tags resumes
// @Security BearerAuth
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param id path string true "Resume File ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} httpPlatform.ErrorResponse
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Failure 500 {object} httpPlatform.ErrorResponse
// @Router /personas/{personaId}/resume-files/{id}/confirm [post]
func (h *ResumeFileHandler) ConfirmUpload(c *gin.Context) {
	personaID := c.Param("personaId")
	fileID := c.Param("id")

	if err := h.service.ConfirmUpload(c.Request.Context(), personaID, fileID); err != nil {
		statusCode := http.StatusInternalServerError
		if model.GetErrorCode(err) == model.CodeResumeFileNotFound {
			statusCode = http.StatusNotFound
		}
		httpPlatform.RespondWithError(c, statusCode, string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, gin.H{"message": "Resume file confirmed"})
}

// Download godoc
// @Summary Generate a presigned resume file download URL
// @Tags resumes
// @Security BearerAuth
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param id path string true "Resume File ID"
// @Success 200 {object} model.DownloadURLResponse
// @Failure 401 {object} httpPlatform.ErrorResponse
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Failure 500 {object} httpPlatform.ErrorResponse
// @Router /personas/{personaId}/resume-files/{id}/download [get]
func (h *ResumeFileHandler) Download(c *gin.Context) {
	personaID := c.Param("personaId")
	fileID := c.Param("id")

	resp, err := h.service.GenerateDownloadURL(c.Request.Context(), personaID, fileID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if model.GetErrorCode(err) == model.CodeResumeFileNotFound {
			statusCode = http.StatusNotFound
		}
		httpPlatform.RespondWithError(c, statusCode, string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete an uploaded resume file
// @Tags resumes
// @Security BearerAuth
// @Produce json
// @Param personaId path string true "Persona ID"
// @Param id path string true "Resume File ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} httpPlatform.ErrorResponse
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Failure 500 {object} httpPlatform.ErrorResponse
// @Router /personas/{personaId}/resume-files/{id} [delete]
func (h *ResumeFileHandler) Delete(c *gin.Context) {
	personaID := c.Param("personaId")
	fileID := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), personaID, fileID); err != nil {
		statusCode := http.StatusInternalServerError
		if model.GetErrorCode(err) == model.CodeResumeFileNotFound {
			statusCode = http.StatusNotFound
		}
		httpPlatform.RespondWithError(c, statusCode, string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, gin.H{"message": "Resume file deleted successfully"})
}

func (h *ResumeFileHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	files := router.Group("/personas/:personaId/resume-files")
	files.Use(authMiddleware)
	{
		files.POST("/upload-url", h.GenerateUploadURL)
		files.POST("/:id/confirm", h.ConfirmUpload)
		files.GET("", h.List)
		files.GET("/:id/download", h.Download)
		files.DELETE("/:id", h.Delete)
	}
}
