package model

import "time"

// CreateApplicationRequest represents a create application request.
type CreateApplicationRequest struct {
	JobPostingID         string    `json:"job_posting_id" binding:"required"`
	SubmittedResumePDFID *string   `json:"submitted_resume_pdf_id,omitempty"`
	AppliedAt            time.Time `json:"applied_at"`
}

// UpdateApplicationRequest represents an update application request.
type UpdateApplicationRequest struct {
	Status   *string `json:"status,omitempty"`
	IsPinned *bool   `json:"is_pinned,omitempty"`
	Archived *bool   `json:"archived,omitempty"`
}
