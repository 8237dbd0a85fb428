package model

import "time"

// Status is the lifecycle of a per-persona application against a pool
// job (spec.md §3).
type Status string

const (
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusOffer        Status = "offer"
	StatusAccepted     Status = "accepted"
	StatusRejected     Status = "rejected"
	StatusWithdrawn    Status = "withdrawn"
)

func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusInterviewing, StatusOffer, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// JobSnapshot is the job description frozen at application time, so the
// application's history survives the pool row later being edited,
// deactivated, or merged away by the cross-persona dedup script.
type JobSnapshot struct {
	JobTitle    string `json:"job_title"`
	CompanyName string `json:"company_name"`
	Description string `json:"description"`
}

// Application is the per-persona application artifact (CORE AGGREGATE).
// It belongs to exactly one PersonaJob, referenced here by
// (persona id, job posting id) since the link predates the application
// and outlives it.
type Application struct {
	ID                   string
	PersonaID            string
	JobPostingID         string
	SubmittedResumePDFID *string

	Status     Status
	IsPinned   bool
	ArchivedAt *time.Time
	Snapshot   *JobSnapshot

	AppliedAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DTO is Application enriched with the pool job's title/company, set by
// the repository's join rather than a service-layer fan-out call.
type DTO struct {
	*Application
	JobTitle    string `json:"job_title"`
	CompanyName string `json:"company_name"`
}

func NewDTO(app *Application, jobTitle, companyName string) *DTO {
	return &DTO{Application: app, JobTitle: jobTitle, CompanyName: companyName}
}
