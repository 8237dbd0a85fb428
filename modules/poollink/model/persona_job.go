// Package model holds PersonaJob, the per-persona link between a user's
// persona and a shared pool JobPosting. All user-facing job state
// (status, favorite, fit score, dismissal) lives here rather than on
// the pool row, since the same posting is shared across every persona
// that matched it.
package model

import "time"

// Status is the lifecycle a persona's view of a job moves through.
type Status string

const (
	StatusDiscovered Status = "discovered"
	StatusSaved      Status = "saved"
	StatusApplied    Status = "applied"
	StatusDismissed  Status = "dismissed"
)

// DiscoveryMethod records how a link came to exist: manual is the
// repository's default, which C6's poll links get; C11's periodic
// surfacing worker sets pool.
type DiscoveryMethod string

const (
	DiscoveryManual DiscoveryMethod = "manual"
	DiscoveryPool   DiscoveryMethod = "pool"
)

// ScoreDetails is the persisted breakdown of a scoring pass: both
// scores' weighted components and the rationale shown at review time.
// Stored as a single JSONB column rather than one column per component
// since the component set is a scoring-pipeline implementation detail,
// not something callers query on.
type ScoreDetails struct {
	FitComponents     map[string]float64 `json:"fit_components"`
	StretchComponents map[string]float64 `json:"stretch_components"`
	Explanation       string             `json:"explanation"`
}

// PersonaJob is the Tier-1 per-persona link row (spec.md §3).
type PersonaJob struct {
	ID           string
	PersonaID    string
	JobPostingID string

	Status     Status
	IsFavorite bool

	DiscoveryMethod DiscoveryMethod

	FitScore             *int
	StretchScore         *int
	ScoreRationale       *string
	ScoredAt             *time.Time
	FailedNonNegotiables []string
	ScoreDetails         *ScoreDetails

	DismissedAt *time.Time
	DismissReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DTO is PersonaJob enriched with the joined JobPosting fields a list
// view needs, set by the repository rather than computed in the
// service layer.
type DTO struct {
	*PersonaJob
	JobTitle    string
	CompanyName string
	Location    *string
	WorkModel   *string
	SourceURL   *string
}

func (p *PersonaJob) ToDTO() *DTO {
	return &DTO{PersonaJob: p}
}

// ScoreResult bundles one scoring pass's output for persistence via
// RecordScore, kept separate from PersonaJob itself since a scorer
// never touches status/favorite/dismissal fields.
type ScoreResult struct {
	FitScore             *int
	StretchScore         *int
	ScoreRationale       *string
	FailedNonNegotiables []string
	ScoreDetails         *ScoreDetails
	ScoredAt             time.Time
}

// UpdatableFields whitelists the columns the repository's Update may
// touch. BulkUpdateStatus and BulkUpdateFavorite set their own fixed
// columns and do not consult it.
var UpdatableFields = map[string]struct{}{
	"status":         {},
	"is_favorite":    {},
	"dismissed_at":   {},
	"dismiss_reason": {},
}
