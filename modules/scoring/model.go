// Package scoring implements C9: the fit/stretch scoring pipeline that
// turns a persona_jobs link's raw posting data into a weighted score
// and a rationale. Grounded on
// original_source/backend/app/services/pool_scoring.py, with the
// embedding-cosine components (absent from the lightweight pass that
// file implements) added per spec.md §4.9.
package scoring

// Fit-score component weights (spec.md §4.9 step 3).
const (
	weightHardSkills         = 0.40
	weightSoftSkills         = 0.15
	weightExperienceLevel    = 0.25
	weightRoleTitle          = 0.10
	weightLocationLogistics  = 0.10
)

// Stretch-score component weights (spec.md §4.9 step 4).
const (
	weightTargetRole       = 0.50
	weightTargetSkills     = 0.40
	weightGrowthTrajectory = 0.10
)

// RationaleThreshold gates whether an LLM-written rationale is
// attempted; below it a generic low-match message is used and no LLM
// call is made.
const RationaleThreshold = 65

// Result is one job's full scoring outcome, ready for
// modules/poollink.RecordScore.
type Result struct {
	JobPostingID string

	// Filtered is true when the job failed one or more non-negotiable
	// filters; FitScore and StretchScore stay 0 in that case and are
	// persisted as NULL.
	Filtered       bool
	FailedFilters  []string

	FitScore     int
	FitComponents map[string]float64

	StretchScore     int
	StretchComponents map[string]float64

	Rationale string
}
