// Package model holds C10's content-generation result types. The
// pipeline itself produces no new persisted entity of its own — it
// orchestrates modules/resumes' JobVariant and modules/persona's
// AchievementStory — so this package is result shapes only. Grounded on
// spec.md §4.10's 8-step flow.
package model

import "errors"

var (
	// ErrVariantDraftExists is returned by step 1 when a Draft variant
	// for this (persona, job) already exists — generation does not run
	// again until the user acts on it.
	ErrVariantDraftExists = errors.New("a draft variant already exists for this job")

	// ErrVariantApproved is returned by step 1 when the variant for this
	// (persona, job) has already been approved — editing is blocked.
	ErrVariantApproved = errors.New("the variant for this job is already approved")

	ErrNoPrimaryBaseResume = errors.New("persona has no primary base resume")
)

// Trigger records what caused generation to run.
type Trigger string

const (
	TriggerManual    Trigger = "manual"
	TriggerAutoDraft Trigger = "auto_draft"
)

// TailoringAction is step 3's decision: reuse the base resume as-is, or
// produce a job-specific JobVariant.
type TailoringAction string

const (
	ActionUseBase       TailoringAction = "use_base"
	ActionCreateVariant TailoringAction = "create_variant"
)

// TailoringSignals is step 3's structured reasoning input: the
// observations that drove the use_base/create_variant decision.
type TailoringSignals struct {
	MissingKeywords      []string `json:"missing_keywords"`
	LowScoreComponents   []string `json:"low_score_components"`
	RoleTitleDivergent   bool     `json:"role_title_divergent"`
}

// Result is everything C10 returns to the caller: the generated cover
// letter, the tailoring decision and its reasoning, which stories were
// used, and any warnings surfaced along the way.
type Result struct {
	Trigger Trigger

	TailoringAction    TailoringAction
	TailoringSignals   TailoringSignals
	TailoringReasoning string

	VariantID *string // set only when TailoringAction == ActionCreateVariant

	CoverLetterContent string
	SelectedStoryIDs   []string

	AgentReasoning string

	ReviewWarning   *string
	DuplicateNotice *string
	JobActive       bool
}
