// Package model holds the shared-pool JobPosting (Tier 0) and its
// directly owned Tier-3 rows (ExtractedSkill, JobEmbedding). A
// JobPosting is never scoped to a user or persona — per-user state
// lives on modules/poollink's PersonaJob.
package model

import "time"

// SourceEntry is one element of also_found_on: a source this posting
// has also been seen on, besides its original source.
type SourceEntry struct {
	SourceID   string    `json:"source_id"`
	ExternalID *string   `json:"external_id,omitempty"`
	SourceURL  *string   `json:"source_url,omitempty"`
	FoundAt    time.Time `json:"found_at"`
}

// AlsoFoundOn wraps the SourceEntry slice the way the JSONB column is
// shaped in original_source ({"sources": [...]}), rather than a bare
// array, so a future column addition (e.g. a schema version marker)
// doesn't need a migration.
type AlsoFoundOn struct {
	Sources []SourceEntry `json:"sources"`
}

// GhostSignals is the structured blob C2's ghost scorer attaches.
type GhostSignals struct {
	DaysSincePosted int  `json:"days_since_posted"`
	RepostCount     int  `json:"repost_count"`
	IsStale         bool `json:"is_stale"`
}

// JobPosting is the canonical, persona-agnostic posting shared across
// all users (spec.md §3's Tier-0 redesign).
type JobPosting struct {
	ID          string
	SourceID    string
	ExternalID  *string

	JobTitle    string
	CompanyName string
	CompanyURL  *string
	SourceURL   *string
	ApplyURL    *string

	Location    *string
	WorkModel   *string // Remote | Hybrid | Onsite

	SeniorityLevel *string // Entry | Mid | Senior | Lead | Executive
	SalaryMin      *int
	SalaryMax      *int
	SalaryCurrency *string

	Description  string
	CultureText  *string
	Requirements *string
	RawText      *string

	YearsExperienceMin *int
	YearsExperienceMax *int

	PostedDate          *time.Time
	ApplicationDeadline *time.Time
	FirstSeenDate       time.Time

	IsActive      bool
	IsQuarantined bool
	QuarantinedAt *time.Time

	GhostSignals *GhostSignals
	GhostScore   int

	DescriptionHash    string
	RepostCount        int
	PreviousPostingIDs []string
	AlsoFoundOn        AlsoFoundOn

	LastVerifiedAt *time.Time
	DismissedAt    *time.Time
	ExpiredAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SourceUpdateFields is the whitelisted set of fields a dedup step-1
// same-source re-encounter may overwrite. Mirrors
// original_source/.../global_dedup_service.py's _SOURCE_UPDATE_FIELDS
// exactly: id, source_id, created_at, first_seen_date, ghost_*,
// repost_count, previous_posting_ids, also_found_on, and is_active are
// excluded — they are either immutable or computed elsewhere.
var SourceUpdateFields = map[string]struct{}{
	"job_title":            {},
	"company_name":         {},
	"company_url":          {},
	"source_url":           {},
	"apply_url":            {},
	"location":             {},
	"work_model":           {},
	"seniority_level":      {},
	"salary_min":           {},
	"salary_max":           {},
	"salary_currency":      {},
	"description":          {},
	"description_hash":     {},
	"culture_text":         {},
	"requirements":         {},
	"raw_text":             {},
	"years_experience_min": {},
	"years_experience_max": {},
	"posted_date":          {},
	"application_deadline": {},
}

// CreatableOptionalFields is the set of optional fields Create() accepts
// beyond the required (source_id, title, company, description, hash,
// first_seen). Separate from SourceUpdateFields because repost_count
// and previous_posting_ids are creatable (C4 step 3) but never part of
// a same-source update.
var CreatableOptionalFields = map[string]struct{}{
	"external_id":          {},
	"company_url":          {},
	"source_url":           {},
	"apply_url":            {},
	"location":             {},
	"work_model":           {},
	"seniority_level":      {},
	"salary_min":           {},
	"salary_max":           {},
	"salary_currency":      {},
	"culture_text":         {},
	"requirements":         {},
	"raw_text":             {},
	"years_experience_min": {},
	"years_experience_max": {},
	"posted_date":          {},
	"application_deadline": {},
	"repost_count":         {},
	"previous_posting_ids": {},
}

// ExtractedSkill is a Tier-3 row produced by C2's skill-extraction
// sub-stage.
type ExtractedSkill struct {
	ID             string
	JobPostingID   string
	SkillName      string
	SkillType      string // Hard | Soft
	IsRequired     bool
	YearsRequested *int
}

// JobEmbedding is a Tier-3 vector row produced once per (job,
// embedding_type) for the fit-score embedding components.
type JobEmbedding struct {
	ID           string
	JobPostingID string
	Type         string // requirements | culture
	Vector       []float32
}
