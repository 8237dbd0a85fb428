// Package model holds the resume tier hierarchy (spec.md §3, resolved
// field-for-field against
// original_source/backend/app/models/resume.py): ResumeFile and
// BaseResume reference only a Persona (Tier 2); JobVariant additionally
// references a JobPosting (Tier 3); SubmittedResumePDF is the immutable
// artifact an Application points at (Tier 4). Binary content lives in
// S3 per the teacher's storage idiom (internal/platform/storage) —
// these structs keep the object key, not the bytes.
package model

import "time"

// ResumeFile is an uploaded source document a persona can derive base
// resumes from. file_type routes to internal/resumeparse's PDF or DOCX
// extractor.
type ResumeFile struct {
	ID            string
	PersonaID     string
	FileName      string
	FileType      string // PDF | DOCX
	FileSizeBytes int
	StorageKey    string
	UploadedAt    time.Time
	IsActive      bool

	// ExtractedText is the plain text resumeparse pulled from the
	// uploaded document once ConfirmUpload ran; nil until then.
	ExtractedText *string
}

// BaseResumeStatus is a BaseResume's lifecycle state.
type BaseResumeStatus string

const (
	BaseResumeActive   BaseResumeStatus = "Active"
	BaseResumeArchived BaseResumeStatus = "Archived"
)

// BaseResume is a persona's master template for one role type: the
// jobs/education/certifications/skills it pulls from and the bullet
// ordering within each. One per persona is marked primary and is
// C10's starting point before any job-specific tailoring.
type BaseResume struct {
	ID        string
	PersonaID string
	Name      string
	RoleType  string
	Summary   string

	IncludedJobs           []string
	IncludedEducation      []string
	IncludedCertifications []string
	SkillsEmphasis         []string

	// JobBulletSelections maps a work-history job id to the bullet ids
	// selected for it; JobBulletOrder maps the same key to their display
	// order. Kept as two parallel maps, matching original_source's
	// job_bullet_selections / job_bullet_order column split.
	JobBulletSelections map[string][]string
	JobBulletOrder      map[string][]string

	RenderedDocumentKey *string
	RenderedAt          *time.Time

	IsPrimary    bool
	Status       BaseResumeStatus
	DisplayOrder int
	ArchivedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VariantStatus is a JobVariant's approval lifecycle.
type VariantStatus string

const (
	VariantDraft    VariantStatus = "Draft"
	VariantApproved VariantStatus = "Approved"
	VariantArchived VariantStatus = "Archived"
)

// VariantSnapshot freezes a BaseResume's selections at approval time,
// so later edits to the base resume never retroactively change a
// resume a user has already submitted.
type VariantSnapshot struct {
	IncludedJobs           []string            `json:"included_jobs"`
	JobBulletSelections    map[string][]string `json:"job_bullet_selections"`
	IncludedEducation      []string            `json:"included_education"`
	IncludedCertifications []string            `json:"included_certifications"`
	SkillsEmphasis         []string            `json:"skills_emphasis"`
}

// JobVariant is a job-specific tailoring of a BaseResume, produced by
// C10's content-generation pipeline.
type JobVariant struct {
	ID                        string
	BaseResumeID              string
	JobPostingID              string
	Summary                   string
	JobBulletOrder            map[string][]string
	ModificationsDescription  *string
	Status                    VariantStatus
	Snapshot                  *VariantSnapshot
	ApprovedAt                *time.Time
	ArchivedAt                *time.Time
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// ResumeSourceType identifies which tier a SubmittedResumePDF was
// rendered from.
type ResumeSourceType string

const (
	SourceBase    ResumeSourceType = "Base"
	SourceVariant ResumeSourceType = "Variant"
)

// SubmittedResumePDF is the immutable PDF attached to an application.
// ApplicationID is nullable: Application holds this row by reference,
// never the other way around, breaking the cycle spec.md §9 calls out
// (an Application can't own its submitted PDF by FK if the PDF also
// owns a back-reference to the Application — one side has to be the
// nullable half, and original_source makes it this one).
type SubmittedResumePDF struct {
	ID              string
	ApplicationID   *string
	ResumeSourceType ResumeSourceType
	ResumeSourceID  string
	FileName        string
	StorageKey      string
	GeneratedAt     time.Time
}
