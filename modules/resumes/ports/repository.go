package ports

import (
	"context"

	"github.com/jobscout/scouter/modules/resumes/model"
)

type ResumeFileRepository interface {
	Create(ctx context.Context, file *model.ResumeFile) error
	GetByID(ctx context.Context, personaID, fileID string) (*model.ResumeFile, error)
	ListByPersonaID(ctx context.Context, personaID string) ([]*model.ResumeFile, error)
	Delete(ctx context.Context, personaID, fileID string) error

	// SetExtracted marks a resume file active and attaches the text
	// resumeparse pulled from it, once ConfirmUpload has fetched and
	// parsed the uploaded document.
	SetExtracted(ctx context.Context, personaID, fileID, extractedText string) error
}

type BaseResumeRepository interface {
	Create(ctx context.Context, resume *model.BaseResume) error
	GetByID(ctx context.Context, personaID, resumeID string) (*model.BaseResume, error)

	// GetPrimary returns the persona's current primary base resume, the
	// entry point for C10's tailoring evaluation.
	GetPrimary(ctx context.Context, personaID string) (*model.BaseResume, error)

	ListByPersonaID(ctx context.Context, personaID string) ([]*model.BaseResume, error)
	Update(ctx context.Context, personaID, resumeID string, fields map[string]any) error

	// SetPrimary atomically clears is_primary on every other base resume
	// for personaID before setting it on resumeID, so at most one row is
	// ever primary.
	SetPrimary(ctx context.Context, personaID, resumeID string) error

	Delete(ctx context.Context, personaID, resumeID string) error
}

type JobVariantRepository interface {
	Create(ctx context.Context, variant *model.JobVariant) error
	GetByID(ctx context.Context, variantID string) (*model.JobVariant, error)

	// GetByBaseResumeAndJob supports C10 step 1's duplicate check.
	GetByBaseResumeAndJob(ctx context.Context, baseResumeID, jobPostingID string) (*model.JobVariant, error)

	// Approve writes the caller-supplied snapshot onto the variant and
	// marks it Approved; rejected unless the variant is still Draft.
	Approve(ctx context.Context, variantID string, snapshot *model.VariantSnapshot) error
}

type SubmittedResumePDFRepository interface {
	Create(ctx context.Context, pdf *model.SubmittedResumePDF) error
	GetByID(ctx context.Context, id string) (*model.SubmittedResumePDF, error)

	// DetachFromApplication clears application_id without deleting the
	// row, mirroring the ON DELETE SET NULL the schema enforces.
	DetachFromApplication(ctx context.Context, applicationID string) error
}
