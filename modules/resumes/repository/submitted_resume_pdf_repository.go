package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobscout/scouter/modules/resumes/model"
)

type SubmittedResumePDFRepository struct {
	pool *pgxpool.Pool
}

func NewSubmittedResumePDFRepository(pool *pgxpool.Pool) *SubmittedResumePDFRepository {
	return &SubmittedResumePDFRepository{pool: pool}
}

func (r *SubmittedResumePDFRepository) Create(ctx context.Context, pdf *model.SubmittedResumePDF) error {
	pdf.ID = uuid.New().String()
	pdf.GeneratedAt = time.Now().UTC()

	query := `
		INSERT INTO submitted_resume_pdfs (
			id, application_id, resume_source_type, resume_source_id,
			file_name, storage_key, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		pdf.ID, pdf.ApplicationID, pdf.ResumeSourceType, pdf.ResumeSourceID,
		pdf.FileName, pdf.StorageKey, pdf.GeneratedAt,
	)
	return err
}

func (r *SubmittedResumePDFRepository) GetByID(ctx context.Context, id string) (*model.SubmittedResumePDF, error) {
	query := `
		SELECT id, application_id, resume_source_type, resume_source_id,
		       file_name, storage_key, generated_at
		FROM submitted_resume_pdfs
		WHERE id = $1
	`
	pdf := &model.SubmittedResumePDF{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&pdf.ID, &pdf.ApplicationID, &pdf.ResumeSourceType, &pdf.ResumeSourceID,
		&pdf.FileName, &pdf.StorageKey, &pdf.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSubmittedPDFNotFound
		}
		return nil, err
	}
	return pdf, nil
}

// DetachFromApplication clears application_id on every submitted PDF
// pointing at applicationID, the same effect the FK's ON DELETE SET
// NULL has when an application is deleted. No caller in this tree
// invokes it; the applications module's delete path relies on the FK.
func (r *SubmittedResumePDFRepository) DetachFromApplication(ctx context.Context, applicationID string) error {
	_, err := r.pool.Exec(ctx, `UPDATE submitted_resume_pdfs SET application_id = NULL WHERE application_id = $1`, applicationID)
	return err
}
