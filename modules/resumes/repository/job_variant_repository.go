package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobscout/scouter/modules/resumes/model"
)

type JobVariantRepository struct {
	pool *pgxpool.Pool
}

func NewJobVariantRepository(pool *pgxpool.Pool) *JobVariantRepository {
	return &JobVariantRepository{pool: pool}
}

const jobVariantSelect = `
	SELECT id, base_resume_id, job_posting_id, summary, job_bullet_order,
	       modifications_description, status, snapshot,
	       approved_at, archived_at, created_at, updated_at
	FROM job_variants
`

func (r *JobVariantRepository) Create(ctx context.Context, variant *model.JobVariant) error {
	variant.ID = uuid.New().String()
	if variant.Status == "" {
		variant.Status = model.VariantDraft
	}
	now := time.Now().UTC()
	variant.CreatedAt = now
	variant.UpdatedAt = now

	bulletOrder, err := json.Marshal(variant.JobBulletOrder)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO job_variants (
			id, base_resume_id, job_posting_id, summary, job_bullet_order,
			modifications_description, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.pool.Exec(ctx, query,
		variant.ID, variant.BaseResumeID, variant.JobPostingID, variant.Summary, bulletOrder,
		variant.ModificationsDescription, variant.Status, variant.CreatedAt, variant.UpdatedAt,
	)
	return err
}

func (r *JobVariantRepository) GetByID(ctx context.Context, variantID string) (*model.JobVariant, error) {
	query := jobVariantSelect + `WHERE id = $1`
	return scanJobVariant(r.pool.QueryRow(ctx, query, variantID))
}

func (r *JobVariantRepository) GetByBaseResumeAndJob(ctx context.Context, baseResumeID, jobPostingID string) (*model.JobVariant, error) {
	query := jobVariantSelect + `WHERE base_resume_id = $1 AND job_posting_id = $2`
	return scanJobVariant(r.pool.QueryRow(ctx, query, baseResumeID, jobPostingID))
}

// Approve snapshots the given selections onto the variant and marks it
// Approved. Rejected with model.ErrVariantAlreadyApproved if the
// variant's current status isn't Draft, so an already-submitted
// variant's snapshot can never be silently overwritten.
func (r *JobVariantRepository) Approve(ctx context.Context, variantID string, snapshot *model.VariantSnapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	query := `
		UPDATE job_variants
		SET status = $1, snapshot = $2, approved_at = $3, updated_at = $3
		WHERE id = $4 AND status = $5
	`
	result, err := r.pool.Exec(ctx, query, model.VariantApproved, snapshotJSON, now, variantID, model.VariantDraft)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		existing, getErr := r.GetByID(ctx, variantID)
		if getErr != nil {
			return getErr
		}
		if existing.Status != model.VariantDraft {
			return model.ErrVariantAlreadyApproved
		}
		return model.ErrVariantNotFound
	}
	return nil
}

func scanJobVariant(row rowScanner) (*model.JobVariant, error) {
	variant := &model.JobVariant{}
	var bulletOrder, snapshot []byte

	err := row.Scan(
		&variant.ID, &variant.BaseResumeID, &variant.JobPostingID, &variant.Summary, &bulletOrder,
		&variant.ModificationsDescription, &variant.Status, &snapshot,
		&variant.ApprovedAt, &variant.ArchivedAt, &variant.CreatedAt, &variant.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrVariantNotFound
		}
		return nil, err
	}

	if err := unmarshalIfPresent(bulletOrder, &variant.JobBulletOrder); err != nil {
		return nil, err
	}
	if len(snapshot) > 0 {
		variant.Snapshot = &model.VariantSnapshot{}
		if err := json.Unmarshal(snapshot, variant.Snapshot); err != nil {
			return nil, err
		}
	}
	return variant, nil
}
