package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobscout/scouter/modules/resumes/model"
)

type BaseResumeRepository struct {
	pool *pgxpool.Pool
}

func NewBaseResumeRepository(pool *pgxpool.Pool) *BaseResumeRepository {
	return &BaseResumeRepository{pool: pool}
}

var updatableBaseResumeFields = map[string]struct{}{
	"name":                     {},
	"summary":                  {},
	"included_jobs":            {},
	"included_education":       {},
	"included_certifications":  {},
	"skills_emphasis":          {},
	"job_bullet_selections":    {},
	"job_bullet_order":         {},
	"rendered_document_key":    {},
	"rendered_at":              {},
	"display_order":            {},
	"status":                   {},
	"archived_at":              {},
}

const baseResumeSelect = `
	SELECT id, persona_id, name, role_type, summary,
	       included_jobs, included_education, included_certifications, skills_emphasis,
	       job_bullet_selections, job_bullet_order,
	       rendered_document_key, rendered_at,
	       is_primary, status, display_order, archived_at, created_at, updated_at
	FROM base_resumes
`

func (r *BaseResumeRepository) Create(ctx context.Context, resume *model.BaseResume) error {
	resume.ID = uuid.New().String()
	if resume.Status == "" {
		resume.Status = model.BaseResumeActive
	}
	now := time.Now().UTC()
	resume.CreatedAt = now
	resume.UpdatedAt = now

	includedJobs, err := json.Marshal(resume.IncludedJobs)
	if err != nil {
		return err
	}
	includedEducation, err := json.Marshal(resume.IncludedEducation)
	if err != nil {
		return err
	}
	includedCerts, err := json.Marshal(resume.IncludedCertifications)
	if err != nil {
		return err
	}
	skillsEmphasis, err := json.Marshal(resume.SkillsEmphasis)
	if err != nil {
		return err
	}
	bulletSelections, err := json.Marshal(resume.JobBulletSelections)
	if err != nil {
		return err
	}
	bulletOrder, err := json.Marshal(resume.JobBulletOrder)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO base_resumes (
			id, persona_id, name, role_type, summary,
			included_jobs, included_education, included_certifications, skills_emphasis,
			job_bullet_selections, job_bullet_order,
			is_primary, status, display_order, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = r.pool.Exec(ctx, query,
		resume.ID, resume.PersonaID, resume.Name, resume.RoleType, resume.Summary,
		includedJobs, includedEducation, includedCerts, skillsEmphasis,
		bulletSelections, bulletOrder,
		resume.IsPrimary, resume.Status, resume.DisplayOrder, resume.CreatedAt, resume.UpdatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return model.ErrDuplicateBaseResumeName
	}
	return err
}

func (r *BaseResumeRepository) GetByID(ctx context.Context, personaID, resumeID string) (*model.BaseResume, error) {
	query := baseResumeSelect + `WHERE id = $1 AND persona_id = $2`
	return scanBaseResume(r.pool.QueryRow(ctx, query, resumeID, personaID))
}

func (r *BaseResumeRepository) GetPrimary(ctx context.Context, personaID string) (*model.BaseResume, error) {
	query := baseResumeSelect + `WHERE persona_id = $1 AND is_primary = true LIMIT 1`
	return scanBaseResume(r.pool.QueryRow(ctx, query, personaID))
}

func (r *BaseResumeRepository) ListByPersonaID(ctx context.Context, personaID string) ([]*model.BaseResume, error) {
	query := baseResumeSelect + `WHERE persona_id = $1 ORDER BY display_order, created_at`
	rows, err := r.pool.Query(ctx, query, personaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumes []*model.BaseResume
	for rows.Next() {
		resume, err := scanBaseResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, resume)
	}
	return resumes, rows.Err()
}

func (r *BaseResumeRepository) Update(ctx context.Context, personaID, resumeID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+3)
	args = append(args, resumeID, personaID)
	i := 3
	for name, value := range fields {
		if _, ok := updatableBaseResumeFields[name]; !ok {
			return fmt.Errorf("resumes: field %q is not updatable", name)
		}
		setClauses = append(setClauses, name+" = $"+strconv.Itoa(i))
		args = append(args, value)
		i++
	}
	setClauses = append(setClauses, "updated_at = $"+strconv.Itoa(i))
	args = append(args, time.Now().UTC())

	query := `UPDATE base_resumes SET ` + strings.Join(setClauses, ", ") + ` WHERE id = $1 AND persona_id = $2`
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateBaseResumeName
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrBaseResumeNotFound
	}
	return nil
}

// SetPrimary runs both writes in one transaction so a reader never
// observes two primary base resumes (or zero) for a persona.
func (r *BaseResumeRepository) SetPrimary(ctx context.Context, personaID, resumeID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `UPDATE base_resumes SET is_primary = false, updated_at = $1 WHERE persona_id = $2`, now, personaID); err != nil {
		return err
	}
	result, err := tx.Exec(ctx, `UPDATE base_resumes SET is_primary = true, updated_at = $1 WHERE id = $2 AND persona_id = $3`, now, resumeID, personaID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrBaseResumeNotFound
	}
	return tx.Commit(ctx)
}

func (r *BaseResumeRepository) Delete(ctx context.Context, personaID, resumeID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM base_resumes WHERE id = $1 AND persona_id = $2`, resumeID, personaID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrBaseResumeNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBaseResume(row rowScanner) (*model.BaseResume, error) {
	resume := &model.BaseResume{}
	var includedJobs, includedEducation, includedCerts, skillsEmphasis, bulletSelections, bulletOrder []byte

	err := row.Scan(
		&resume.ID, &resume.PersonaID, &resume.Name, &resume.RoleType, &resume.Summary,
		&includedJobs, &includedEducation, &includedCerts, &skillsEmphasis,
		&bulletSelections, &bulletOrder,
		&resume.RenderedDocumentKey, &resume.RenderedAt,
		&resume.IsPrimary, &resume.Status, &resume.DisplayOrder, &resume.ArchivedAt,
		&resume.CreatedAt, &resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBaseResumeNotFound
		}
		return nil, err
	}

	if err := unmarshalIfPresent(includedJobs, &resume.IncludedJobs); err != nil {
		return nil, err
	}
	if err := unmarshalIfPresent(includedEducation, &resume.IncludedEducation); err != nil {
		return nil, err
	}
	if err := unmarshalIfPresent(includedCerts, &resume.IncludedCertifications); err != nil {
		return nil, err
	}
	if err := unmarshalIfPresent(skillsEmphasis, &resume.SkillsEmphasis); err != nil {
		return nil, err
	}
	if err := unmarshalIfPresent(bulletSelections, &resume.JobBulletSelections); err != nil {
		return nil, err
	}
	if err := unmarshalIfPresent(bulletOrder, &resume.JobBulletOrder); err != nil {
		return nil, err
	}
	return resume, nil
}

func unmarshalIfPresent(data []byte, target any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}
