package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobscout/scouter/modules/pool/model"
)

// PoolRepository implements ports.PoolRepository
type PoolRepository struct {
	pool *pgxpool.Pool
}

// NewPoolRepository creates a new pool repository
func NewPoolRepository(pool *pgxpool.Pool) *PoolRepository {
	return &PoolRepository{pool: pool}
}

func (r *PoolRepository) Create(ctx context.Context, job *model.JobPosting) error {
	alsoFoundOn, err := json.Marshal(job.AlsoFoundOn)
	if err != nil {
		return err
	}
	var previousPostingIDs []byte
	if job.PreviousPostingIDs != nil {
		previousPostingIDs, err = json.Marshal(job.PreviousPostingIDs)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO job_postings (
			id, source_id, external_id, job_title, company_name, company_url, source_url, apply_url,
			location, work_model, seniority_level, salary_min, salary_max, salary_currency,
			description, description_hash, culture_text, requirements, raw_text,
			years_experience_min, years_experience_max, posted_date, application_deadline,
			first_seen_date, is_active, is_quarantined, ghost_score, repost_count,
			previous_posting_ids, also_found_on, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19,
			$20, $21, $22, $23,
			$24, $25, $26, $27, $28,
			$29, $30, $31, $32
		)
	`

	job.ID = uuid.New().String()
	now := time.Now().UTC()
	job.FirstSeenDate = now
	job.CreatedAt = now
	job.UpdatedAt = now
	job.IsActive = true

	_, err = r.pool.Exec(ctx, query,
		job.ID, job.SourceID, job.ExternalID, job.JobTitle, job.CompanyName, job.CompanyURL, job.SourceURL, job.ApplyURL,
		job.Location, job.WorkModel, job.SeniorityLevel, job.SalaryMin, job.SalaryMax, job.SalaryCurrency,
		job.Description, job.DescriptionHash, job.CultureText, job.Requirements, job.RawText,
		job.YearsExperienceMin, job.YearsExperienceMax, job.PostedDate, job.ApplicationDeadline,
		job.FirstSeenDate, job.IsActive, job.IsQuarantined, job.GhostScore, job.RepostCount,
		previousPostingIDs, alsoFoundOn, job.CreatedAt, job.UpdatedAt,
	)
	return err
}

func (r *PoolRepository) GetByID(ctx context.Context, jobID string) (*model.JobPosting, error) {
	return r.scanOne(ctx, `WHERE id = $1`, jobID)
}

func (r *PoolRepository) GetBySourceAndExternalID(ctx context.Context, sourceID, externalID string) (*model.JobPosting, error) {
	return r.scanOne(ctx, `WHERE source_id = $1 AND external_id = $2`, sourceID, externalID)
}

func (r *PoolRepository) GetByDescriptionHash(ctx context.Context, descriptionHash string) (*model.JobPosting, error) {
	return r.scanOne(ctx, `WHERE description_hash = $1`, descriptionHash)
}

func (r *PoolRepository) scanOne(ctx context.Context, whereClause string, args ...any) (*model.JobPosting, error) {
	query := baseSelect + whereClause
	row := r.pool.QueryRow(ctx, query, args...)
	job, err := scanJobPosting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrJobPostingNotFound
		}
		return nil, err
	}
	return job, nil
}

func (r *PoolRepository) GetByCompanyForSimilarity(ctx context.Context, companyName string, since time.Time) ([]*model.JobPosting, error) {
	query := baseSelect + `WHERE company_name = $1 AND is_active = true AND first_seen_date >= $2 ORDER BY first_seen_date DESC`

	rows, err := r.pool.Query(ctx, query, companyName, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postings []*model.JobPosting
	for rows.Next() {
		job, err := scanJobPosting(rows)
		if err != nil {
			return nil, err
		}
		postings = append(postings, job)
	}
	return postings, rows.Err()
}

// Update applies fields restricted to model.SourceUpdateFields. Callers
// (modules/pooldedup) are responsible for pre-filtering; this is the
// last line of defense against a stray column name reaching raw SQL.
func (r *PoolRepository) Update(ctx context.Context, jobID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	args = append(args, jobID)
	i := 2
	for name, value := range fields {
		if _, ok := model.SourceUpdateFields[name]; !ok {
			return fmt.Errorf("pool: field %q is not updatable", name)
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", name, i))
		args = append(args, value)
		i++
	}
	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", i))
	args = append(args, time.Now().UTC())

	query := `UPDATE job_postings SET ` + strings.Join(setClauses, ", ") + ` WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobPostingNotFound
	}
	return nil
}

func (r *PoolRepository) AppendRepost(ctx context.Context, jobID, previousPostingID string) error {
	query := `
		UPDATE job_postings
		SET previous_posting_ids = previous_posting_ids || to_jsonb($2::text),
		    repost_count = repost_count + 1,
		    updated_at = $3
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, jobID, previousPostingID, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobPostingNotFound
	}
	return nil
}

// MergeAlsoFoundOn reads-modifies-writes also_found_on rather than doing
// it in SQL: Go already has to decide "dedup by source_id", so the
// comparison is simpler done once in the service/repo than expressed as
// a jsonb_agg/DISTINCT round trip.
func (r *PoolRepository) MergeAlsoFoundOn(ctx context.Context, jobID string, entry model.SourceEntry) error {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT also_found_on FROM job_postings WHERE id = $1`, jobID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrJobPostingNotFound
		}
		return err
	}

	var current model.AlsoFoundOn
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &current); err != nil {
			return err
		}
	}

	updated := model.AlsoFoundOn{Sources: make([]model.SourceEntry, 0, len(current.Sources)+1)}
	seen := false
	for _, s := range current.Sources {
		updated.Sources = append(updated.Sources, s)
		if s.SourceID == entry.SourceID {
			seen = true
		}
	}
	if !seen {
		updated.Sources = append(updated.Sources, entry)
	}

	encoded, err := json.Marshal(updated)
	if err != nil {
		return err
	}

	result, err := r.pool.Exec(ctx, `UPDATE job_postings SET also_found_on = $2, updated_at = $3 WHERE id = $1`,
		jobID, encoded, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobPostingNotFound
	}
	return nil
}

func (r *PoolRepository) UpdateGhostScore(ctx context.Context, jobID string, score int, signals model.GhostSignals) error {
	encoded, err := json.Marshal(signals)
	if err != nil {
		return err
	}
	query := `UPDATE job_postings SET ghost_score = $2, ghost_signals = $3, updated_at = $4 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, jobID, score, encoded, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobPostingNotFound
	}
	return nil
}

func (r *PoolRepository) Deactivate(ctx context.Context, jobID string) error {
	query := `UPDATE job_postings SET is_active = false, updated_at = $2 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, jobID, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobPostingNotFound
	}
	return nil
}

// ListRecentActive returns active, non-quarantined postings first seen
// at or after since, newest first, for C11's surfacing pass.
func (r *PoolRepository) ListRecentActive(ctx context.Context, since time.Time, limit int) ([]*model.JobPosting, error) {
	query := baseSelect + `WHERE is_active = true AND is_quarantined = false AND first_seen_date >= $1 ORDER BY first_seen_date DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postings []*model.JobPosting
	for rows.Next() {
		job, err := scanJobPosting(rows)
		if err != nil {
			return nil, err
		}
		postings = append(postings, job)
	}
	return postings, rows.Err()
}

func (r *PoolRepository) Quarantine(ctx context.Context, jobID string) error {
	query := `UPDATE job_postings SET is_quarantined = true, quarantined_at = $2, updated_at = $2 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, jobID, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobPostingNotFound
	}
	return nil
}

// ReleaseExpiredQuarantines clears is_quarantined on every posting
// quarantined longer than ttl.
func (r *PoolRepository) ReleaseExpiredQuarantines(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-ttl)
	query := `UPDATE job_postings SET is_quarantined = false, quarantined_at = NULL, updated_at = $2 WHERE is_quarantined = true AND quarantined_at <= $1`
	result, err := r.pool.Exec(ctx, query, cutoff, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func (r *PoolRepository) CreateExtractedSkills(ctx context.Context, jobID string, skills []*model.ExtractedSkill) error {
	if len(skills) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, skill := range skills {
		skill.ID = uuid.New().String()
		skill.JobPostingID = jobID
		batch.Queue(`
			INSERT INTO extracted_skills (id, job_posting_id, skill_name, skill_type, is_required, years_requested)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, skill.ID, skill.JobPostingID, skill.SkillName, skill.SkillType, skill.IsRequired, skill.YearsRequested)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range skills {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *PoolRepository) ExtractedSkillsByJobID(ctx context.Context, jobID string) ([]*model.ExtractedSkill, error) {
	query := `
		SELECT id, job_posting_id, skill_name, skill_type, is_required, years_requested
		FROM extracted_skills
		WHERE job_posting_id = $1
	`
	rows, err := r.pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []*model.ExtractedSkill
	for rows.Next() {
		skill := &model.ExtractedSkill{}
		if err := rows.Scan(&skill.ID, &skill.JobPostingID, &skill.SkillName, &skill.SkillType, &skill.IsRequired, &skill.YearsRequested); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

func (r *PoolRepository) UpsertEmbedding(ctx context.Context, embedding *model.JobEmbedding) error {
	query := `
		INSERT INTO job_embeddings (id, job_posting_id, embedding_type, vector)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (job_posting_id, embedding_type) DO UPDATE SET vector = EXCLUDED.vector
	`
	if embedding.ID == "" {
		embedding.ID = uuid.New().String()
	}
	_, err := r.pool.Exec(ctx, query, embedding.ID, embedding.JobPostingID, embedding.Type, embedding.Vector)
	return err
}

func (r *PoolRepository) EmbeddingsByJobID(ctx context.Context, jobID string) ([]*model.JobEmbedding, error) {
	query := `SELECT id, job_posting_id, embedding_type, vector FROM job_embeddings WHERE job_posting_id = $1`
	rows, err := r.pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var embeddings []*model.JobEmbedding
	for rows.Next() {
		e := &model.JobEmbedding{}
		if err := rows.Scan(&e.ID, &e.JobPostingID, &e.Type, &e.Vector); err != nil {
			return nil, err
		}
		embeddings = append(embeddings, e)
	}
	return embeddings, rows.Err()
}

const baseSelect = `
	SELECT
		id, source_id, external_id, job_title, company_name, company_url, source_url, apply_url,
		location, work_model, seniority_level, salary_min, salary_max, salary_currency,
		description, description_hash, culture_text, requirements, raw_text,
		years_experience_min, years_experience_max, posted_date, application_deadline,
		first_seen_date, is_active, is_quarantined, quarantined_at, ghost_score, repost_count,
		previous_posting_ids, also_found_on, last_verified_at, dismissed_at, expired_at,
		created_at, updated_at
	FROM job_postings
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobPosting(row rowScanner) (*model.JobPosting, error) {
	job := &model.JobPosting{}
	var previousPostingIDs, alsoFoundOn []byte

	err := row.Scan(
		&job.ID, &job.SourceID, &job.ExternalID, &job.JobTitle, &job.CompanyName, &job.CompanyURL, &job.SourceURL, &job.ApplyURL,
		&job.Location, &job.WorkModel, &job.SeniorityLevel, &job.SalaryMin, &job.SalaryMax, &job.SalaryCurrency,
		&job.Description, &job.DescriptionHash, &job.CultureText, &job.Requirements, &job.RawText,
		&job.YearsExperienceMin, &job.YearsExperienceMax, &job.PostedDate, &job.ApplicationDeadline,
		&job.FirstSeenDate, &job.IsActive, &job.IsQuarantined, &job.QuarantinedAt, &job.GhostScore, &job.RepostCount,
		&previousPostingIDs, &alsoFoundOn, &job.LastVerifiedAt, &job.DismissedAt, &job.ExpiredAt,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(previousPostingIDs) > 0 {
		if err := json.Unmarshal(previousPostingIDs, &job.PreviousPostingIDs); err != nil {
			return nil, err
		}
	}
	if len(alsoFoundOn) > 0 {
		if err := json.Unmarshal(alsoFoundOn, &job.AlsoFoundOn); err != nil {
			return nil, err
		}
	}
	return job, nil
}
