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

	"github.com/jobscout/scouter/modules/poollink/model"
)

// PoolLinkRepository implements ports.PoolLinkRepository
type PoolLinkRepository struct {
	pool *pgxpool.Pool
}

func NewPoolLinkRepository(pool *pgxpool.Pool) *PoolLinkRepository {
	return &PoolLinkRepository{pool: pool}
}

func (r *PoolLinkRepository) Create(ctx context.Context, link *model.PersonaJob) error {
	query := `
		INSERT INTO persona_jobs (
			id, persona_id, job_posting_id, status, is_favorite, discovery_method,
			fit_score, stretch_score, score_rationale, scored_at,
			failed_non_negotiables, score_details,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	link.ID = uuid.New().String()
	if link.Status == "" {
		link.Status = model.StatusDiscovered
	}
	if link.DiscoveryMethod == "" {
		link.DiscoveryMethod = model.DiscoveryManual
	}
	now := time.Now().UTC()
	link.CreatedAt = now
	link.UpdatedAt = now

	failedNonNegotiables, err := json.Marshal(link.FailedNonNegotiables)
	if err != nil {
		return err
	}
	scoreDetails, err := json.Marshal(link.ScoreDetails)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		link.ID, link.PersonaID, link.JobPostingID, link.Status, link.IsFavorite, link.DiscoveryMethod,
		link.FitScore, link.StretchScore, link.ScoreRationale, link.ScoredAt,
		failedNonNegotiables, scoreDetails,
		link.CreatedAt, link.UpdatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return model.ErrLinkAlreadyExists
	}
	return err
}

// RecordScore persists a scoring pass's full result. Kept separate
// from the whitelisted Update so scorers can write fit_score,
// failed_non_negotiables and score_details, none of which end-user
// requests are ever allowed to set directly.
func (r *PoolLinkRepository) RecordScore(ctx context.Context, personaID, linkID string, result *model.ScoreResult) error {
	failedNonNegotiables, err := json.Marshal(result.FailedNonNegotiables)
	if err != nil {
		return err
	}
	scoreDetails, err := json.Marshal(result.ScoreDetails)
	if err != nil {
		return err
	}

	query := `
		UPDATE persona_jobs
		SET fit_score = $1, stretch_score = $2, score_rationale = $3, scored_at = $4,
		    failed_non_negotiables = $5, score_details = $6, updated_at = $7
		WHERE id = $8 AND persona_id = $9
	`
	res, err := r.pool.Exec(ctx, query,
		result.FitScore, result.StretchScore, result.ScoreRationale, result.ScoredAt,
		failedNonNegotiables, scoreDetails, time.Now().UTC(),
		linkID, personaID,
	)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return model.ErrPersonaJobNotFound
	}
	return nil
}

func (r *PoolLinkRepository) GetByID(ctx context.Context, personaID, linkID string) (*model.DTO, error) {
	query := enrichedSelect + `WHERE pj.id = $1 AND pj.persona_id = $2`

	dto, err := scanDTO(r.pool.QueryRow(ctx, query, linkID, personaID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPersonaJobNotFound
		}
		return nil, err
	}
	return dto, nil
}

func (r *PoolLinkRepository) GetByPersonaAndJob(ctx context.Context, personaID, jobPostingID string) (*model.PersonaJob, error) {
	query := `
		SELECT id, persona_id, job_posting_id, status, is_favorite,
		       fit_score, stretch_score, score_rationale, scored_at,
		       dismissed_at, dismiss_reason, created_at, updated_at
		FROM persona_jobs
		WHERE persona_id = $1 AND job_posting_id = $2
	`
	link := &model.PersonaJob{}
	err := r.pool.QueryRow(ctx, query, personaID, jobPostingID).Scan(
		&link.ID, &link.PersonaID, &link.JobPostingID, &link.Status, &link.IsFavorite,
		&link.FitScore, &link.StretchScore, &link.ScoreRationale, &link.ScoredAt,
		&link.DismissedAt, &link.DismissReason, &link.CreatedAt, &link.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPersonaJobNotFound
		}
		return nil, err
	}
	return link, nil
}

func (r *PoolLinkRepository) List(ctx context.Context, personaID string, status string, limit, offset int) ([]*model.DTO, int, error) {
	whereClause := "pj.persona_id = $1"
	args := []any{personaID}
	if status != "" && status != "all" {
		whereClause += " AND pj.status = $2"
		args = append(args, status)
	}

	countQuery := `SELECT COUNT(*) FROM persona_jobs pj WHERE ` + whereClause
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := enrichedSelect + `WHERE ` + whereClause + fmt.Sprintf(` ORDER BY pj.created_at DESC LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var links []*model.DTO
	for rows.Next() {
		dto, err := scanDTO(rows)
		if err != nil {
			return nil, 0, err
		}
		links = append(links, dto)
	}
	return links, total, rows.Err()
}

func (r *PoolLinkRepository) Update(ctx context.Context, personaID, linkID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+3)
	args = append(args, linkID, personaID)
	i := 3
	for name, value := range fields {
		if _, ok := model.UpdatableFields[name]; !ok {
			return fmt.Errorf("poollink: field %q is not updatable", name)
		}
		setClauses = append(setClauses, name+" = $"+strconv.Itoa(i))
		args = append(args, value)
		i++
	}
	setClauses = append(setClauses, "updated_at = $"+strconv.Itoa(i))
	args = append(args, time.Now().UTC())

	query := `UPDATE persona_jobs SET ` + strings.Join(setClauses, ", ") + ` WHERE id = $1 AND persona_id = $2`

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrPersonaJobNotFound
	}
	return nil
}

func (r *PoolLinkRepository) Delete(ctx context.Context, personaID, linkID string) error {
	query := `DELETE FROM persona_jobs WHERE id = $1 AND persona_id = $2`
	result, err := r.pool.Exec(ctx, query, linkID, personaID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrPersonaJobNotFound
	}
	return nil
}

func (r *PoolLinkRepository) BulkUpdateStatus(ctx context.Context, personaID string, linkIDs []string, status model.Status) (int, error) {
	if len(linkIDs) == 0 {
		return 0, nil
	}
	query := `UPDATE persona_jobs SET status = $1, updated_at = $2 WHERE persona_id = $3 AND id = ANY($4)`
	result, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), personaID, linkIDs)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func (r *PoolLinkRepository) BulkUpdateFavorite(ctx context.Context, personaID string, linkIDs []string, isFavorite bool) (int, error) {
	if len(linkIDs) == 0 {
		return 0, nil
	}
	query := `UPDATE persona_jobs SET is_favorite = $1, updated_at = $2 WHERE persona_id = $3 AND id = ANY($4)`
	result, err := r.pool.Exec(ctx, query, isFavorite, time.Now().UTC(), personaID, linkIDs)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func (r *PoolLinkRepository) ExistsForJob(ctx context.Context, personaID, jobPostingID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM persona_jobs WHERE persona_id = $1 AND job_posting_id = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, personaID, jobPostingID).Scan(&exists)
	return exists, err
}

const enrichedSelect = `
	SELECT
		pj.id, pj.persona_id, pj.job_posting_id, pj.status, pj.is_favorite,
		pj.fit_score, pj.stretch_score, pj.score_rationale, pj.scored_at,
		pj.dismissed_at, pj.dismiss_reason, pj.created_at, pj.updated_at,
		jp.job_title, jp.company_name, jp.location, jp.work_model, jp.source_url
	FROM persona_jobs pj
	JOIN job_postings jp ON pj.job_posting_id = jp.id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDTO(row rowScanner) (*model.DTO, error) {
	link := &model.PersonaJob{}
	dto := &model.DTO{PersonaJob: link}

	err := row.Scan(
		&link.ID, &link.PersonaID, &link.JobPostingID, &link.Status, &link.IsFavorite,
		&link.FitScore, &link.StretchScore, &link.ScoreRationale, &link.ScoredAt,
		&link.DismissedAt, &link.DismissReason, &link.CreatedAt, &link.UpdatedAt,
		&dto.JobTitle, &dto.CompanyName, &dto.Location, &dto.WorkModel, &dto.SourceURL,
	)
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}
