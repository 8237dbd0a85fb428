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

	"github.com/jobscout/scouter/modules/applications/model"
	"github.com/jobscout/scouter/modules/applications/ports"
)

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

var updatableApplicationFields = map[string]struct{}{
	"status":      {},
	"is_pinned":   {},
	"archived_at": {},
}

const baseSelect = `
	SELECT a.id, a.persona_id, a.job_posting_id, a.submitted_resume_pdf_id,
		a.status, a.is_pinned, a.archived_at, a.snapshot,
		a.applied_at, a.created_at, a.updated_at
	FROM applications a
`

func scanApplication(row interface{ Scan(dest ...any) error }) (*model.Application, error) {
	app := &model.Application{}
	var snapshotRaw []byte
	if err := row.Scan(
		&app.ID, &app.PersonaID, &app.JobPostingID, &app.SubmittedResumePDFID,
		&app.Status, &app.IsPinned, &app.ArchivedAt, &snapshotRaw,
		&app.AppliedAt, &app.CreatedAt, &app.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(snapshotRaw) > 0 {
		snapshot := &model.JobSnapshot{}
		if err := json.Unmarshal(snapshotRaw, snapshot); err != nil {
			return nil, err
		}
		app.Snapshot = snapshot
	}
	return app, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app *model.Application) error {
	snapshotRaw, err := json.Marshal(app.Snapshot)
	if err != nil {
		return err
	}

	app.ID = uuid.New().String()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}

	query := `
		INSERT INTO applications (
			id, persona_id, job_posting_id, submitted_resume_pdf_id,
			status, is_pinned, archived_at, snapshot,
			applied_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.pool.Exec(ctx, query,
		app.ID, app.PersonaID, app.JobPostingID, app.SubmittedResumePDFID,
		app.Status, app.IsPinned, app.ArchivedAt, snapshotRaw,
		app.AppliedAt, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return model.ErrAlreadyApplied
	}
	return err
}

func (r *ApplicationRepository) GetByID(ctx context.Context, personaID, appID string) (*model.Application, error) {
	row := r.pool.QueryRow(ctx, baseSelect+` WHERE a.id = $1 AND a.persona_id = $2`, appID, personaID)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *ApplicationRepository) GetByPersonaAndJob(ctx context.Context, personaID, jobPostingID string) (*model.Application, error) {
	row := r.pool.QueryRow(ctx, baseSelect+` WHERE a.persona_id = $1 AND a.job_posting_id = $2`, personaID, jobPostingID)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *ApplicationRepository) List(ctx context.Context, personaID string, opts *ports.ListOptions) ([]*model.Application, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE persona_id = $1`, personaID).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol := "applied_at"
	switch opts.SortBy {
	case "status", "updated_at":
		sortCol = opts.SortBy
	}
	sortDir := "DESC"
	if strings.ToUpper(opts.SortDir) == "ASC" {
		sortDir = "ASC"
	}

	query := fmt.Sprintf(`%s WHERE a.persona_id = $1 ORDER BY %s %s LIMIT $2 OFFSET $3`, baseSelect, sortCol, sortDir)
	rows, err := r.pool.Query(ctx, query, personaID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var apps []*model.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, app)
	}
	return apps, total, rows.Err()
}

func (r *ApplicationRepository) Update(ctx context.Context, personaID, appID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+3)
	args = append(args, appID, personaID)
	i := 3
	for name, value := range fields {
		if _, ok := updatableApplicationFields[name]; !ok {
			return fmt.Errorf("applications: field %q is not updatable", name)
		}
		setClauses = append(setClauses, name+" = $"+strconv.Itoa(i))
		args = append(args, value)
		i++
	}
	setClauses = append(setClauses, "updated_at = $"+strconv.Itoa(i))
	args = append(args, time.Now().UTC())

	query := `UPDATE applications SET ` + strings.Join(setClauses, ", ") + ` WHERE id = $1 AND persona_id = $2`
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, personaID, appID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1 AND persona_id = $2`, appID, personaID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrApplicationNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
