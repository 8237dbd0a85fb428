package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/scouter/modules/poollink/model"
)

type testPoolLinkRepo struct {
	mock pgxmock.PgxPoolIface
}

func (r *testPoolLinkRepo) Create(ctx context.Context, link *model.PersonaJob) error {
	link.ID = "test-link-id"
	if link.Status == "" {
		link.Status = model.StatusDiscovered
	}
	now := time.Now().UTC()
	link.CreatedAt = now
	link.UpdatedAt = now

	_, err := r.mock.Exec(ctx, "INSERT INTO persona_jobs",
		link.ID, link.PersonaID, link.JobPostingID, link.Status, link.IsFavorite,
		link.FitScore, link.StretchScore, link.ScoreRationale, link.ScoredAt,
		link.CreatedAt, link.UpdatedAt,
	)
	return err
}

func (r *testPoolLinkRepo) GetByPersonaAndJob(ctx context.Context, personaID, jobPostingID string) (*model.PersonaJob, error) {
	query := `SELECT id, persona_id, job_posting_id, status, is_favorite`
	link := &model.PersonaJob{}
	err := r.mock.QueryRow(ctx, query, personaID, jobPostingID).Scan(
		&link.ID, &link.PersonaID, &link.JobPostingID, &link.Status, &link.IsFavorite,
		&link.FitScore, &link.StretchScore, &link.ScoreRationale, &link.ScoredAt,
		&link.DismissedAt, &link.DismissReason, &link.CreatedAt, &link.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, model.ErrPersonaJobNotFound
		}
		return nil, err
	}
	return link, nil
}

func (r *testPoolLinkRepo) BulkUpdateStatus(ctx context.Context, personaID string, linkIDs []string, status model.Status) (int, error) {
	if len(linkIDs) == 0 {
		return 0, nil
	}
	result, err := r.mock.Exec(ctx, "UPDATE persona_jobs", status, pgxmock.AnyArg(), personaID, linkIDs)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func (r *testPoolLinkRepo) RecordScore(ctx context.Context, personaID, linkID string, result *model.ScoreResult) error {
	res, err := r.mock.Exec(ctx, "UPDATE persona_jobs",
		result.FitScore, result.StretchScore, result.ScoreRationale, result.ScoredAt,
		pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
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

func TestPoolLinkRepository_RecordScore_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	fit := 72
	mock.ExpectExec("UPDATE persona_jobs").
		WithArgs(&fit, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			"link-1", "persona-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := &testPoolLinkRepo{mock: mock}
	err = repo.RecordScore(context.Background(), "persona-1", "link-1", &model.ScoreResult{FitScore: &fit})

	assert.Equal(t, model.ErrPersonaJobNotFound, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolLinkRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	link := &model.PersonaJob{PersonaID: "persona-1", JobPostingID: "job-1"}

	mock.ExpectExec("INSERT INTO persona_jobs").
		WithArgs(
			"test-link-id", link.PersonaID, link.JobPostingID, model.StatusDiscovered, false,
			link.FitScore, link.StretchScore, link.ScoreRationale, link.ScoredAt,
			pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := &testPoolLinkRepo{mock: mock}
	err = repo.Create(context.Background(), link)

	require.NoError(t, err)
	assert.Equal(t, model.StatusDiscovered, link.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolLinkRepository_GetByPersonaAndJob_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, persona_id, job_posting_id, status, is_favorite").
		WithArgs("persona-1", "job-1").
		WillReturnError(pgx.ErrNoRows)

	repo := &testPoolLinkRepo{mock: mock}
	link, err := repo.GetByPersonaAndJob(context.Background(), "persona-1", "job-1")

	assert.Nil(t, link)
	assert.Equal(t, model.ErrPersonaJobNotFound, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolLinkRepository_BulkUpdateStatus_EmptyShortCircuits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &testPoolLinkRepo{mock: mock}
	count, err := repo.BulkUpdateStatus(context.Background(), "persona-1", nil, model.StatusSaved)

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	require.NoError(t, mock.ExpectationsWereMet()) // no query expected, none issued
}

func TestPoolLinkRepository_BulkUpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE persona_jobs").
		WithArgs(model.StatusSaved, pgxmock.AnyArg(), "persona-1", []string{"link-1", "link-2"}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	repo := &testPoolLinkRepo{mock: mock}
	count, err := repo.BulkUpdateStatus(context.Background(), "persona-1", []string{"link-1", "link-2"}, model.StatusSaved)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
