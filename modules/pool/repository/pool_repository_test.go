package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/scouter/modules/pool/model"
)

// testPoolRepo mirrors PoolRepository's query logic but holds the mock
// pool interface instead of the concrete *pgxpool.Pool, the same
// pattern the other repository packages here use for pgxmock tests.
type testPoolRepo struct {
	mock pgxmock.PgxPoolIface
}

func (r *testPoolRepo) Create(ctx context.Context, job *model.JobPosting) error {
	job.ID = "test-job-id"
	now := time.Now().UTC()
	job.FirstSeenDate = now
	job.CreatedAt = now
	job.UpdatedAt = now
	job.IsActive = true

	_, err := r.mock.Exec(ctx, "INSERT INTO job_postings",
		job.ID, job.SourceID, job.ExternalID, job.JobTitle, job.CompanyName, job.CompanyURL, job.SourceURL, job.ApplyURL,
		job.Location, job.WorkModel, job.SeniorityLevel, job.SalaryMin, job.SalaryMax, job.SalaryCurrency,
		job.Description, job.DescriptionHash, job.CultureText, job.Requirements, job.RawText,
		job.YearsExperienceMin, job.YearsExperienceMax, job.PostedDate, job.ApplicationDeadline,
		job.FirstSeenDate, job.IsActive, job.IsQuarantined, job.GhostScore, job.RepostCount,
		[]byte("null"), []byte(`{"sources":[]}`), job.CreatedAt, job.UpdatedAt,
	)
	return err
}

func (r *testPoolRepo) Update(ctx context.Context, jobID string, fields map[string]any) error {
	for name := range fields {
		if _, ok := model.SourceUpdateFields[name]; !ok {
			return fmt.Errorf("pool: field %q is not updatable", name)
		}
	}

	result, err := r.mock.Exec(ctx, "UPDATE job_postings", jobID, "placeholder", time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobPostingNotFound
	}
	return nil
}

func (r *testPoolRepo) AppendRepost(ctx context.Context, jobID, previousPostingID string) error {
	result, err := r.mock.Exec(ctx, "UPDATE job_postings", jobID, previousPostingID, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobPostingNotFound
	}
	return nil
}

func (r *testPoolRepo) Deactivate(ctx context.Context, jobID string) error {
	result, err := r.mock.Exec(ctx, "UPDATE job_postings", jobID, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobPostingNotFound
	}
	return nil
}

func TestPoolRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	job := &model.JobPosting{
		SourceID:        "adzuna",
		JobTitle:        "Backend Engineer",
		CompanyName:     "Acme Corp",
		Description:     "build things",
		DescriptionHash: "abc123",
	}

	mock.ExpectExec("INSERT INTO job_postings").
		WithArgs(
			pgxmock.AnyArg(), job.SourceID, job.ExternalID, job.JobTitle, job.CompanyName, job.CompanyURL, job.SourceURL, job.ApplyURL,
			job.Location, job.WorkModel, job.SeniorityLevel, job.SalaryMin, job.SalaryMax, job.SalaryCurrency,
			job.Description, job.DescriptionHash, job.CultureText, job.Requirements, job.RawText,
			job.YearsExperienceMin, job.YearsExperienceMax, job.PostedDate, job.ApplicationDeadline,
			pgxmock.AnyArg(), true, job.IsQuarantined, job.GhostScore, job.RepostCount,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := &testPoolRepo{mock: mock}
	err = repo.Create(context.Background(), job)

	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.True(t, job.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolRepository_ScanJobPosting_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	row := mock.QueryRow(context.Background(), "SELECT", "missing")
	_, err = scanJobPosting(row)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolRepository_Update_RejectsUnknownField(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &testPoolRepo{mock: mock}
	err = repo.Update(context.Background(), "job-1", map[string]any{"is_active": false})

	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolRepository_Update_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE job_postings").
		WithArgs("nonexistent", "placeholder", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := &testPoolRepo{mock: mock}
	err = repo.Update(context.Background(), "nonexistent", map[string]any{"job_title": "New Title"})

	assert.Equal(t, model.ErrJobPostingNotFound, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolRepository_AppendRepost_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE job_postings").
		WithArgs("job-1", "old-job", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := &testPoolRepo{mock: mock}
	err = repo.AppendRepost(context.Background(), "job-1", "old-job")

	assert.Equal(t, model.ErrJobPostingNotFound, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func (r *testPoolRepo) Quarantine(ctx context.Context, jobID string) error {
	result, err := r.mock.Exec(ctx, "UPDATE job_postings", jobID, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobPostingNotFound
	}
	return nil
}

func (r *testPoolRepo) ReleaseExpiredQuarantines(ctx context.Context, ttl time.Duration) (int, error) {
	result, err := r.mock.Exec(ctx, "UPDATE job_postings", time.Now().UTC().Add(-ttl), time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func TestPoolRepository_Quarantine_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE job_postings").
		WithArgs("job-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := &testPoolRepo{mock: mock}
	err = repo.Quarantine(context.Background(), "job-1")

	assert.Equal(t, model.ErrJobPostingNotFound, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolRepository_ReleaseExpiredQuarantines_CountsRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE job_postings").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	repo := &testPoolRepo{mock: mock}
	n, err := repo.ReleaseExpiredQuarantines(context.Background(), 48*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolRepository_Deactivate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE job_postings").
		WithArgs("job-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := &testPoolRepo{mock: mock}
	err = repo.Deactivate(context.Background(), "job-1")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
