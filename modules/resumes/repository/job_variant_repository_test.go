package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/scouter/modules/resumes/model"
)

type testJobVariantRepo struct {
	mock pgxmock.PgxPoolIface
}

func (r *testJobVariantRepo) Approve(ctx context.Context, variantID string, snapshot *model.VariantSnapshot) error {
	result, err := r.mock.Exec(ctx, "UPDATE job_variants",
		model.VariantApproved, pgxmock.AnyArg(), pgxmock.AnyArg(), variantID, model.VariantDraft,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrVariantAlreadyApproved
	}
	return nil
}

func TestJobVariantRepository_Approve_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE job_variants").
		WithArgs(model.VariantApproved, pgxmock.AnyArg(), pgxmock.AnyArg(), "variant-1", model.VariantDraft).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := &testJobVariantRepo{mock: mock}
	snapshot := &model.VariantSnapshot{IncludedJobs: []string{"job-1"}}
	err = repo.Approve(context.Background(), "variant-1", snapshot)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobVariantRepository_Approve_AlreadyApproved(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE job_variants").
		WithArgs(model.VariantApproved, pgxmock.AnyArg(), pgxmock.AnyArg(), "variant-2", model.VariantDraft).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := &testJobVariantRepo{mock: mock}
	err = repo.Approve(context.Background(), "variant-2", &model.VariantSnapshot{})

	assert.ErrorIs(t, err, model.ErrVariantAlreadyApproved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVariantSnapshot_FieldsRoundTrip(t *testing.T) {
	snapshot := &model.VariantSnapshot{
		IncludedJobs:           []string{"job-1", "job-2"},
		JobBulletSelections:    map[string][]string{"job-1": {"bullet-1"}},
		IncludedEducation:      []string{"edu-1"},
		IncludedCertifications: []string{"cert-1"},
		SkillsEmphasis:         []string{"Go"},
	}
	variant := &model.JobVariant{
		ID:         "variant-1",
		Status:     model.VariantApproved,
		Snapshot:   snapshot,
		ApprovedAt: timePtr(time.Now()),
	}
	assert.Equal(t, model.VariantApproved, variant.Status)
	assert.Equal(t, []string{"job-1", "job-2"}, variant.Snapshot.IncludedJobs)
}

func timePtr(t time.Time) *time.Time { return &t }
