package repository

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSubmittedPDFRepo struct {
	mock pgxmock.PgxPoolIface
}

func (r *testSubmittedPDFRepo) DetachFromApplication(ctx context.Context, applicationID string) error {
	_, err := r.mock.Exec(ctx, "UPDATE submitted_resume_pdfs SET application_id = NULL", applicationID)
	return err
}

func TestSubmittedResumePDFRepository_DetachFromApplication(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE submitted_resume_pdfs SET application_id = NULL").
		WithArgs("application-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := &testSubmittedPDFRepo{mock: mock}
	err = repo.DetachFromApplication(context.Background(), "application-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
