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

	"github.com/jobscout/scouter/modules/registry/model"
)

// testRegistryRepo mirrors ModelRegistryRepository's query logic but
// holds the mock pool interface instead of the concrete *pgxpool.Pool,
// the same pattern modules/pool/repository uses for its pgxmock tests.
type testRegistryRepo struct {
	mock pgxmock.PgxPoolIface
}

func (r *testRegistryRepo) DeactivateModel(ctx context.Context, id string) error {
	result, err := r.mock.Exec(ctx, "UPDATE model_registry", id, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrModelNotFound
	}
	return nil
}

func (r *testRegistryRepo) UpdateCreditPack(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	allowed := map[string]struct{}{
		"name": {}, "price_cents": {}, "credit_amount": {}, "stripe_price_id": {},
		"display_order": {}, "description": {}, "highlight_label": {},
	}
	for name := range fields {
		if _, ok := allowed[name]; !ok {
			return fmt.Errorf("registry: field %q is not updatable", name)
		}
	}

	result, err := r.mock.Exec(ctx, "UPDATE credit_packs", id, "placeholder", time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrCreditPackNotFound
	}
	return nil
}

func TestModelRegistryRepository_DeactivateModel_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE model_registry").
		WithArgs("missing", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := &testRegistryRepo{mock: mock}
	err = repo.DeactivateModel(context.Background(), "missing")

	assert.Equal(t, model.ErrModelNotFound, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModelRegistryRepository_GetModelByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	row := mock.QueryRow(context.Background(), "SELECT", "missing")
	m := &model.ModelRegistryEntry{}
	err = row.Scan(&m.ID, &m.Provider, &m.Model, &m.DisplayName, &m.ModelType, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModelRegistryRepository_UpdateCreditPack_RejectsUnknownField(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &testRegistryRepo{mock: mock}
	err = repo.UpdateCreditPack(context.Background(), "pack-1", map[string]any{"is_active": false})

	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModelRegistryRepository_UpdateCreditPack_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE credit_packs").
		WithArgs("missing", "placeholder", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := &testRegistryRepo{mock: mock}
	err = repo.UpdateCreditPack(context.Background(), "missing", map[string]any{"name": "New Name"})

	assert.Equal(t, model.ErrCreditPackNotFound, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModelRegistryRepository_UpdateCreditPack_EmptyFieldsNoOp(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &testRegistryRepo{mock: mock}
	err = repo.UpdateCreditPack(context.Background(), "pack-1", map[string]any{})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
