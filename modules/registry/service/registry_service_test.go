package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/scouter/modules/registry/model"
)

// mockRegistryRepository implements ports.ModelRegistryRepository
type mockRegistryRepository struct {
	GetModelByIDFunc              func(ctx context.Context, id string) (*model.ModelRegistryEntry, error)
	IsModelReferencedByRoutingFunc func(ctx context.Context, id string) (bool, error)
	DeactivateModelFunc           func(ctx context.Context, id string) error
	CountPricingFunc              func(ctx context.Context, modelRegistryID string) (int, error)
	DeletePricingFunc             func(ctx context.Context, id string) error
	GetRoutingFunc                func(ctx context.Context, provider, taskType string) (*model.TaskRoutingConfig, error)
}

func (m *mockRegistryRepository) CreateModel(ctx context.Context, e *model.ModelRegistryEntry) error {
	return nil
}
func (m *mockRegistryRepository) GetModelByID(ctx context.Context, id string) (*model.ModelRegistryEntry, error) {
	if m.GetModelByIDFunc != nil {
		return m.GetModelByIDFunc(ctx, id)
	}
	return &model.ModelRegistryEntry{ID: id}, nil
}
func (m *mockRegistryRepository) ListModels(ctx context.Context) ([]*model.ModelRegistryEntry, error) {
	return nil, nil
}
func (m *mockRegistryRepository) DeactivateModel(ctx context.Context, id string) error {
	if m.DeactivateModelFunc != nil {
		return m.DeactivateModelFunc(ctx, id)
	}
	return nil
}
func (m *mockRegistryRepository) IsModelReferencedByRouting(ctx context.Context, id string) (bool, error) {
	if m.IsModelReferencedByRoutingFunc != nil {
		return m.IsModelReferencedByRoutingFunc(ctx, id)
	}
	return false, nil
}
func (m *mockRegistryRepository) CreatePricing(ctx context.Context, p *model.PricingConfig) error {
	return nil
}
func (m *mockRegistryRepository) PricingHistory(ctx context.Context, modelRegistryID string) ([]*model.PricingConfig, error) {
	return nil, nil
}
func (m *mockRegistryRepository) CurrentPricing(ctx context.Context, modelRegistryID string, asOf time.Time) (*model.PricingConfig, error) {
	return nil, nil
}
func (m *mockRegistryRepository) CountPricing(ctx context.Context, modelRegistryID string) (int, error) {
	if m.CountPricingFunc != nil {
		return m.CountPricingFunc(ctx, modelRegistryID)
	}
	return 1, nil
}
func (m *mockRegistryRepository) DeletePricing(ctx context.Context, id string) error {
	if m.DeletePricingFunc != nil {
		return m.DeletePricingFunc(ctx, id)
	}
	return nil
}
func (m *mockRegistryRepository) UpsertRouting(ctx context.Context, r *model.TaskRoutingConfig) error {
	return nil
}
func (m *mockRegistryRepository) GetRouting(ctx context.Context, provider, taskType string) (*model.TaskRoutingConfig, error) {
	if m.GetRoutingFunc != nil {
		return m.GetRoutingFunc(ctx, provider, taskType)
	}
	return nil, model.ErrModelNotFound
}
func (m *mockRegistryRepository) ListRouting(ctx context.Context) ([]*model.TaskRoutingConfig, error) {
	return nil, nil
}
func (m *mockRegistryRepository) CreateCreditPack(ctx context.Context, p *model.CreditPack) error {
	return nil
}
func (m *mockRegistryRepository) GetCreditPack(ctx context.Context, id string) (*model.CreditPack, error) {
	return nil, nil
}
func (m *mockRegistryRepository) ListCreditPacks(ctx context.Context, activeOnly bool) ([]*model.CreditPack, error) {
	return nil, nil
}
func (m *mockRegistryRepository) UpdateCreditPack(ctx context.Context, id string, fields map[string]any) error {
	return nil
}
func (m *mockRegistryRepository) DeactivateCreditPack(ctx context.Context, id string) error {
	return nil
}

func TestDeactivateModel_RejectsWhenReferencedByRouting(t *testing.T) {
	repo := &mockRegistryRepository{
		IsModelReferencedByRoutingFunc: func(ctx context.Context, id string) (bool, error) { return true, nil },
	}
	svc := NewService(repo, nil)

	err := svc.DeactivateModel(context.Background(), "model-1")

	assert.ErrorIs(t, err, model.ErrModelInUse)
}

func TestDeactivateModel_SucceedsWhenUnreferenced(t *testing.T) {
	repo := &mockRegistryRepository{
		IsModelReferencedByRoutingFunc: func(ctx context.Context, id string) (bool, error) { return false, nil },
	}
	svc := NewService(repo, nil)

	err := svc.DeactivateModel(context.Background(), "model-1")

	require.NoError(t, err)
}

func TestDeletePricing_RejectsLastPricingEntry(t *testing.T) {
	repo := &mockRegistryRepository{
		CountPricingFunc: func(ctx context.Context, modelRegistryID string) (int, error) { return 1, nil },
	}
	svc := NewService(repo, nil)

	err := svc.DeletePricing(context.Background(), "model-1", "pricing-1")

	assert.ErrorIs(t, err, model.ErrLastPricing)
}

func TestDeletePricing_SucceedsWithMultipleEntries(t *testing.T) {
	repo := &mockRegistryRepository{
		CountPricingFunc: func(ctx context.Context, modelRegistryID string) (int, error) { return 2, nil },
	}
	svc := NewService(repo, nil)

	err := svc.DeletePricing(context.Background(), "model-1", "pricing-1")

	require.NoError(t, err)
}

func TestResolveRouting_FallsBackToDefaultTaskType(t *testing.T) {
	repo := &mockRegistryRepository{
		GetRoutingFunc: func(ctx context.Context, provider, taskType string) (*model.TaskRoutingConfig, error) {
			if taskType == model.DefaultTaskType {
				return &model.TaskRoutingConfig{Provider: provider, TaskType: model.DefaultTaskType, ModelRegistryID: "fallback-model"}, nil
			}
			return nil, model.ErrModelNotFound
		},
	}
	svc := NewService(repo, nil)

	rt, err := svc.ResolveRouting(context.Background(), "anthropic", "cover_letter")

	require.NoError(t, err)
	assert.Equal(t, "fallback-model", rt.ModelRegistryID)
}

func TestDemoteAdmin_RejectsSelfDemotion(t *testing.T) {
	svc := NewService(&mockRegistryRepository{}, nil)

	err := svc.DemoteAdmin("admin-1", "admin-1", "admin@example.com")

	assert.ErrorIs(t, err, model.ErrCannotDemoteSelf)
}

func TestDemoteAdmin_RejectsProtectedEmail(t *testing.T) {
	svc := NewService(&mockRegistryRepository{}, []string{"founder@example.com"})

	err := svc.DemoteAdmin("admin-1", "user-2", "founder@example.com")

	assert.ErrorIs(t, err, model.ErrAdminEmailsProtected)
}

func TestDemoteAdmin_AllowsOrdinaryDemotion(t *testing.T) {
	svc := NewService(&mockRegistryRepository{}, []string{"founder@example.com"})

	err := svc.DemoteAdmin("admin-1", "user-2", "user2@example.com")

	require.NoError(t, err)
}
