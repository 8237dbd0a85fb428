package ports

import (
	"context"
	"time"

	"github.com/jobscout/scouter/modules/registry/model"
)

// ModelRegistryRepository is the write side of C7: model registry,
// pricing, task routing, and credit pack CRUD.
type ModelRegistryRepository interface {
	CreateModel(ctx context.Context, m *model.ModelRegistryEntry) error
	GetModelByID(ctx context.Context, id string) (*model.ModelRegistryEntry, error)
	ListModels(ctx context.Context) ([]*model.ModelRegistryEntry, error)
	DeactivateModel(ctx context.Context, id string) error

	// IsModelReferencedByRouting reports whether any TaskRoutingConfig
	// still points at id — the MODEL_IN_USE guard.
	IsModelReferencedByRouting(ctx context.Context, id string) (bool, error)

	CreatePricing(ctx context.Context, p *model.PricingConfig) error
	PricingHistory(ctx context.Context, modelRegistryID string) ([]*model.PricingConfig, error)
	CurrentPricing(ctx context.Context, modelRegistryID string, asOf time.Time) (*model.PricingConfig, error)
	CountPricing(ctx context.Context, modelRegistryID string) (int, error)
	DeletePricing(ctx context.Context, id string) error

	UpsertRouting(ctx context.Context, r *model.TaskRoutingConfig) error
	GetRouting(ctx context.Context, provider, taskType string) (*model.TaskRoutingConfig, error)
	ListRouting(ctx context.Context) ([]*model.TaskRoutingConfig, error)

	CreateCreditPack(ctx context.Context, p *model.CreditPack) error
	GetCreditPack(ctx context.Context, id string) (*model.CreditPack, error)
	ListCreditPacks(ctx context.Context, activeOnly bool) ([]*model.CreditPack, error)
	UpdateCreditPack(ctx context.Context, id string, fields map[string]any) error
	DeactivateCreditPack(ctx context.Context, id string) error
}
