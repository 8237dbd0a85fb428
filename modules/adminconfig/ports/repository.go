package ports

import (
	"context"
	"time"

	"github.com/jobscout/scouter/modules/adminconfig/model"
)

// AdminConfigRepository is the read side of C7: fast, cacheable lookups
// of routing and pricing used on the hot path of every metered call.
type AdminConfigRepository interface {
	// ResolveRoute returns the route for (provider, taskType), falling
	// back to the "_default" task type row when no specific one exists.
	ResolveRoute(ctx context.Context, provider, taskType string, asOf time.Time) (*model.ResolvedRoute, error)

	// PricingSnapshots returns every pricing row for a model, newest
	// first, annotated with whether each is the one currently in effect.
	PricingSnapshots(ctx context.Context, modelRegistryID string, asOf time.Time) ([]*model.PricingSnapshot, error)
}
