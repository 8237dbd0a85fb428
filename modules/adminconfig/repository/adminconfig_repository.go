package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobscout/scouter/modules/adminconfig/model"
	registrymodel "github.com/jobscout/scouter/modules/registry/model"
)

// AdminConfigRepository implements ports.AdminConfigRepository as plain
// reads against the same tables modules/registry writes to.
type AdminConfigRepository struct {
	pool *pgxpool.Pool
}

func NewAdminConfigRepository(pool *pgxpool.Pool) *AdminConfigRepository {
	return &AdminConfigRepository{pool: pool}
}

func (r *AdminConfigRepository) ResolveRoute(ctx context.Context, provider, taskType string, asOf time.Time) (*model.ResolvedRoute, error) {
	route, err := r.resolveRouteForTaskType(ctx, provider, taskType, asOf)
	if err == nil {
		return route, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) || taskType == registrymodel.DefaultTaskType {
		return nil, err
	}
	return r.resolveRouteForTaskType(ctx, provider, registrymodel.DefaultTaskType, asOf)
}

func (r *AdminConfigRepository) resolveRouteForTaskType(ctx context.Context, provider, taskType string, asOf time.Time) (*model.ResolvedRoute, error) {
	route := &model.ResolvedRoute{Provider: provider}
	err := r.pool.QueryRow(ctx, `
		SELECT mr.id, mr.model, pc.input_cost_per_1k, pc.output_cost_per_1k, pc.margin_multiplier
		FROM task_routing_configs trc
		JOIN model_registry mr ON mr.id = trc.model_registry_id
		JOIN pricing_configs pc ON pc.model_registry_id = mr.id
		WHERE trc.provider = $1 AND trc.task_type = $2 AND pc.effective_date <= $3
		  AND mr.is_active = true
		ORDER BY pc.effective_date DESC
		LIMIT 1
	`, provider, taskType, asOf).Scan(
		&route.ModelRegistryID, &route.Model,
		&route.InputCostPer1K, &route.OutputCostPer1K, &route.MarginMultiplier,
	)
	if err != nil {
		return nil, err
	}
	return route, nil
}

func (r *AdminConfigRepository) PricingSnapshots(ctx context.Context, modelRegistryID string, asOf time.Time) ([]*model.PricingSnapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT input_cost_per_1k, output_cost_per_1k, margin_multiplier, effective_date
		FROM pricing_configs WHERE model_registry_id = $1 ORDER BY effective_date DESC
	`, modelRegistryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*model.PricingSnapshot
	current := false
	for rows.Next() {
		s := &model.PricingSnapshot{ModelRegistryID: modelRegistryID}
		if err := rows.Scan(&s.InputCostPer1K, &s.OutputCostPer1K, &s.MarginMultiplier, &s.EffectiveDate); err != nil {
			return nil, err
		}
		if !current && !s.EffectiveDate.After(asOf) {
			s.IsCurrent = true
			current = true
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
