package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobscout/scouter/modules/registry/model"
)

// ModelRegistryRepository implements ports.ModelRegistryRepository
type ModelRegistryRepository struct {
	pool *pgxpool.Pool
}

func NewModelRegistryRepository(pool *pgxpool.Pool) *ModelRegistryRepository {
	return &ModelRegistryRepository{pool: pool}
}

func (r *ModelRegistryRepository) CreateModel(ctx context.Context, m *model.ModelRegistryEntry) error {
	m.ID = uuid.New().String()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	_, err := r.pool.Exec(ctx, `
		INSERT INTO model_registry (id, provider, model, display_name, model_type, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, m.ID, m.Provider, m.Model, m.DisplayName, m.ModelType, m.IsActive, m.CreatedAt, m.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return model.ErrDuplicateModel
	}
	return err
}

func (r *ModelRegistryRepository) GetModelByID(ctx context.Context, id string) (*model.ModelRegistryEntry, error) {
	m := &model.ModelRegistryEntry{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, provider, model, display_name, model_type, is_active, created_at, updated_at
		FROM model_registry WHERE id = $1
	`, id).Scan(&m.ID, &m.Provider, &m.Model, &m.DisplayName, &m.ModelType, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrModelNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *ModelRegistryRepository) ListModels(ctx context.Context) ([]*model.ModelRegistryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, provider, model, display_name, model_type, is_active, created_at, updated_at
		FROM model_registry ORDER BY provider, model
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.ModelRegistryEntry
	for rows.Next() {
		m := &model.ModelRegistryEntry{}
		if err := rows.Scan(&m.ID, &m.Provider, &m.Model, &m.DisplayName, &m.ModelType, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, m)
	}
	return entries, rows.Err()
}

func (r *ModelRegistryRepository) DeactivateModel(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `UPDATE model_registry SET is_active = false, updated_at = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrModelNotFound
	}
	return nil
}

func (r *ModelRegistryRepository) IsModelReferencedByRouting(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM task_routing_configs WHERE model_registry_id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *ModelRegistryRepository) CreatePricing(ctx context.Context, p *model.PricingConfig) error {
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pricing_configs (id, model_registry_id, input_cost_per_1k, output_cost_per_1k, margin_multiplier, effective_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.ModelRegistryID, p.InputCostPer1K, p.OutputCostPer1K, p.MarginMultiplier, p.EffectiveDate, p.CreatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return model.ErrDuplicatePricing
	}
	return err
}

func (r *ModelRegistryRepository) PricingHistory(ctx context.Context, modelRegistryID string) ([]*model.PricingConfig, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, model_registry_id, input_cost_per_1k, output_cost_per_1k, margin_multiplier, effective_date, created_at
		FROM pricing_configs WHERE model_registry_id = $1 ORDER BY effective_date DESC
	`, modelRegistryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.PricingConfig
	for rows.Next() {
		p := &model.PricingConfig{}
		if err := rows.Scan(&p.ID, &p.ModelRegistryID, &p.InputCostPer1K, &p.OutputCostPer1K, &p.MarginMultiplier, &p.EffectiveDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, p)
	}
	return entries, rows.Err()
}

func (r *ModelRegistryRepository) CurrentPricing(ctx context.Context, modelRegistryID string, asOf time.Time) (*model.PricingConfig, error) {
	p := &model.PricingConfig{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, model_registry_id, input_cost_per_1k, output_cost_per_1k, margin_multiplier, effective_date, created_at
		FROM pricing_configs
		WHERE model_registry_id = $1 AND effective_date <= $2
		ORDER BY effective_date DESC
		LIMIT 1
	`, modelRegistryID, asOf).Scan(&p.ID, &p.ModelRegistryID, &p.InputCostPer1K, &p.OutputCostPer1K, &p.MarginMultiplier, &p.EffectiveDate, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrModelNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ModelRegistryRepository) CountPricing(ctx context.Context, modelRegistryID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pricing_configs WHERE model_registry_id = $1`, modelRegistryID).Scan(&count)
	return count, err
}

func (r *ModelRegistryRepository) DeletePricing(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM pricing_configs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrModelNotFound
	}
	return nil
}

func (r *ModelRegistryRepository) UpsertRouting(ctx context.Context, rt *model.TaskRoutingConfig) error {
	if rt.ID == "" {
		rt.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	rt.UpdatedAt = now
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = now
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO task_routing_configs (id, provider, task_type, model_registry_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider, task_type) DO UPDATE SET model_registry_id = EXCLUDED.model_registry_id, updated_at = EXCLUDED.updated_at
	`, rt.ID, rt.Provider, rt.TaskType, rt.ModelRegistryID, rt.CreatedAt, rt.UpdatedAt)
	return err
}

func (r *ModelRegistryRepository) GetRouting(ctx context.Context, provider, taskType string) (*model.TaskRoutingConfig, error) {
	rt := &model.TaskRoutingConfig{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, provider, task_type, model_registry_id, created_at, updated_at
		FROM task_routing_configs WHERE provider = $1 AND task_type = $2
	`, provider, taskType).Scan(&rt.ID, &rt.Provider, &rt.TaskType, &rt.ModelRegistryID, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrModelNotFound
		}
		return nil, err
	}
	return rt, nil
}

func (r *ModelRegistryRepository) ListRouting(ctx context.Context) ([]*model.TaskRoutingConfig, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, provider, task_type, model_registry_id, created_at, updated_at FROM task_routing_configs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.TaskRoutingConfig
	for rows.Next() {
		rt := &model.TaskRoutingConfig{}
		if err := rows.Scan(&rt.ID, &rt.Provider, &rt.TaskType, &rt.ModelRegistryID, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, rt)
	}
	return entries, rows.Err()
}

func (r *ModelRegistryRepository) CreateCreditPack(ctx context.Context, p *model.CreditPack) error {
	p.ID = uuid.New().String()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.pool.Exec(ctx, `
		INSERT INTO credit_packs (id, name, price_cents, credit_amount, stripe_price_id, display_order, is_active, description, highlight_label, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.ID, p.Name, p.PriceCents, p.CreditAmount, p.StripePriceID, p.DisplayOrder, p.IsActive, p.Description, p.HighlightLabel, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ModelRegistryRepository) GetCreditPack(ctx context.Context, id string) (*model.CreditPack, error) {
	p := &model.CreditPack{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, price_cents, credit_amount, stripe_price_id, display_order, is_active, description, highlight_label, created_at, updated_at
		FROM credit_packs WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.PriceCents, &p.CreditAmount, &p.StripePriceID, &p.DisplayOrder, &p.IsActive, &p.Description, &p.HighlightLabel, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCreditPackNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ModelRegistryRepository) ListCreditPacks(ctx context.Context, activeOnly bool) ([]*model.CreditPack, error) {
	query := `
		SELECT id, name, price_cents, credit_amount, stripe_price_id, display_order, is_active, description, highlight_label, created_at, updated_at
		FROM credit_packs
	`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY display_order`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packs []*model.CreditPack
	for rows.Next() {
		p := &model.CreditPack{}
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.CreditAmount, &p.StripePriceID, &p.DisplayOrder, &p.IsActive, &p.Description, &p.HighlightLabel, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		packs = append(packs, p)
	}
	return packs, rows.Err()
}

func (r *ModelRegistryRepository) UpdateCreditPack(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	allowed := map[string]struct{}{
		"name": {}, "price_cents": {}, "credit_amount": {}, "stripe_price_id": {},
		"display_order": {}, "description": {}, "highlight_label": {},
	}
	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	args = append(args, id)
	i := 2
	for name, value := range fields {
		if _, ok := allowed[name]; !ok {
			return fmt.Errorf("registry: field %q is not updatable", name)
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", name, i))
		args = append(args, value)
		i++
	}
	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", i))
	args = append(args, time.Now().UTC())

	query := `UPDATE credit_packs SET ` + strings.Join(setClauses, ", ") + ` WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrCreditPackNotFound
	}
	return nil
}

func (r *ModelRegistryRepository) DeactivateCreditPack(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `UPDATE credit_packs SET is_active = false, updated_at = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrCreditPackNotFound
	}
	return nil
}
