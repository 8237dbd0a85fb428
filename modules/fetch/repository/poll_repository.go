package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobscout/scouter/modules/fetch/model"
)

// PollRepository implements ports.PollConfigRepository
type PollRepository struct {
	pool *pgxpool.Pool
}

func NewPollRepository(pool *pgxpool.Pool) *PollRepository {
	return &PollRepository{pool: pool}
}

func (r *PollRepository) GetByPersonaID(ctx context.Context, personaID string) (*model.PollConfig, error) {
	query := `
		SELECT id, persona_id, enabled_sources, frequency, next_poll_at, last_polled_at, created_at, updated_at
		FROM poll_configs
		WHERE persona_id = $1
	`
	config := &model.PollConfig{}
	var sources []byte
	err := r.pool.QueryRow(ctx, query, personaID).Scan(
		&config.ID, &config.PersonaID, &sources, &config.Frequency, &config.NextPollAt, &config.LastPolledAt,
		&config.CreatedAt, &config.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPollConfigNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(sources, &config.EnabledSources); err != nil {
		return nil, err
	}
	return config, nil
}

func (r *PollRepository) Upsert(ctx context.Context, config *model.PollConfig) error {
	sources, err := json.Marshal(config.EnabledSources)
	if err != nil {
		return err
	}
	if config.ID == "" {
		config.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	config.UpdatedAt = now
	if config.CreatedAt.IsZero() {
		config.CreatedAt = now
	}

	query := `
		INSERT INTO poll_configs (id, persona_id, enabled_sources, frequency, next_poll_at, last_polled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (persona_id) DO UPDATE SET
			enabled_sources = EXCLUDED.enabled_sources,
			frequency = EXCLUDED.frequency,
			next_poll_at = EXCLUDED.next_poll_at,
			last_polled_at = EXCLUDED.last_polled_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query, config.ID, config.PersonaID, sources, config.Frequency,
		config.NextPollAt, config.LastPolledAt, config.CreatedAt, config.UpdatedAt)
	return err
}

func (r *PollRepository) DueForPoll(ctx context.Context, asOf time.Time) ([]*model.PollConfig, error) {
	query := `
		SELECT id, persona_id, enabled_sources, frequency, next_poll_at, last_polled_at, created_at, updated_at
		FROM poll_configs
		WHERE frequency != 'manual_only' AND next_poll_at <= $1
	`
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*model.PollConfig
	for rows.Next() {
		config := &model.PollConfig{}
		var sources []byte
		if err := rows.Scan(&config.ID, &config.PersonaID, &sources, &config.Frequency, &config.NextPollAt,
			&config.LastPolledAt, &config.CreatedAt, &config.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(sources, &config.EnabledSources); err != nil {
			return nil, err
		}
		configs = append(configs, config)
	}
	return configs, rows.Err()
}
