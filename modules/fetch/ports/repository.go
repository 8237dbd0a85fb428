package ports

import (
	"context"
	"time"

	"github.com/jobscout/scouter/modules/fetch/model"
)

// PollConfigRepository stores each persona's enabled sources, polling
// frequency, and next/last poll timestamps.
type PollConfigRepository interface {
	GetByPersonaID(ctx context.Context, personaID string) (*model.PollConfig, error)
	Upsert(ctx context.Context, config *model.PollConfig) error

	// DueForPoll returns every config whose next_poll_at has passed
	// asOf, for the scheduler to drive run_poll across personas.
	DueForPoll(ctx context.Context, asOf time.Time) ([]*model.PollConfig, error)
}
