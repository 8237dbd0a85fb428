package ports

import (
	"context"

	"github.com/jobscout/scouter/modules/poollink/model"
)

// PoolLinkRepository defines data access for per-persona job links.
// Every read is scoped through personaID; callers are responsible for
// having already verified the persona belongs to the requesting user.
type PoolLinkRepository interface {
	Create(ctx context.Context, link *model.PersonaJob) error
	GetByID(ctx context.Context, personaID, linkID string) (*model.DTO, error)
	GetByPersonaAndJob(ctx context.Context, personaID, jobPostingID string) (*model.PersonaJob, error)

	List(ctx context.Context, personaID string, status string, limit, offset int) ([]*model.DTO, int, error)

	Update(ctx context.Context, personaID, linkID string, fields map[string]any) error
	Delete(ctx context.Context, personaID, linkID string) error

	// BulkUpdateStatus and BulkUpdateFavorite short-circuit to (0, nil)
	// on an empty linkIDs slice rather than issuing a no-op query.
	BulkUpdateStatus(ctx context.Context, personaID string, linkIDs []string, status model.Status) (int, error)
	BulkUpdateFavorite(ctx context.Context, personaID string, linkIDs []string, isFavorite bool) (int, error)

	// ExistsForJob reports whether personaID already links jobPostingID,
	// used by C11's surfacing worker to avoid redundant evaluation.
	ExistsForJob(ctx context.Context, personaID, jobPostingID string) (bool, error)

	// RecordScore persists a C9 scoring pass's full result, including
	// the fields Update's whitelist deliberately excludes.
	RecordScore(ctx context.Context, personaID, linkID string, result *model.ScoreResult) error
}
