package ports

import (
	"context"

	"github.com/jobscout/scouter/modules/applications/model"
)

// ListOptions represents options for listing a persona's applications.
type ListOptions struct {
	Limit   int
	Offset  int
	SortBy  string // "applied_at", "status", "updated_at"
	SortDir string // "asc", "desc"
}

// ApplicationRepository is scoped through personaID; callers are
// responsible for having already verified the persona belongs to the
// requesting user.
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, personaID, appID string) (*model.Application, error)
	GetByPersonaAndJob(ctx context.Context, personaID, jobPostingID string) (*model.Application, error)
	List(ctx context.Context, personaID string, opts *ListOptions) ([]*model.Application, int, error)
	Update(ctx context.Context, personaID, appID string, fields map[string]any) error
	Delete(ctx context.Context, personaID, appID string) error
}
