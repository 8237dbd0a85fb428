package ports

import (
	"context"

	"github.com/jobscout/scouter/modules/persona/model"
)

type PersonaRepository interface {
	Create(ctx context.Context, p *model.Persona) error
	GetByID(ctx context.Context, id string) (*model.Persona, error)
	ListByUserID(ctx context.Context, userID string) ([]*model.Persona, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error

	// ListEligibleForSurfacing returns onboarding-complete personas, at
	// most limit, for C11's surfacing pass.
	ListEligibleForSurfacing(ctx context.Context, limit int) ([]*model.Persona, error)

	SkillsByPersonaID(ctx context.Context, personaID string) ([]*model.Skill, error)
	CreateSkill(ctx context.Context, s *model.Skill) error

	AchievementStoriesByPersonaID(ctx context.Context, personaID string) ([]*model.AchievementStory, error)
}
