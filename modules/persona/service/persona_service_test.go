package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/scouter/modules/persona/model"
)

type mockPersonaRepository struct {
	created *model.Persona
}

func (m *mockPersonaRepository) Create(ctx context.Context, p *model.Persona) error {
	m.created = p
	return nil
}
func (m *mockPersonaRepository) GetByID(ctx context.Context, id string) (*model.Persona, error) {
	return &model.Persona{ID: id}, nil
}
func (m *mockPersonaRepository) ListByUserID(ctx context.Context, userID string) ([]*model.Persona, error) {
	return nil, nil
}
func (m *mockPersonaRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return nil
}
func (m *mockPersonaRepository) Delete(ctx context.Context, id string) error { return nil }
func (m *mockPersonaRepository) ListEligibleForSurfacing(ctx context.Context, limit int) ([]*model.Persona, error) {
	return nil, nil
}
func (m *mockPersonaRepository) SkillsByPersonaID(ctx context.Context, personaID string) ([]*model.Skill, error) {
	return nil, nil
}
func (m *mockPersonaRepository) CreateSkill(ctx context.Context, s *model.Skill) error { return nil }
func (m *mockPersonaRepository) AchievementStoriesByPersonaID(ctx context.Context, personaID string) ([]*model.AchievementStory, error) {
	return nil, nil
}

func TestCreate_RejectsMissingFullName(t *testing.T) {
	svc := NewService(&mockPersonaRepository{})
	err := svc.Create(context.Background(), &model.Persona{})
	assert.ErrorIs(t, err, model.ErrFullNameRequired)
}

func TestCreate_AppliesDefaults(t *testing.T) {
	repo := &mockPersonaRepository{}
	svc := NewService(repo)
	err := svc.Create(context.Background(), &model.Persona{FullName: "Ada Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, model.StretchMedium, repo.created.StretchAppetite)
	assert.Equal(t, model.NoPreference, repo.created.RemotePreference)
	assert.Equal(t, 50, repo.created.MinimumFitThreshold)
	assert.Equal(t, 90, repo.created.AutoDraftThreshold)
}
