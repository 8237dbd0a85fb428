// Package service implements basic persona CRUD. Grounded on the
// teacher's modules/jobs/service shape (single owning entity, no
// cross-entity business rules beyond required-field validation).
package service

import (
	"context"
	"strings"

	"github.com/jobscout/scouter/modules/persona/model"
	"github.com/jobscout/scouter/modules/persona/ports"
)

type Service struct {
	repo ports.PersonaRepository
}

func NewService(repo ports.PersonaRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p *model.Persona) error {
	if strings.TrimSpace(p.FullName) == "" {
		return model.ErrFullNameRequired
	}
	if p.StretchAppetite == "" {
		p.StretchAppetite = model.StretchMedium
	}
	if p.RemotePreference == "" {
		p.RemotePreference = model.NoPreference
	}
	if p.SalaryCurrency == "" {
		p.SalaryCurrency = "USD"
	}
	if p.MinimumFitThreshold == 0 {
		p.MinimumFitThreshold = 50
	}
	if p.AutoDraftThreshold == 0 {
		p.AutoDraftThreshold = 90
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetByID(ctx context.Context, id string) (*model.Persona, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUserID(ctx context.Context, userID string) ([]*model.Persona, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *Service) Update(ctx context.Context, id string, fields map[string]any) error {
	return s.repo.Update(ctx, id, fields)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
