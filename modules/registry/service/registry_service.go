// Package service implements C7's write side: admin CRUD over the
// model registry, pricing history, task routing, and credit packs,
// enforcing the referential-integrity rules that keep routing and
// pricing consistent. Grounded on
// original_source/backend/app/services/admin_management_service.py.
package service

import (
	"context"
	"time"

	"github.com/jobscout/scouter/modules/registry/model"
	"github.com/jobscout/scouter/modules/registry/ports"
)

type Service struct {
	repo        ports.ModelRegistryRepository
	adminEmails map[string]struct{}
	now         func() time.Time
}

func NewService(repo ports.ModelRegistryRepository, adminEmails []string) *Service {
	emails := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		emails[e] = struct{}{}
	}
	return &Service{repo: repo, adminEmails: emails, now: time.Now}
}

func (s *Service) CreateModel(ctx context.Context, m *model.ModelRegistryEntry) error {
	m.IsActive = true
	return s.repo.CreateModel(ctx, m)
}

func (s *Service) ListModels(ctx context.Context) ([]*model.ModelRegistryEntry, error) {
	return s.repo.ListModels(ctx)
}

// DeactivateModel enforces MODEL_IN_USE: a model still referenced by a
// task routing config cannot be deactivated.
func (s *Service) DeactivateModel(ctx context.Context, id string) error {
	if _, err := s.repo.GetModelByID(ctx, id); err != nil {
		return err
	}
	inUse, err := s.repo.IsModelReferencedByRouting(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return model.ErrModelInUse
	}
	return s.repo.DeactivateModel(ctx, id)
}

// AddPricing appends a new dated pricing entry for a model.
func (s *Service) AddPricing(ctx context.Context, p *model.PricingConfig) error {
	if _, err := s.repo.GetModelByID(ctx, p.ModelRegistryID); err != nil {
		return err
	}
	return s.repo.CreatePricing(ctx, p)
}

// DeletePricing enforces LAST_PRICING: a model must always retain at
// least one pricing entry so cost calculations never fall back to zero.
func (s *Service) DeletePricing(ctx context.Context, modelRegistryID, pricingID string) error {
	count, err := s.repo.CountPricing(ctx, modelRegistryID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return model.ErrLastPricing
	}
	return s.repo.DeletePricing(ctx, pricingID)
}

func (s *Service) PricingHistory(ctx context.Context, modelRegistryID string) ([]*model.PricingConfig, error) {
	return s.repo.PricingHistory(ctx, modelRegistryID)
}

// CurrentPricing resolves the pricing entry whose effective_date is the
// latest one on or before asOf.
func (s *Service) CurrentPricing(ctx context.Context, modelRegistryID string, asOf time.Time) (*model.PricingConfig, error) {
	return s.repo.CurrentPricing(ctx, modelRegistryID, asOf)
}

// SetRouting enforces DUPLICATE_MODEL indirectly by upserting rather
// than inserting: a (provider, task_type) pair always has exactly one
// routing row, so "duplicate" routing is structurally impossible here.
func (s *Service) SetRouting(ctx context.Context, r *model.TaskRoutingConfig) error {
	if _, err := s.repo.GetModelByID(ctx, r.ModelRegistryID); err != nil {
		return err
	}
	return s.repo.UpsertRouting(ctx, r)
}

func (s *Service) ResolveRouting(ctx context.Context, provider, taskType string) (*model.TaskRoutingConfig, error) {
	rt, err := s.repo.GetRouting(ctx, provider, taskType)
	if err == nil {
		return rt, nil
	}
	if taskType == model.DefaultTaskType {
		return nil, err
	}
	return s.repo.GetRouting(ctx, provider, model.DefaultTaskType)
}

func (s *Service) ListRouting(ctx context.Context) ([]*model.TaskRoutingConfig, error) {
	return s.repo.ListRouting(ctx)
}

func (s *Service) CreateCreditPack(ctx context.Context, p *model.CreditPack) error {
	p.IsActive = true
	return s.repo.CreateCreditPack(ctx, p)
}

func (s *Service) ListCreditPacks(ctx context.Context, activeOnly bool) ([]*model.CreditPack, error) {
	return s.repo.ListCreditPacks(ctx, activeOnly)
}

func (s *Service) UpdateCreditPack(ctx context.Context, id string, fields map[string]any) error {
	return s.repo.UpdateCreditPack(ctx, id, fields)
}

func (s *Service) DeactivateCreditPack(ctx context.Context, id string) error {
	return s.repo.DeactivateCreditPack(ctx, id)
}

// DemoteAdmin enforces CANNOT_DEMOTE_SELF and ADMIN_EMAILS_PROTECTED:
// an admin cannot demote their own account, and an email present in the
// configured admin-emails allowlist cannot be demoted at all.
func (s *Service) DemoteAdmin(actingAdminID, targetUserID, targetEmail string) error {
	if actingAdminID == targetUserID {
		return model.ErrCannotDemoteSelf
	}
	if _, protected := s.adminEmails[targetEmail]; protected {
		return model.ErrAdminEmailsProtected
	}
	return nil
}
