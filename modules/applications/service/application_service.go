package service

import (
	"context"
	"time"

	"github.com/jobscout/scouter/modules/applications/model"
	"github.com/jobscout/scouter/modules/applications/ports"
	poollinkModel "github.com/jobscout/scouter/modules/poollink/model"
	poollinkPorts "github.com/jobscout/scouter/modules/poollink/ports"
	poolPorts "github.com/jobscout/scouter/modules/pool/ports"
)

// ApplicationService turns a persona marking a pool job as applied-to
// into an immutable Application record, and advances it through the
// spec's status lifecycle thereafter.
type ApplicationService struct {
	appRepo  ports.ApplicationRepository
	linkRepo poollinkPorts.PoolLinkRepository
	poolRepo poolPorts.PoolRepository
}

func NewApplicationService(
	appRepo ports.ApplicationRepository,
	linkRepo poollinkPorts.PoolLinkRepository,
	poolRepo poolPorts.PoolRepository,
) *ApplicationService {
	return &ApplicationService{appRepo: appRepo, linkRepo: linkRepo, poolRepo: poolRepo}
}

// Create snapshots the job's current description and marks the
// persona_jobs link Applied, so the link's own status and the
// application's lifecycle stay in sync from the moment of creation.
func (s *ApplicationService) Create(ctx context.Context, personaID string, req *model.CreateApplicationRequest) (*model.DTO, error) {
	if _, err := s.appRepo.GetByPersonaAndJob(ctx, personaID, req.JobPostingID); err == nil {
		return nil, model.ErrAlreadyApplied
	}

	job, err := s.poolRepo.GetByID(ctx, req.JobPostingID)
	if err != nil {
		return nil, err
	}

	appliedAt := req.AppliedAt
	if appliedAt.IsZero() {
		appliedAt = time.Now().UTC()
	}

	app := &model.Application{
		PersonaID:            personaID,
		JobPostingID:         req.JobPostingID,
		SubmittedResumePDFID: req.SubmittedResumePDFID,
		Status:               model.StatusApplied,
		Snapshot: &model.JobSnapshot{
			JobTitle:    job.JobTitle,
			CompanyName: job.CompanyName,
			Description: job.Description,
		},
		AppliedAt: appliedAt,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	if link, err := s.linkRepo.GetByPersonaAndJob(ctx, personaID, req.JobPostingID); err == nil {
		_ = s.linkRepo.Update(ctx, personaID, link.ID, map[string]any{"status": poollinkModel.StatusApplied})
	}

	return model.NewDTO(app, job.JobTitle, job.CompanyName), nil
}

func (s *ApplicationService) GetByID(ctx context.Context, personaID, appID string) (*model.DTO, error) {
	app, err := s.appRepo.GetByID(ctx, personaID, appID)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, app), nil
}

func (s *ApplicationService) List(ctx context.Context, personaID, sortBy, sortDir string, limit, offset int) ([]*model.DTO, int, error) {
	apps, total, err := s.appRepo.List(ctx, personaID, &ports.ListOptions{Limit: limit, Offset: offset, SortBy: sortBy, SortDir: sortDir})
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]*model.DTO, len(apps))
	for i, app := range apps {
		dtos[i] = s.toDTO(ctx, app)
	}
	return dtos, total, nil
}

func (s *ApplicationService) Update(ctx context.Context, personaID, appID string, req *model.UpdateApplicationRequest) (*model.DTO, error) {
	fields := map[string]any{}
	if req.Status != nil {
		status := model.Status(*req.Status)
		if !status.Valid() {
			return nil, model.ErrInvalidStatus
		}
		fields["status"] = status
	}
	if req.IsPinned != nil {
		fields["is_pinned"] = *req.IsPinned
	}
	if req.Archived != nil {
		if *req.Archived {
			now := time.Now().UTC()
			fields["archived_at"] = now
		} else {
			fields["archived_at"] = nil
		}
	}

	if err := s.appRepo.Update(ctx, personaID, appID, fields); err != nil {
		return nil, err
	}
	app, err := s.appRepo.GetByID(ctx, personaID, appID)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, app), nil
}

func (s *ApplicationService) Delete(ctx context.Context, personaID, appID string) error {
	return s.appRepo.Delete(ctx, personaID, appID)
}

func (s *ApplicationService) toDTO(ctx context.Context, app *model.Application) *model.DTO {
	title, company := "", ""
	if app.Snapshot != nil {
		title, company = app.Snapshot.JobTitle, app.Snapshot.CompanyName
	}
	return model.NewDTO(app, title, company)
}
