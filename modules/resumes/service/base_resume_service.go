package service

import (
	"context"
	"strings"

	"github.com/jobscout/scouter/modules/resumes/model"
	"github.com/jobscout/scouter/modules/resumes/ports"
)

// BaseResumeService owns a persona's master resume templates: creation,
// selection edits, and which one is primary.
type BaseResumeService struct {
	repo ports.BaseResumeRepository
}

func NewBaseResumeService(repo ports.BaseResumeRepository) *BaseResumeService {
	return &BaseResumeService{repo: repo}
}

func (s *BaseResumeService) Create(ctx context.Context, personaID string, req *model.CreateBaseResumeRequest) (*model.BaseResume, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.ErrBaseResumeNameRequired
	}

	existing, err := s.repo.ListByPersonaID(ctx, personaID)
	if err != nil {
		return nil, err
	}

	resume := &model.BaseResume{
		PersonaID: personaID,
		Name:      name,
		RoleType:  req.RoleType,
		Summary:   req.Summary,
		IsPrimary: len(existing) == 0,
		Status:    model.BaseResumeActive,
	}
	if err := s.repo.Create(ctx, resume); err != nil {
		return nil, err
	}
	return resume, nil
}

func (s *BaseResumeService) GetByID(ctx context.Context, personaID, resumeID string) (*model.BaseResume, error) {
	return s.repo.GetByID(ctx, personaID, resumeID)
}

// GetPrimary is C10's entry point: the resume a job-specific tailoring
// pass starts from before deciding whether to create a JobVariant.
func (s *BaseResumeService) GetPrimary(ctx context.Context, personaID string) (*model.BaseResume, error) {
	return s.repo.GetPrimary(ctx, personaID)
}

func (s *BaseResumeService) List(ctx context.Context, personaID string) ([]*model.BaseResume, error) {
	return s.repo.ListByPersonaID(ctx, personaID)
}

func (s *BaseResumeService) Update(ctx context.Context, personaID, resumeID string, req *model.UpdateBaseResumeRequest) (*model.BaseResume, error) {
	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, model.ErrBaseResumeNameRequired
		}
		fields["name"] = name
	}
	if req.Summary != nil {
		fields["summary"] = *req.Summary
	}
	if req.IncludedJobs != nil {
		fields["included_jobs"] = req.IncludedJobs
	}
	if req.IncludedEducation != nil {
		fields["included_education"] = req.IncludedEducation
	}
	if req.IncludedCertifications != nil {
		fields["included_certifications"] = req.IncludedCertifications
	}
	if req.SkillsEmphasis != nil {
		fields["skills_emphasis"] = req.SkillsEmphasis
	}
	if req.JobBulletSelections != nil {
		fields["job_bullet_selections"] = req.JobBulletSelections
	}
	if req.JobBulletOrder != nil {
		fields["job_bullet_order"] = req.JobBulletOrder
	}

	if len(fields) > 0 {
		if err := s.repo.Update(ctx, personaID, resumeID, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, personaID, resumeID)
}

func (s *BaseResumeService) SetPrimary(ctx context.Context, personaID, resumeID string) (*model.BaseResume, error) {
	if err := s.repo.SetPrimary(ctx, personaID, resumeID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, personaID, resumeID)
}

// Delete refuses to remove a persona's only primary base resume while
// other base resumes still exist, so a tailoring pass never loses its
// starting point silently.
func (s *BaseResumeService) Delete(ctx context.Context, personaID, resumeID string) error {
	resume, err := s.repo.GetByID(ctx, personaID, resumeID)
	if err != nil {
		return err
	}
	if resume.IsPrimary {
		others, err := s.repo.ListByPersonaID(ctx, personaID)
		if err != nil {
			return err
		}
		if len(others) > 1 {
			return model.ErrCannotDeletePrimary
		}
	}
	return s.repo.Delete(ctx, personaID, resumeID)
}
