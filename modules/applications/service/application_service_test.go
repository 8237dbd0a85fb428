package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/scouter/modules/applications/model"
	"github.com/jobscout/scouter/modules/applications/ports"
	poolModel "github.com/jobscout/scouter/modules/pool/model"
	poollinkModel "github.com/jobscout/scouter/modules/poollink/model"
)

type mockAppRepo struct {
	apps map[string]*model.Application
}

func newMockAppRepo() *mockAppRepo { return &mockAppRepo{apps: map[string]*model.Application{}} }

func (m *mockAppRepo) Create(ctx context.Context, app *model.Application) error {
	app.ID = "app-new"
	m.apps[app.ID] = app
	return nil
}

func (m *mockAppRepo) GetByID(ctx context.Context, personaID, appID string) (*model.Application, error) {
	app, ok := m.apps[appID]
	if !ok {
		return nil, model.ErrApplicationNotFound
	}
	return app, nil
}

func (m *mockAppRepo) GetByPersonaAndJob(ctx context.Context, personaID, jobPostingID string) (*model.Application, error) {
	for _, a := range m.apps {
		if a.PersonaID == personaID && a.JobPostingID == jobPostingID {
			return a, nil
		}
	}
	return nil, model.ErrApplicationNotFound
}

func (m *mockAppRepo) List(ctx context.Context, personaID string, opts *ports.ListOptions) ([]*model.Application, int, error) {
	var out []*model.Application
	for _, a := range m.apps {
		out = append(out, a)
	}
	return out, len(out), nil
}

func (m *mockAppRepo) Update(ctx context.Context, personaID, appID string, fields map[string]any) error {
	app, ok := m.apps[appID]
	if !ok {
		return model.ErrApplicationNotFound
	}
	if status, ok := fields["status"]; ok {
		app.Status = status.(model.Status)
	}
	if pinned, ok := fields["is_pinned"]; ok {
		app.IsPinned = pinned.(bool)
	}
	return nil
}

func (m *mockAppRepo) Delete(ctx context.Context, personaID, appID string) error {
	if _, ok := m.apps[appID]; !ok {
		return model.ErrApplicationNotFound
	}
	delete(m.apps, appID)
	return nil
}

type mockPoolRepo struct{ job *poolModel.JobPosting }

func (m *mockPoolRepo) Create(ctx context.Context, job *poolModel.JobPosting) error { return nil }
func (m *mockPoolRepo) GetByID(ctx context.Context, jobID string) (*poolModel.JobPosting, error) {
	if m.job == nil {
		return nil, poolModel.ErrJobPostingNotFound
	}
	return m.job, nil
}
func (m *mockPoolRepo) GetBySourceAndExternalID(ctx context.Context, sourceID, externalID string) (*poolModel.JobPosting, error) {
	return nil, poolModel.ErrJobPostingNotFound
}
func (m *mockPoolRepo) GetByDescriptionHash(ctx context.Context, hash string) (*poolModel.JobPosting, error) {
	return nil, poolModel.ErrJobPostingNotFound
}
func (m *mockPoolRepo) GetByCompanyForSimilarity(ctx context.Context, companyName string, since time.Time) ([]*poolModel.JobPosting, error) {
	return nil, nil
}
func (m *mockPoolRepo) Update(ctx context.Context, jobID string, fields map[string]any) error {
	return nil
}
func (m *mockPoolRepo) AppendRepost(ctx context.Context, jobID, previousPostingID string) error {
	return nil
}
func (m *mockPoolRepo) MergeAlsoFoundOn(ctx context.Context, jobID string, entry poolModel.SourceEntry) error {
	return nil
}
func (m *mockPoolRepo) UpdateGhostScore(ctx context.Context, jobID string, score int, signals poolModel.GhostSignals) error {
	return nil
}
func (m *mockPoolRepo) Deactivate(ctx context.Context, jobID string) error { return nil }
func (m *mockPoolRepo) ListRecentActive(ctx context.Context, since time.Time, limit int) ([]*poolModel.JobPosting, error) {
	return nil, nil
}
func (m *mockPoolRepo) Quarantine(ctx context.Context, jobID string) error { return nil }
func (m *mockPoolRepo) ReleaseExpiredQuarantines(ctx context.Context, ttl time.Duration) (int, error) {
	return 0, nil
}
func (m *mockPoolRepo) CreateExtractedSkills(ctx context.Context, jobID string, skills []*poolModel.ExtractedSkill) error {
	return nil
}
func (m *mockPoolRepo) ExtractedSkillsByJobID(ctx context.Context, jobID string) ([]*poolModel.ExtractedSkill, error) {
	return nil, nil
}
func (m *mockPoolRepo) UpsertEmbedding(ctx context.Context, embedding *poolModel.JobEmbedding) error {
	return nil
}
func (m *mockPoolRepo) EmbeddingsByJobID(ctx context.Context, jobID string) ([]*poolModel.JobEmbedding, error) {
	return nil, nil
}

type mockLinkRepo struct {
	links  map[string]*poollinkModel.PersonaJob
	status poollinkModel.Status
}

func (m *mockLinkRepo) Create(ctx context.Context, link *poollinkModel.PersonaJob) error { return nil }
func (m *mockLinkRepo) GetByID(ctx context.Context, personaID, linkID string) (*poollinkModel.DTO, error) {
	return nil, poollinkModel.ErrPersonaJobNotFound
}
func (m *mockLinkRepo) GetByPersonaAndJob(ctx context.Context, personaID, jobPostingID string) (*poollinkModel.PersonaJob, error) {
	link, ok := m.links[personaID+":"+jobPostingID]
	if !ok {
		return nil, poollinkModel.ErrPersonaJobNotFound
	}
	return link, nil
}
func (m *mockLinkRepo) List(ctx context.Context, personaID string, status string, limit, offset int) ([]*poollinkModel.DTO, int, error) {
	return nil, 0, nil
}
func (m *mockLinkRepo) Update(ctx context.Context, personaID, linkID string, fields map[string]any) error {
	if status, ok := fields["status"]; ok {
		m.status = status.(poollinkModel.Status)
	}
	return nil
}
func (m *mockLinkRepo) Delete(ctx context.Context, personaID, linkID string) error { return nil }
func (m *mockLinkRepo) BulkUpdateStatus(ctx context.Context, personaID string, linkIDs []string, status poollinkModel.Status) (int, error) {
	return 0, nil
}
func (m *mockLinkRepo) BulkUpdateFavorite(ctx context.Context, personaID string, linkIDs []string, isFavorite bool) (int, error) {
	return 0, nil
}
func (m *mockLinkRepo) ExistsForJob(ctx context.Context, personaID, jobPostingID string) (bool, error) {
	return false, nil
}
func (m *mockLinkRepo) RecordScore(ctx context.Context, personaID, linkID string, result *poollinkModel.ScoreResult) error {
	return nil
}

func TestApplicationService_Create_SnapshotsJobAndMarksLinkApplied(t *testing.T) {
	appRepo := newMockAppRepo()
	poolRepo := &mockPoolRepo{job: &poolModel.JobPosting{ID: "job-1", JobTitle: "Backend Engineer", CompanyName: "Acme"}}
	linkRepo := &mockLinkRepo{links: map[string]*poollinkModel.PersonaJob{
		"persona-1:job-1": {ID: "link-1", PersonaID: "persona-1", JobPostingID: "job-1"},
	}}
	svc := NewApplicationService(appRepo, linkRepo, poolRepo)

	dto, err := svc.Create(context.Background(), "persona-1", &model.CreateApplicationRequest{JobPostingID: "job-1"})

	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", dto.Snapshot.JobTitle)
	assert.Equal(t, model.StatusApplied, dto.Status)
	assert.Equal(t, poollinkModel.StatusApplied, linkRepo.status)
}

func TestApplicationService_Create_RefusesDuplicate(t *testing.T) {
	appRepo := newMockAppRepo()
	appRepo.apps["existing"] = &model.Application{ID: "existing", PersonaID: "persona-1", JobPostingID: "job-1"}
	poolRepo := &mockPoolRepo{job: &poolModel.JobPosting{ID: "job-1"}}
	svc := NewApplicationService(appRepo, &mockLinkRepo{links: map[string]*poollinkModel.PersonaJob{}}, poolRepo)

	_, err := svc.Create(context.Background(), "persona-1", &model.CreateApplicationRequest{JobPostingID: "job-1"})

	assert.ErrorIs(t, err, model.ErrAlreadyApplied)
}

func TestApplicationService_Update_RejectsInvalidStatus(t *testing.T) {
	appRepo := newMockAppRepo()
	appRepo.apps["app-1"] = &model.Application{ID: "app-1", PersonaID: "persona-1"}
	svc := NewApplicationService(appRepo, &mockLinkRepo{links: map[string]*poollinkModel.PersonaJob{}}, &mockPoolRepo{})

	_, err := svc.Update(context.Background(), "persona-1", "app-1", &model.UpdateApplicationRequest{Status: strPtr("bogus")})

	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func strPtr(s string) *string { return &s }
