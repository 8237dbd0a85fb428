package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/scouter/internal/providers/embedding"
	"github.com/jobscout/scouter/internal/providers/llm"
	personamodel "github.com/jobscout/scouter/modules/persona/model"
	poolmodel "github.com/jobscout/scouter/modules/pool/model"
	poollinkmodel "github.com/jobscout/scouter/modules/poollink/model"
)

type mockPersonaRepo struct{ persona *personamodel.Persona }

func (m *mockPersonaRepo) Create(ctx context.Context, p *personamodel.Persona) error { return nil }
func (m *mockPersonaRepo) GetByID(ctx context.Context, id string) (*personamodel.Persona, error) {
	return m.persona, nil
}
func (m *mockPersonaRepo) ListByUserID(ctx context.Context, userID string) ([]*personamodel.Persona, error) {
	return nil, nil
}
func (m *mockPersonaRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	return nil
}
func (m *mockPersonaRepo) Delete(ctx context.Context, id string) error { return nil }
func (m *mockPersonaRepo) ListEligibleForSurfacing(ctx context.Context, limit int) ([]*personamodel.Persona, error) {
	return nil, nil
}
func (m *mockPersonaRepo) SkillsByPersonaID(ctx context.Context, personaID string) ([]*personamodel.Skill, error) {
	return []*personamodel.Skill{
		{SkillName: "Go", SkillType: personamodel.SkillHard},
		{SkillName: "Communication", SkillType: personamodel.SkillSoft},
	}, nil
}
func (m *mockPersonaRepo) CreateSkill(ctx context.Context, s *personamodel.Skill) error { return nil }
func (m *mockPersonaRepo) AchievementStoriesByPersonaID(ctx context.Context, personaID string) ([]*personamodel.AchievementStory, error) {
	return nil, nil
}

type mockPoolRepo struct{ job *poolmodel.JobPosting }

func (m *mockPoolRepo) Create(ctx context.Context, job *poolmodel.JobPosting) error { return nil }
func (m *mockPoolRepo) GetByID(ctx context.Context, jobID string) (*poolmodel.JobPosting, error) {
	return m.job, nil
}
func (m *mockPoolRepo) GetBySourceAndExternalID(ctx context.Context, sourceID, externalID string) (*poolmodel.JobPosting, error) {
	return nil, nil
}
func (m *mockPoolRepo) GetByDescriptionHash(ctx context.Context, descriptionHash string) (*poolmodel.JobPosting, error) {
	return nil, nil
}
func (m *mockPoolRepo) GetByCompanyForSimilarity(ctx context.Context, companyName string, since time.Time) ([]*poolmodel.JobPosting, error) {
	return nil, nil
}
func (m *mockPoolRepo) Update(ctx context.Context, jobID string, fields map[string]any) error {
	return nil
}
func (m *mockPoolRepo) AppendRepost(ctx context.Context, jobID, previousPostingID string) error {
	return nil
}
func (m *mockPoolRepo) MergeAlsoFoundOn(ctx context.Context, jobID string, entry poolmodel.SourceEntry) error {
	return nil
}
func (m *mockPoolRepo) UpdateGhostScore(ctx context.Context, jobID string, score int, signals poolmodel.GhostSignals) error {
	return nil
}
func (m *mockPoolRepo) Deactivate(ctx context.Context, jobID string) error { return nil }
func (m *mockPoolRepo) ListRecentActive(ctx context.Context, since time.Time, limit int) ([]*poolmodel.JobPosting, error) {
	return nil, nil
}
func (m *mockPoolRepo) Quarantine(ctx context.Context, jobID string) error { return nil }
func (m *mockPoolRepo) ReleaseExpiredQuarantines(ctx context.Context, ttl time.Duration) (int, error) {
	return 0, nil
}
func (m *mockPoolRepo) CreateExtractedSkills(ctx context.Context, jobID string, skills []*poolmodel.ExtractedSkill) error {
	return nil
}
func (m *mockPoolRepo) ExtractedSkillsByJobID(ctx context.Context, jobID string) ([]*poolmodel.ExtractedSkill, error) {
	return nil, nil
}
func (m *mockPoolRepo) UpsertEmbedding(ctx context.Context, e *poolmodel.JobEmbedding) error {
	return nil
}
func (m *mockPoolRepo) EmbeddingsByJobID(ctx context.Context, jobID string) ([]*poolmodel.JobEmbedding, error) {
	return []*poolmodel.JobEmbedding{
		{JobPostingID: jobID, Type: "requirements", Vector: []float32{1, 0, 0}},
		{JobPostingID: jobID, Type: "culture", Vector: []float32{0, 1, 0}},
	}, nil
}

type mockLinkRepo struct {
	link     *poollinkmodel.PersonaJob
	recorded *poollinkmodel.ScoreResult
}

func (m *mockLinkRepo) Create(ctx context.Context, link *poollinkmodel.PersonaJob) error { return nil }
func (m *mockLinkRepo) GetByID(ctx context.Context, personaID, linkID string) (*poollinkmodel.DTO, error) {
	return nil, nil
}
func (m *mockLinkRepo) GetByPersonaAndJob(ctx context.Context, personaID, jobPostingID string) (*poollinkmodel.PersonaJob, error) {
	return m.link, nil
}
func (m *mockLinkRepo) List(ctx context.Context, personaID string, status string, limit, offset int) ([]*poollinkmodel.DTO, int, error) {
	return nil, 0, nil
}
func (m *mockLinkRepo) Update(ctx context.Context, personaID, linkID string, fields map[string]any) error {
	return nil
}
func (m *mockLinkRepo) Delete(ctx context.Context, personaID, linkID string) error { return nil }
func (m *mockLinkRepo) BulkUpdateStatus(ctx context.Context, personaID string, linkIDs []string, status poollinkmodel.Status) (int, error) {
	return 0, nil
}
func (m *mockLinkRepo) BulkUpdateFavorite(ctx context.Context, personaID string, linkIDs []string, isFavorite bool) (int, error) {
	return 0, nil
}
func (m *mockLinkRepo) ExistsForJob(ctx context.Context, personaID, jobPostingID string) (bool, error) {
	return false, nil
}
func (m *mockLinkRepo) RecordScore(ctx context.Context, personaID, linkID string, result *poollinkmodel.ScoreResult) error {
	m.recorded = result
	return nil
}

type stubLLM struct{ content string }

func (s *stubLLM) ProviderName() string { return "stub" }
func (s *stubLLM) Complete(ctx context.Context, messages []llm.Message, task llm.TaskType, opts llm.CompleteOptions) (*llm.Response, error) {
	return &llm.Response{Content: s.content}, nil
}
func (s *stubLLM) Stream(ctx context.Context, messages []llm.Message, task llm.TaskType, opts llm.CompleteOptions) (<-chan string, error) {
	return nil, nil
}
func (s *stubLLM) ModelForTask(task llm.TaskType) string { return "stub-model" }

type stubEmbedder struct{}

func (stubEmbedder) ProviderName() string { return "stub" }
func (stubEmbedder) Embed(ctx context.Context, texts []string) (*embedding.Result, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0}
	}
	return &embedding.Result{Vectors: vectors, Dimensions: 3}, nil
}
func (stubEmbedder) Dimensions() int { return 3 }

func newTestService(t *testing.T) (*Service, *mockLinkRepo) {
	years := 5
	persona := &personamodel.Persona{
		ID:                  "persona-1",
		YearsExperience:     &years,
		TargetRoles:         []string{"Backend Engineer"},
		TargetSkills:        []string{"Go"},
		RemotePreference:    personamodel.NoPreference,
	}
	job := &poolmodel.JobPosting{
		ID:          "job-1",
		JobTitle:    "Backend Engineer",
		CompanyName: "Acme",
		Description: "We need a Go engineer",
	}
	linkRepo := &mockLinkRepo{link: &poollinkmodel.PersonaJob{ID: "link-1", PersonaID: "persona-1", JobPostingID: "job-1"}}
	svc := NewService(&mockPersonaRepo{persona: persona}, &mockPoolRepo{job: job}, linkRepo, &stubLLM{content: "Great match."}, stubEmbedder{})
	return svc, linkRepo
}

func TestScoreBatch_ProducesFitAndStretchScores(t *testing.T) {
	svc, linkRepo := newTestService(t)
	results, err := svc.ScoreBatch(context.Background(), "persona-1", []string{"job-1"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Filtered)
	assert.InDelta(t, 85, result.FitScore, 1)
	require.NotNil(t, linkRepo.recorded)
	assert.NotNil(t, linkRepo.recorded.FitScore)
	assert.Equal(t, "Great match.", *linkRepo.recorded.ScoreRationale)
}

func TestScoreBatch_FiltersOnSalary(t *testing.T) {
	svc, linkRepo := newTestService(t)

	minSalary := 200_000
	persona := &personamodel.Persona{ID: "persona-1", MinimumBaseSalary: &minSalary, RemotePreference: personamodel.NoPreference}
	svc.personas = &mockPersonaRepo{persona: persona}

	salaryMax := 100_000
	job := &poolmodel.JobPosting{ID: "job-1", JobTitle: "Backend Engineer", CompanyName: "Acme", SalaryMax: &salaryMax}
	svc.pool = &mockPoolRepo{job: job}

	results, err := svc.ScoreBatch(context.Background(), "persona-1", []string{"job-1"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Filtered)
	assert.Contains(t, results[0].FailedFilters, "below_minimum_salary")
	require.NotNil(t, linkRepo.recorded)
	assert.Nil(t, linkRepo.recorded.FitScore)
}
