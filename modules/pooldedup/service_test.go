package pooldedup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/scouter/internal/providers/source"
	"github.com/jobscout/scouter/modules/pool/model"
)

// mockPoolRepository implements ports.PoolRepository
type mockPoolRepository struct {
	GetByIDFunc                   func(ctx context.Context, jobID string) (*model.JobPosting, error)
	GetBySourceAndExternalIDFunc  func(ctx context.Context, sourceID, externalID string) (*model.JobPosting, error)
	GetByDescriptionHashFunc      func(ctx context.Context, hash string) (*model.JobPosting, error)
	GetByCompanyForSimilarityFunc func(ctx context.Context, companyName string, since time.Time) ([]*model.JobPosting, error)
	CreateFunc                    func(ctx context.Context, job *model.JobPosting) error
	UpdateFunc                    func(ctx context.Context, jobID string, fields map[string]any) error
	AppendRepostFunc              func(ctx context.Context, jobID, previousPostingID string) error
	MergeAlsoFoundOnFunc          func(ctx context.Context, jobID string, entry model.SourceEntry) error
	DeactivateFunc                func(ctx context.Context, jobID string) error
}

func (m *mockPoolRepository) Create(ctx context.Context, job *model.JobPosting) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, job)
	}
	job.ID = "new-job-id"
	return nil
}
func (m *mockPoolRepository) GetByID(ctx context.Context, jobID string) (*model.JobPosting, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, jobID)
	}
	return &model.JobPosting{ID: jobID}, nil
}
func (m *mockPoolRepository) GetBySourceAndExternalID(ctx context.Context, sourceID, externalID string) (*model.JobPosting, error) {
	return m.GetBySourceAndExternalIDFunc(ctx, sourceID, externalID)
}
func (m *mockPoolRepository) GetByDescriptionHash(ctx context.Context, hash string) (*model.JobPosting, error) {
	return m.GetByDescriptionHashFunc(ctx, hash)
}
func (m *mockPoolRepository) GetByCompanyForSimilarity(ctx context.Context, companyName string, since time.Time) ([]*model.JobPosting, error) {
	if m.GetByCompanyForSimilarityFunc != nil {
		return m.GetByCompanyForSimilarityFunc(ctx, companyName, since)
	}
	return nil, nil
}
func (m *mockPoolRepository) Update(ctx context.Context, jobID string, fields map[string]any) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, jobID, fields)
	}
	return nil
}
func (m *mockPoolRepository) AppendRepost(ctx context.Context, jobID, previousPostingID string) error {
	if m.AppendRepostFunc != nil {
		return m.AppendRepostFunc(ctx, jobID, previousPostingID)
	}
	return nil
}
func (m *mockPoolRepository) MergeAlsoFoundOn(ctx context.Context, jobID string, entry model.SourceEntry) error {
	if m.MergeAlsoFoundOnFunc != nil {
		return m.MergeAlsoFoundOnFunc(ctx, jobID, entry)
	}
	return nil
}
func (m *mockPoolRepository) UpdateGhostScore(ctx context.Context, jobID string, score int, signals model.GhostSignals) error {
	return nil
}
func (m *mockPoolRepository) ListRecentActive(ctx context.Context, since time.Time, limit int) ([]*model.JobPosting, error) {
	return nil, nil
}
func (m *mockPoolRepository) Quarantine(ctx context.Context, jobID string) error { return nil }
func (m *mockPoolRepository) ReleaseExpiredQuarantines(ctx context.Context, ttl time.Duration) (int, error) {
	return 0, nil
}
func (m *mockPoolRepository) Deactivate(ctx context.Context, jobID string) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, jobID)
	}
	return nil
}
func (m *mockPoolRepository) CreateExtractedSkills(ctx context.Context, jobID string, skills []*model.ExtractedSkill) error {
	return nil
}
func (m *mockPoolRepository) ExtractedSkillsByJobID(ctx context.Context, jobID string) ([]*model.ExtractedSkill, error) {
	return nil, nil
}
func (m *mockPoolRepository) UpsertEmbedding(ctx context.Context, embedding *model.JobEmbedding) error {
	return nil
}
func (m *mockPoolRepository) EmbeddingsByJobID(ctx context.Context, jobID string) ([]*model.JobEmbedding, error) {
	return nil, nil
}

func rawJob() source.RawJob {
	return source.RawJob{
		ExternalID:  "ext-1",
		Title:       "Senior Backend Engineer",
		Company:     "Acme Corp",
		Description: "We are looking for a senior backend engineer to join our team.",
		SourceURL:   "https://example.com/jobs/1",
	}
}

func TestDeduplicateAndSave_SameSourceReencounter(t *testing.T) {
	existing := &model.JobPosting{ID: "job-1", SourceID: "adzuna", JobTitle: "Old Title"}
	updateCalled := false

	repo := &mockPoolRepository{
		GetBySourceAndExternalIDFunc: func(ctx context.Context, sourceID, externalID string) (*model.JobPosting, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, jobID string, fields map[string]any) error {
			updateCalled = true
			assert.Equal(t, "job-1", jobID)
			return nil
		},
	}

	svc := NewService(repo)
	result, err := svc.DeduplicateAndSave(context.Background(), rawJob(), "adzuna")

	require.NoError(t, err)
	assert.True(t, updateCalled)
	assert.Equal(t, OutcomeUpdatedSameSource, result.Outcome)
}

func TestDeduplicateAndSave_SameDescriptionDifferentSource(t *testing.T) {
	existing := &model.JobPosting{ID: "job-1", SourceID: "adzuna"}
	mergeCalled := false

	repo := &mockPoolRepository{
		GetBySourceAndExternalIDFunc: func(ctx context.Context, sourceID, externalID string) (*model.JobPosting, error) {
			return nil, model.ErrJobPostingNotFound
		},
		GetByDescriptionHashFunc: func(ctx context.Context, hash string) (*model.JobPosting, error) {
			return existing, nil
		},
		MergeAlsoFoundOnFunc: func(ctx context.Context, jobID string, entry model.SourceEntry) error {
			mergeCalled = true
			assert.Equal(t, "job-1", jobID)
			assert.Equal(t, "remoteok", entry.SourceID)
			return nil
		},
	}

	svc := NewService(repo)
	result, err := svc.DeduplicateAndSave(context.Background(), rawJob(), "remoteok")

	require.NoError(t, err)
	assert.True(t, mergeCalled)
	assert.Equal(t, OutcomeLinkedAdditionalSource, result.Outcome)
}

func TestDeduplicateAndSave_BrandNew(t *testing.T) {
	repo := &mockPoolRepository{
		GetBySourceAndExternalIDFunc: func(ctx context.Context, sourceID, externalID string) (*model.JobPosting, error) {
			return nil, model.ErrJobPostingNotFound
		},
		GetByDescriptionHashFunc: func(ctx context.Context, hash string) (*model.JobPosting, error) {
			return nil, model.ErrJobPostingNotFound
		},
		GetByCompanyForSimilarityFunc: func(ctx context.Context, companyName string, since time.Time) ([]*model.JobPosting, error) {
			return nil, nil
		},
	}

	svc := NewService(repo)
	result, err := svc.DeduplicateAndSave(context.Background(), rawJob(), "adzuna")

	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)
	assert.Equal(t, "new-job-id", result.JobPosting.ID)
}

func TestDeduplicateAndSave_Repost(t *testing.T) {
	oldPosting := &model.JobPosting{
		ID:          "old-job",
		JobTitle:    "Senior Backend Engineer",
		Description: "We are looking for a senior backend engineer to join our team.",
	}

	var appendedPrevious, deactivatedID string

	repo := &mockPoolRepository{
		GetBySourceAndExternalIDFunc: func(ctx context.Context, sourceID, externalID string) (*model.JobPosting, error) {
			return nil, model.ErrJobPostingNotFound
		},
		GetByDescriptionHashFunc: func(ctx context.Context, hash string) (*model.JobPosting, error) {
			return nil, model.ErrJobPostingNotFound
		},
		GetByCompanyForSimilarityFunc: func(ctx context.Context, companyName string, since time.Time) ([]*model.JobPosting, error) {
			return []*model.JobPosting{oldPosting}, nil
		},
		AppendRepostFunc: func(ctx context.Context, jobID, previousPostingID string) error {
			appendedPrevious = previousPostingID
			return nil
		},
		DeactivateFunc: func(ctx context.Context, jobID string) error {
			deactivatedID = jobID
			return nil
		},
	}

	svc := NewService(repo)
	raw := rawJob()
	raw.ExternalID = "ext-new-repost" // different external id, same title/description/company

	result, err := svc.DeduplicateAndSave(context.Background(), raw, "adzuna")

	require.NoError(t, err)
	assert.Equal(t, OutcomeRepost, result.Outcome)
	assert.Equal(t, "old-job", appendedPrevious)
	assert.Equal(t, "old-job", deactivatedID)
}
