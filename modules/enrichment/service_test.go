package enrichment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/scouter/internal/providers/llm"
	"github.com/jobscout/scouter/modules/pool/model"
)

type mockProvider struct {
	CompleteFunc func(ctx context.Context, messages []llm.Message, task llm.TaskType, opts llm.CompleteOptions) (*llm.Response, error)
}

func (m *mockProvider) ProviderName() string { return "mock" }
func (m *mockProvider) Complete(ctx context.Context, messages []llm.Message, task llm.TaskType, opts llm.CompleteOptions) (*llm.Response, error) {
	return m.CompleteFunc(ctx, messages, task, opts)
}
func (m *mockProvider) Stream(ctx context.Context, messages []llm.Message, task llm.TaskType, opts llm.CompleteOptions) (<-chan string, error) {
	ch := make(chan string)
	close(ch)
	return ch, nil
}
func (m *mockProvider) ModelForTask(task llm.TaskType) string { return "mock-model" }

func TestEnrichJobs_ExtractionSuccess(t *testing.T) {
	provider := &mockProvider{
		CompleteFunc: func(ctx context.Context, messages []llm.Message, task llm.TaskType, opts llm.CompleteOptions) (*llm.Response, error) {
			assert.Equal(t, llm.TaskExtraction, task)
			assert.True(t, opts.JSONMode)
			return &llm.Response{Content: `{"required_skills":[{"name":"Go"}],"preferred_skills":[],"culture_text":"fast-paced"}`}, nil
		},
	}

	svc := NewService(provider)
	posted := time.Now().UTC().Add(-48 * time.Hour)
	job := &model.JobPosting{ID: "job-1", Description: "We need a Go engineer.", PostedDate: &posted}

	results := svc.EnrichJobs(context.Background(), []*model.JobPosting{job})

	require.Len(t, results, 1)
	assert.False(t, results[0].ExtractionFailed)
	require.Len(t, results[0].RequiredSkills, 1)
	assert.Equal(t, "Go", results[0].RequiredSkills[0].SkillName)
	assert.Equal(t, "fast-paced", results[0].CultureText)
}

func TestEnrichJobs_ExtractionFailureIsolated(t *testing.T) {
	calls := 0
	provider := &mockProvider{
		CompleteFunc: func(ctx context.Context, messages []llm.Message, task llm.TaskType, opts llm.CompleteOptions) (*llm.Response, error) {
			calls++
			if calls == 1 {
				return nil, assert.AnError
			}
			return &llm.Response{Content: `{"required_skills":[],"preferred_skills":[],"culture_text":""}`}, nil
		},
	}

	svc := NewService(provider)
	jobs := []*model.JobPosting{
		{ID: "job-1", Description: "bad one"},
		{ID: "job-2", Description: "good one"},
	}

	results := svc.EnrichJobs(context.Background(), jobs)

	require.Len(t, results, 2)
	assert.True(t, results[0].ExtractionFailed)
	assert.False(t, results[1].ExtractionFailed)
}

func TestScoreGhost_StaleAndReposted(t *testing.T) {
	svc := NewService(nil)
	posted := time.Now().UTC().Add(-60 * 24 * time.Hour)
	job := &model.JobPosting{PostedDate: &posted, RepostCount: 5}

	score, signals := svc.scoreGhost(job)

	assert.True(t, signals.IsStale)
	assert.Equal(t, 5, signals.RepostCount)
	assert.Greater(t, score, 50)
	assert.LessOrEqual(t, score, 100)
}

func TestScoreGhost_FreshPosting(t *testing.T) {
	svc := NewService(nil)
	posted := time.Now().UTC()
	job := &model.JobPosting{PostedDate: &posted, RepostCount: 0}

	score, signals := svc.scoreGhost(job)

	assert.False(t, signals.IsStale)
	assert.Equal(t, 0, score)
}

func TestTruncateForExtraction_StripsZeroWidthAndTruncates(t *testing.T) {
	input := "abc​def" + string(make([]rune, 0))
	out := truncateForExtraction(input)
	assert.Equal(t, "abcdef", out)

	long := make([]byte, maxDescriptionChars+500)
	for i := range long {
		long[i] = 'a'
	}
	truncated := truncateForExtraction(string(long))
	assert.Len(t, []rune(truncated), maxDescriptionChars)
}
