package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/scouter/modules/resumes/model"
)

type mockBaseResumeRepo struct {
	resumes    map[string]*model.BaseResume
	created    *model.BaseResume
	primarySet string
}

func newMockBaseResumeRepo() *mockBaseResumeRepo {
	return &mockBaseResumeRepo{resumes: map[string]*model.BaseResume{}}
}

func (m *mockBaseResumeRepo) Create(ctx context.Context, resume *model.BaseResume) error {
	resume.ID = "resume-new"
	m.resumes[resume.ID] = resume
	m.created = resume
	return nil
}

func (m *mockBaseResumeRepo) GetByID(ctx context.Context, personaID, resumeID string) (*model.BaseResume, error) {
	resume, ok := m.resumes[resumeID]
	if !ok {
		return nil, model.ErrBaseResumeNotFound
	}
	return resume, nil
}

func (m *mockBaseResumeRepo) GetPrimary(ctx context.Context, personaID string) (*model.BaseResume, error) {
	for _, r := range m.resumes {
		if r.IsPrimary {
			return r, nil
		}
	}
	return nil, model.ErrBaseResumeNotFound
}

func (m *mockBaseResumeRepo) ListByPersonaID(ctx context.Context, personaID string) ([]*model.BaseResume, error) {
	var out []*model.BaseResume
	for _, r := range m.resumes {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockBaseResumeRepo) Update(ctx context.Context, personaID, resumeID string, fields map[string]any) error {
	resume, ok := m.resumes[resumeID]
	if !ok {
		return model.ErrBaseResumeNotFound
	}
	if name, ok := fields["name"]; ok {
		resume.Name = name.(string)
	}
	return nil
}

func (m *mockBaseResumeRepo) SetPrimary(ctx context.Context, personaID, resumeID string) error {
	if _, ok := m.resumes[resumeID]; !ok {
		return model.ErrBaseResumeNotFound
	}
	for _, r := range m.resumes {
		r.IsPrimary = false
	}
	m.resumes[resumeID].IsPrimary = true
	m.primarySet = resumeID
	return nil
}

func (m *mockBaseResumeRepo) Delete(ctx context.Context, personaID, resumeID string) error {
	if _, ok := m.resumes[resumeID]; !ok {
		return model.ErrBaseResumeNotFound
	}
	delete(m.resumes, resumeID)
	return nil
}

func TestBaseResumeService_Create_FirstResumeIsPrimary(t *testing.T) {
	repo := newMockBaseResumeRepo()
	svc := NewBaseResumeService(repo)

	resume, err := svc.Create(context.Background(), "persona-1", &model.CreateBaseResumeRequest{
		Name:     "Backend Focus",
		RoleType: "Software Engineer",
	})

	require.NoError(t, err)
	assert.True(t, resume.IsPrimary)
}

func TestBaseResumeService_Create_RequiresName(t *testing.T) {
	repo := newMockBaseResumeRepo()
	svc := NewBaseResumeService(repo)

	_, err := svc.Create(context.Background(), "persona-1", &model.CreateBaseResumeRequest{Name: "   "})

	assert.ErrorIs(t, err, model.ErrBaseResumeNameRequired)
}

func TestBaseResumeService_Delete_RefusesWhenPrimaryAndOthersExist(t *testing.T) {
	repo := newMockBaseResumeRepo()
	repo.resumes["primary"] = &model.BaseResume{ID: "primary", IsPrimary: true}
	repo.resumes["other"] = &model.BaseResume{ID: "other"}
	svc := NewBaseResumeService(repo)

	err := svc.Delete(context.Background(), "persona-1", "primary")

	assert.ErrorIs(t, err, model.ErrCannotDeletePrimary)
}

func TestBaseResumeService_Delete_AllowsSolePrimary(t *testing.T) {
	repo := newMockBaseResumeRepo()
	repo.resumes["primary"] = &model.BaseResume{ID: "primary", IsPrimary: true}
	svc := NewBaseResumeService(repo)

	err := svc.Delete(context.Background(), "persona-1", "primary")

	assert.NoError(t, err)
}
