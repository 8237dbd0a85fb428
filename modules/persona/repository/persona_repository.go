package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobscout/scouter/modules/persona/model"
)

type PersonaRepository struct {
	pool *pgxpool.Pool
}

func NewPersonaRepository(pool *pgxpool.Pool) *PersonaRepository {
	return &PersonaRepository{pool: pool}
}

const baseSelect = `
	SELECT id, user_id, email, full_name, phone, home_city, home_state, home_country,
	       linkedin_url, portfolio_url, professional_summary, years_experience, current_role, current_company,
	       target_roles, target_skills, commutable_cities, relocation_cities, industry_exclusions,
	       stretch_appetite, minimum_base_salary, salary_currency, max_commute_minutes, remote_preference,
	       relocation_open, visa_sponsorship_required, minimum_fit_threshold, auto_draft_threshold,
	       onboarding_complete, onboarding_step, original_resume_file_id, voice_profile, created_at, updated_at
	FROM personas
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPersona(row rowScanner) (*model.Persona, error) {
	p := &model.Persona{}
	var targetRoles, targetSkills, commutableCities, relocationCities, industryExclusions, voiceProfile []byte

	err := row.Scan(
		&p.ID, &p.UserID, &p.Email, &p.FullName, &p.Phone, &p.HomeCity, &p.HomeState, &p.HomeCountry,
		&p.LinkedInURL, &p.PortfolioURL, &p.ProfessionalSummary, &p.YearsExperience, &p.CurrentRole, &p.CurrentCompany,
		&targetRoles, &targetSkills, &commutableCities, &relocationCities, &industryExclusions,
		&p.StretchAppetite, &p.MinimumBaseSalary, &p.SalaryCurrency, &p.MaxCommuteMinutes, &p.RemotePreference,
		&p.RelocationOpen, &p.VisaSponsorshipRequired, &p.MinimumFitThreshold, &p.AutoDraftThreshold,
		&p.OnboardingComplete, &p.OnboardingStep, &p.OriginalResumeFileID, &voiceProfile, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(targetRoles, &p.TargetRoles)
	_ = json.Unmarshal(targetSkills, &p.TargetSkills)
	_ = json.Unmarshal(commutableCities, &p.CommutableCities)
	_ = json.Unmarshal(relocationCities, &p.RelocationCities)
	_ = json.Unmarshal(industryExclusions, &p.IndustryExclusions)
	if len(voiceProfile) > 0 {
		var vp model.VoiceProfile
		if err := json.Unmarshal(voiceProfile, &vp); err == nil {
			p.VoiceProfile = &vp
		}
	}
	return p, nil
}

func (r *PersonaRepository) Create(ctx context.Context, p *model.Persona) error {
	p.ID = uuid.New().String()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	targetRoles, _ := json.Marshal(p.TargetRoles)
	targetSkills, _ := json.Marshal(p.TargetSkills)
	commutableCities, _ := json.Marshal(p.CommutableCities)
	relocationCities, _ := json.Marshal(p.RelocationCities)
	industryExclusions, _ := json.Marshal(p.IndustryExclusions)
	var voiceProfile []byte
	if p.VoiceProfile != nil {
		voiceProfile, _ = json.Marshal(p.VoiceProfile)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO personas (
			id, user_id, email, full_name, phone, home_city, home_state, home_country,
			linkedin_url, portfolio_url, professional_summary, years_experience, current_role, current_company,
			target_roles, target_skills, commutable_cities, relocation_cities, industry_exclusions,
			stretch_appetite, minimum_base_salary, salary_currency, max_commute_minutes, remote_preference,
			relocation_open, visa_sponsorship_required, minimum_fit_threshold, auto_draft_threshold,
			onboarding_complete, onboarding_step, original_resume_file_id, voice_profile, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34)
	`,
		p.ID, p.UserID, p.Email, p.FullName, p.Phone, p.HomeCity, p.HomeState, p.HomeCountry,
		p.LinkedInURL, p.PortfolioURL, p.ProfessionalSummary, p.YearsExperience, p.CurrentRole, p.CurrentCompany,
		targetRoles, targetSkills, commutableCities, relocationCities, industryExclusions,
		p.StretchAppetite, p.MinimumBaseSalary, p.SalaryCurrency, p.MaxCommuteMinutes, p.RemotePreference,
		p.RelocationOpen, p.VisaSponsorshipRequired, p.MinimumFitThreshold, p.AutoDraftThreshold,
		p.OnboardingComplete, p.OnboardingStep, p.OriginalResumeFileID, voiceProfile, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *PersonaRepository) GetByID(ctx context.Context, id string) (*model.Persona, error) {
	row := r.pool.QueryRow(ctx, baseSelect+" WHERE id = $1", id)
	p, err := scanPersona(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPersonaNotFound
	}
	return p, err
}

func (r *PersonaRepository) ListByUserID(ctx context.Context, userID string) ([]*model.Persona, error) {
	rows, err := r.pool.Query(ctx, baseSelect+" WHERE user_id = $1 ORDER BY created_at", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var personas []*model.Persona
	for rows.Next() {
		p, err := scanPersona(rows)
		if err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}
	return personas, rows.Err()
}

func (r *PersonaRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	args = append(args, id)
	i := 2
	for name, value := range fields {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", name, i))
		args = append(args, value)
		i++
	}
	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", i))
	args = append(args, time.Now().UTC())

	query := "UPDATE personas SET " + strings.Join(setClauses, ", ") + " WHERE id = $1"
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrPersonaNotFound
	}
	return nil
}

func (r *PersonaRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM personas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrPersonaNotFound
	}
	return nil
}

func (r *PersonaRepository) ListEligibleForSurfacing(ctx context.Context, limit int) ([]*model.Persona, error) {
	rows, err := r.pool.Query(ctx, baseSelect+" WHERE onboarding_complete = true ORDER BY id LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var personas []*model.Persona
	for rows.Next() {
		p, err := scanPersona(rows)
		if err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}
	return personas, rows.Err()
}

func (r *PersonaRepository) SkillsByPersonaID(ctx context.Context, personaID string) ([]*model.Skill, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, persona_id, skill_name, skill_type, category, proficiency, years_used, last_used, display_order
		FROM skills WHERE persona_id = $1 ORDER BY display_order
	`, personaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []*model.Skill
	for rows.Next() {
		s := &model.Skill{}
		if err := rows.Scan(&s.ID, &s.PersonaID, &s.SkillName, &s.SkillType, &s.Category, &s.Proficiency, &s.YearsUsed, &s.LastUsed, &s.DisplayOrder); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *PersonaRepository) CreateSkill(ctx context.Context, s *model.Skill) error {
	s.ID = uuid.New().String()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO skills (id, persona_id, skill_name, skill_type, category, proficiency, years_used, last_used, display_order)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, s.ID, s.PersonaID, s.SkillName, s.SkillType, s.Category, s.Proficiency, s.YearsUsed, s.LastUsed, s.DisplayOrder)
	return err
}

func (r *PersonaRepository) AchievementStoriesByPersonaID(ctx context.Context, personaID string) ([]*model.AchievementStory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, persona_id, title, context, action, outcome, skills_demonstrated, related_job_id, display_order
		FROM achievement_stories WHERE persona_id = $1 ORDER BY display_order
	`, personaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []*model.AchievementStory
	for rows.Next() {
		a := &model.AchievementStory{}
		var skills []byte
		if err := rows.Scan(&a.ID, &a.PersonaID, &a.Title, &a.Context, &a.Action, &a.Outcome, &skills, &a.RelatedJobID, &a.DisplayOrder); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(skills, &a.SkillsDemonstrated)
		stories = append(stories, a)
	}
	return stories, rows.Err()
}
