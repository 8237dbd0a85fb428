// Package surfacing implements C11: the periodic pass that surfaces
// newly pooled jobs to personas nobody has linked them to yet, using a
// cheap keyword-and-heuristic score instead of the full LLM/embedding
// pipeline C9 runs on demand. Grounded on spec.md §4.11; the lightweight
// scoring itself reuses modules/scoring's pure component functions,
// per that package's own doc comment anticipating this reuse.
package surfacing

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	personamodel "github.com/jobscout/scouter/modules/persona/model"
	personaports "github.com/jobscout/scouter/modules/persona/ports"
	poolmodel "github.com/jobscout/scouter/modules/pool/model"
	poolports "github.com/jobscout/scouter/modules/pool/ports"
	poollinkmodel "github.com/jobscout/scouter/modules/poollink/model"
	poollinkports "github.com/jobscout/scouter/modules/poollink/ports"
	"github.com/jobscout/scouter/modules/scoring"
	"github.com/jobscout/scouter/modules/surfacing/model"
)

// Bounds from spec.md §4.11 steps 2-4.
const (
	maxCandidateJobs      = 50
	maxEligiblePersonas   = 500
	maxPersonasPerJob     = 100
	firstRunLookback      = 24 * time.Hour
	quarantineTTL         = 72 * time.Hour
)

type Service struct {
	pool     poolports.PoolRepository
	personas personaports.PersonaRepository
	links    poollinkports.PoolLinkRepository

	// lastPassStartedAt tracks the window boundary across passes: each
	// pass reads postings first seen at or after the previous pass's
	// start, so a posting on the boundary can be evaluated twice, which
	// the existing-link check makes harmless. A single worker instance per process is assumed, so this needs
	// no locking beyond the worker's own sequential loop.
	lastPassStartedAt time.Time
}

func NewService(pool poolports.PoolRepository, personas personaports.PersonaRepository, links poollinkports.PoolLinkRepository) *Service {
	return &Service{pool: pool, personas: personas, links: links}
}

// RunPass executes one full surfacing pass: release expired
// quarantines, load candidates and eligible personas, then evaluate
// every (job, persona) pair within the per-job persona cap.
func (s *Service) RunPass(ctx context.Context) (*model.Stats, error) {
	passStartedAt := time.Now().UTC()
	since := s.lastPassStartedAt
	if since.IsZero() {
		since = passStartedAt.Add(-firstRunLookback)
	}

	stats := &model.Stats{}

	released, err := s.pool.ReleaseExpiredQuarantines(ctx, quarantineTTL)
	if err != nil {
		return nil, err
	}
	stats.QuarantinesReleased = released

	candidates, err := s.pool.ListRecentActive(ctx, since, maxCandidateJobs)
	if err != nil {
		return nil, err
	}

	personas, err := s.personas.ListEligibleForSurfacing(ctx, maxEligiblePersonas)
	if err != nil {
		return nil, err
	}

	personaSkills := make(map[string][]*personamodel.Skill, len(personas))
	for _, persona := range personas {
		skills, err := s.personas.SkillsByPersonaID(ctx, persona.ID)
		if err != nil {
			return nil, err
		}
		personaSkills[persona.ID] = skills
	}

	for _, job := range candidates {
		stats.JobsProcessed++

		evaluated := 0
		for _, persona := range personas {
			if evaluated >= maxPersonasPerJob {
				break
			}
			evaluated++

			if err := s.evaluatePair(ctx, persona, personaSkills[persona.ID], job, stats); err != nil {
				return nil, err
			}
		}
	}

	s.lastPassStartedAt = passStartedAt
	return stats, nil
}

func (s *Service) evaluatePair(ctx context.Context, persona *personamodel.Persona, skills []*personamodel.Skill, job *poolmodel.JobPosting, stats *model.Stats) error {
	exists, err := s.links.ExistsForJob(ctx, persona.ID, job.ID)
	if err != nil {
		return err
	}
	if exists {
		stats.LinksSkippedExisting++
		return nil
	}

	skillNames := make([]string, 0, len(skills))
	for _, sk := range skills {
		skillNames = append(skillNames, sk.SkillName)
	}
	if !scoring.KeywordPreScreen(job.JobTitle, job.Description, skillNames) {
		return nil
	}

	fitScore := s.lightweightFitScore(persona, skillNames, job)
	if fitScore < persona.MinimumFitThreshold {
		stats.LinksSkippedThreshold++
		return nil
	}

	if err := s.createLinkWithConflictRecovery(ctx, persona.ID, job.ID, fitScore); err != nil {
		return err
	}
	stats.LinksCreated++
	return nil
}

// lightweightFitScore mirrors C9's fit-score weighting exactly, but
// substitutes scoring.FitNeutralScore for the two components that
// require embeddings (soft_skills, role_title), per spec.md §4.11
// step 4.
func (s *Service) lightweightFitScore(persona *personamodel.Persona, skillNames []string, job *poolmodel.JobPosting) int {
	hardSkillsScore := scoring.ScoreKeywordOverlap(job.JobTitle, job.Description, skillNames)
	experienceScore := scoring.ScoreExperienceAlignment(persona.YearsExperience, job.YearsExperienceMin, job.YearsExperienceMax)

	preference := (*string)(nil)
	if persona.RemotePreference != "" {
		pref := string(persona.RemotePreference)
		preference = &pref
	}
	locationScore := scoring.ScoreWorkModelAlignment(preference, job.WorkModel)

	score := hardSkillsScore*scoring.WeightHardSkills +
		scoring.FitNeutralScore*scoring.WeightSoftSkills +
		experienceScore*scoring.WeightExperienceLevel +
		scoring.FitNeutralScore*scoring.WeightRoleTitle +
		locationScore*scoring.WeightLocationLogistics

	return roundScore(score)
}

// createLinkWithConflictRecovery recovers from a unique violation the
// way pooldedup does, without a savepoint or transaction: a uniqueness violation on (persona_id, job_posting_id)
// means a concurrent pass already linked this pair, so the loser
// simply treats it as already-existing rather than failing the pass.
func (s *Service) createLinkWithConflictRecovery(ctx context.Context, personaID, jobID string, fitScore int) error {
	fit := fitScore
	scoredAt := time.Now().UTC()
	link := &poollinkmodel.PersonaJob{
		PersonaID:       personaID,
		JobPostingID:    jobID,
		Status:          poollinkmodel.StatusDiscovered,
		DiscoveryMethod: poollinkmodel.DiscoveryPool,
		FitScore:        &fit,
		ScoredAt:        &scoredAt,
	}
	err := s.links.Create(ctx, link)
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) || errors.Is(err, poollinkmodel.ErrLinkAlreadyExists) {
		return nil
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func roundScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v + 0.5)
}
