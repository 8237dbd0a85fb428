package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jobscout/scouter/internal/providers/embedding"
	"github.com/jobscout/scouter/internal/providers/llm"
	"github.com/jobscout/scouter/internal/vectormath"
	personamodel "github.com/jobscout/scouter/modules/persona/model"
	personaports "github.com/jobscout/scouter/modules/persona/ports"
	poolmodel "github.com/jobscout/scouter/modules/pool/model"
	poolports "github.com/jobscout/scouter/modules/pool/ports"
	poollinkmodel "github.com/jobscout/scouter/modules/poollink/model"
	poollinkports "github.com/jobscout/scouter/modules/poollink/ports"
)

// maxBatchSize bounds score_batch per spec.md §4.9.
const maxBatchSize = 500

type Service struct {
	personas  personaports.PersonaRepository
	pool      poolports.PoolRepository
	links     poollinkports.PoolLinkRepository
	llmClient llm.Provider
	embedder  embedding.Provider
	now       func() time.Time
}

func NewService(personas personaports.PersonaRepository, pool poolports.PoolRepository, links poollinkports.PoolLinkRepository, llmClient llm.Provider, embedder embedding.Provider) *Service {
	return &Service{
		personas:  personas,
		pool:      pool,
		links:     links,
		llmClient: llmClient,
		embedder:  embedder,
		now:       time.Now,
	}
}

// ScoreJob scores a single job for a persona.
func (s *Service) ScoreJob(ctx context.Context, personaID, jobID string) (*Result, error) {
	results, err := s.ScoreBatch(ctx, personaID, []string{jobID})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("scoring: no result produced for job %s", jobID)
	}
	return results[0], nil
}

// ScoreBatch scores up to maxBatchSize jobs for a persona, generating
// persona embeddings exactly once for the whole batch.
func (s *Service) ScoreBatch(ctx context.Context, personaID string, jobIDs []string) ([]*Result, error) {
	if len(jobIDs) > maxBatchSize {
		jobIDs = jobIDs[:maxBatchSize]
	}

	persona, err := s.personas.GetByID(ctx, personaID)
	if err != nil {
		return nil, err
	}
	skills, err := s.personas.SkillsByPersonaID(ctx, personaID)
	if err != nil {
		return nil, err
	}

	jobs := make([]*poolmodel.JobPosting, 0, len(jobIDs))
	for _, id := range jobIDs {
		job, err := s.pool.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	personaVecs, jobTitleVecs, err := s.embedBatch(ctx, persona, skills, jobs)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(jobs))
	for i, job := range jobs {
		extracted, err := s.pool.ExtractedSkillsByJobID(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		jobEmbeddings, err := s.pool.EmbeddingsByJobID(ctx, job.ID)
		if err != nil {
			return nil, err
		}

		result := s.scoreOne(ctx, persona, skills, extracted, job, jobEmbeddings, personaVecs, jobTitleVecs[i])
		results = append(results, result)

		if err := s.persist(ctx, personaID, result); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// RescoreAllDiscovered re-runs ScoreBatch over every link a persona
// currently has in the Discovered status.
func (s *Service) RescoreAllDiscovered(ctx context.Context, personaID string) ([]*Result, error) {
	links, _, err := s.links.List(ctx, personaID, string(poollinkmodel.StatusDiscovered), maxBatchSize, 0)
	if err != nil {
		return nil, err
	}
	jobIDs := make([]string, 0, len(links))
	for _, link := range links {
		jobIDs = append(jobIDs, link.JobPostingID)
	}
	if len(jobIDs) == 0 {
		return nil, nil
	}
	return s.ScoreBatch(ctx, personaID, jobIDs)
}

type personaVectors struct {
	hardSkills []float32
	softSkills []float32
	roleTitle  []float32
}

// embedBatch issues exactly one embedding call covering the persona's
// three comparison texts plus every job title in the batch. Splitting
// this into per-job calls would make scoring cost linear in jobs times
// embeddings, the regression spec.md §4.9 step 1 calls out explicitly.
func (s *Service) embedBatch(ctx context.Context, persona *personamodel.Persona, skills []*personamodel.Skill, jobs []*poolmodel.JobPosting) (personaVectors, [][]float32, error) {
	texts := []string{
		hardSkillsText(skills),
		softSkillsText(skills),
		strings.Join(persona.TargetRoles, ", "),
	}
	for _, job := range jobs {
		texts = append(texts, job.JobTitle)
	}

	result, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return personaVectors{}, nil, err
	}
	if len(result.Vectors) != len(texts) {
		return personaVectors{}, nil, fmt.Errorf("scoring: embedding provider returned %d vectors for %d texts", len(result.Vectors), len(texts))
	}

	vecs := personaVectors{
		hardSkills: result.Vectors[0],
		softSkills: result.Vectors[1],
		roleTitle:  result.Vectors[2],
	}
	return vecs, result.Vectors[3:], nil
}

func hardSkillsText(skills []*personamodel.Skill) string {
	var names []string
	for _, sk := range skills {
		if sk.SkillType == personamodel.SkillHard {
			names = append(names, sk.SkillName)
		}
	}
	return strings.Join(names, ", ")
}

func softSkillsText(skills []*personamodel.Skill) string {
	var names []string
	for _, sk := range skills {
		if sk.SkillType == personamodel.SkillSoft {
			names = append(names, sk.SkillName)
		}
	}
	return strings.Join(names, ", ")
}

func (s *Service) scoreOne(ctx context.Context, persona *personamodel.Persona, skills []*personamodel.Skill, extracted []*poolmodel.ExtractedSkill, job *poolmodel.JobPosting, jobEmbeddings []*poolmodel.JobEmbedding, personaVecs personaVectors, jobTitleVec []float32) *Result {
	result := &Result{JobPostingID: job.ID}

	if failed := nonNegotiableFailures(persona, job); len(failed) > 0 {
		result.Filtered = true
		result.FailedFilters = failed
		return result
	}

	skillNames := make([]string, 0, len(skills))
	for _, sk := range skills {
		skillNames = append(skillNames, sk.SkillName)
	}

	requirementsVec := embeddingForType(jobEmbeddings, "requirements")
	cultureVec := embeddingForType(jobEmbeddings, "culture")

	hardCosine := vectormath.CosineSimilarity(personaVecs.hardSkills, requirementsVec)
	hardKeyword := ScoreKeywordOverlap(job.JobTitle, job.Description, skillNames)
	hardSkillsScore := (hardCosine + hardKeyword) / 2

	softSkillsScore := FitNeutralScore
	if len(cultureVec) > 0 {
		softSkillsScore = vectormath.CosineSimilarity(personaVecs.softSkills, cultureVec)
	}

	experienceScore := ScoreExperienceAlignment(persona.YearsExperience, job.YearsExperienceMin, job.YearsExperienceMax)

	roleTitleScore := FitNeutralScore
	if len(jobTitleVec) > 0 && len(personaVecs.roleTitle) > 0 {
		roleTitleScore = vectormath.CosineSimilarity(personaVecs.roleTitle, jobTitleVec)
	}

	preference := (*string)(nil)
	if persona.RemotePreference != "" {
		pref := string(persona.RemotePreference)
		preference = &pref
	}
	locationScore := ScoreWorkModelAlignment(preference, job.WorkModel)

	fitComponents := map[string]float64{
		"hard_skills":         hardSkillsScore,
		"soft_skills":         softSkillsScore,
		"experience_level":    experienceScore,
		"role_title":          roleTitleScore,
		"location_logistics":  locationScore,
	}
	fitScore := hardSkillsScore*weightHardSkills +
		softSkillsScore*weightSoftSkills +
		experienceScore*weightExperienceLevel +
		roleTitleScore*weightRoleTitle +
		locationScore*weightLocationLogistics

	stretchComponents, stretchScore := s.scoreStretch(persona, job, roleTitleScore, skillNames)

	result.FitScore = roundScore(fitScore)
	result.FitComponents = fitComponents
	result.StretchScore = roundScore(stretchScore)
	result.StretchComponents = stretchComponents
	result.Rationale = s.rationale(ctx, persona, job, result.FitScore)

	return result
}

// scoreStretch computes the secondary score that surfaces jobs slightly
// beyond a persona's stated fit, rewarding alignment with stated
// growth targets over raw present-day match.
func (s *Service) scoreStretch(persona *personamodel.Persona, job *poolmodel.JobPosting, roleTitleScore float64, skillNames []string) (map[string]float64, float64) {
	targetRoleScore := roleTitleScore

	targetSkillsScore := ScoreKeywordOverlap(job.JobTitle, job.Description, persona.TargetSkills)
	if len(persona.TargetSkills) == 0 {
		targetSkillsScore = FitNeutralScore
	}

	growthScore := FitNeutralScore
	if persona.YearsExperience != nil && job.YearsExperienceMax != nil && *job.YearsExperienceMax > *persona.YearsExperience {
		growthScore = 100
	}

	components := map[string]float64{
		"target_role":       targetRoleScore,
		"target_skills":     targetSkillsScore,
		"growth_trajectory": growthScore,
	}
	score := targetRoleScore*weightTargetRole + targetSkillsScore*weightTargetSkills + growthScore*weightGrowthTrajectory
	return components, score
}

// rationale invokes the score_rationale LLM task for a job that clears
// RationaleThreshold, falling back to a templated message on failure.
// Below threshold, no LLM call is made at all.
func (s *Service) rationale(ctx context.Context, persona *personamodel.Persona, job *poolmodel.JobPosting, fitScore int) string {
	if fitScore < RationaleThreshold {
		return fmt.Sprintf("%s at %s scored below your match threshold; it may be worth a second look but isn't a strong alignment with your stated targets.", job.JobTitle, job.CompanyName)
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: rationaleSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf("Persona target roles: %s\nPersona target skills: %s\nJob title: %s\nCompany: %s\nJob description: %s\nFit score: %d",
			strings.Join(persona.TargetRoles, ", "), strings.Join(persona.TargetSkills, ", "), job.JobTitle, job.CompanyName, truncate(job.Description, 4000), fitScore)},
	}
	resp, err := s.llmClient.Complete(ctx, messages, llm.TaskScoreRationale, llm.CompleteOptions{MaxTokens: 300})
	if err != nil {
		return fmt.Sprintf("%s at %s is a strong match (score %d) based on your target roles and skills.", job.JobTitle, job.CompanyName, fitScore)
	}
	return resp.Content
}

const rationaleSystemPrompt = `You are explaining to a job seeker why a posting matches their stated preferences. Write one concise paragraph, second person, grounded only in the facts given.`

func (s *Service) persist(ctx context.Context, personaID string, result *Result) error {
	link, err := s.links.GetByPersonaAndJob(ctx, personaID, result.JobPostingID)
	if err != nil {
		return err
	}

	scoreResult := &poollinkmodel.ScoreResult{
		FailedNonNegotiables: result.FailedFilters,
		ScoredAt:             s.now().UTC(),
	}
	if !result.Filtered {
		fit := result.FitScore
		stretch := result.StretchScore
		rationale := result.Rationale
		scoreResult.FitScore = &fit
		scoreResult.StretchScore = &stretch
		scoreResult.ScoreRationale = &rationale
		scoreResult.ScoreDetails = &poollinkmodel.ScoreDetails{
			FitComponents:     result.FitComponents,
			StretchComponents: result.StretchComponents,
			Explanation:       result.Rationale,
		}
	}

	return s.links.RecordScore(ctx, personaID, link.ID, scoreResult)
}

func embeddingForType(embeddings []*poolmodel.JobEmbedding, embeddingType string) []float32 {
	for _, e := range embeddings {
		if e.Type == embeddingType {
			return e.Vector
		}
	}
	return nil
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

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
