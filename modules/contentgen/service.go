// Package contentgen implements C10: the on-demand pipeline that turns
// a (persona, job) pair into a tailoring decision, an optional
// JobVariant, a selection of achievement stories, and an LLM-drafted
// cover letter. Grounded on spec.md §4.10; no original_source service
// file survived retrieval for this stage, so step ordering and the
// duplicate-check/freshness-check contract are taken directly from the
// spec.
package contentgen

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jobscout/scouter/internal/providers/llm"
	contentgenmodel "github.com/jobscout/scouter/modules/contentgen/model"
	personamodel "github.com/jobscout/scouter/modules/persona/model"
	personaports "github.com/jobscout/scouter/modules/persona/ports"
	poolmodel "github.com/jobscout/scouter/modules/pool/model"
	poolports "github.com/jobscout/scouter/modules/pool/ports"
	poollinkmodel "github.com/jobscout/scouter/modules/poollink/model"
	poollinkports "github.com/jobscout/scouter/modules/poollink/ports"
	resumesmodel "github.com/jobscout/scouter/modules/resumes/model"
	resumesports "github.com/jobscout/scouter/modules/resumes/ports"
)

// storySelectionLimit is step 5's top-K achievement story count.
const storySelectionLimit = 3

// lowScoreThreshold flags a fit component as a tailoring signal when it
// falls below this value.
const lowScoreThreshold = 60.0

type Service struct {
	baseResumes resumesports.BaseResumeRepository
	variants    resumesports.JobVariantRepository
	personas    personaports.PersonaRepository
	pool        poolports.PoolRepository
	links       poollinkports.PoolLinkRepository
	llmFor      func(userID string) llm.Provider
}

func NewService(
	baseResumes resumesports.BaseResumeRepository,
	variants resumesports.JobVariantRepository,
	personas personaports.PersonaRepository,
	pool poolports.PoolRepository,
	links poollinkports.PoolLinkRepository,
	llmFor func(userID string) llm.Provider,
) *Service {
	return &Service{
		baseResumes: baseResumes,
		variants:    variants,
		personas:    personas,
		pool:        pool,
		links:       links,
		llmFor:      llmFor,
	}
}

// Generate runs the full 8-step pipeline for one (persona, job) pair.
func (s *Service) Generate(ctx context.Context, userID, personaID, jobID string, trigger contentgenmodel.Trigger) (*contentgenmodel.Result, error) {
	persona, err := s.personas.GetByID(ctx, personaID)
	if err != nil {
		return nil, err
	}
	job, err := s.pool.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	baseResume, err := s.baseResumes.GetPrimary(ctx, personaID)
	if err != nil {
		return nil, contentgenmodel.ErrNoPrimaryBaseResume
	}

	// Step 1: duplicate check.
	if existing, err := s.variants.GetByBaseResumeAndJob(ctx, baseResume.ID, jobID); err == nil {
		switch existing.Status {
		case resumesmodel.VariantDraft:
			return nil, contentgenmodel.ErrVariantDraftExists
		case resumesmodel.VariantApproved:
			return nil, contentgenmodel.ErrVariantApproved
		}
	} else if !errors.Is(err, resumesmodel.ErrVariantNotFound) {
		return nil, err
	}

	result := &contentgenmodel.Result{Trigger: trigger, JobActive: job.IsActive && job.ExpiredAt == nil}

	// Step 3: evaluate tailoring need.
	skills, err := s.personas.SkillsByPersonaID(ctx, personaID)
	if err != nil {
		return nil, err
	}
	extracted, err := s.pool.ExtractedSkillsByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	link, linkErr := s.links.GetByPersonaAndJob(ctx, personaID, jobID)

	signals := s.evaluateTailoringSignals(skills, extracted, job, link, linkErr)
	result.TailoringSignals = signals
	result.TailoringAction = contentgenmodel.ActionUseBase
	if len(signals.MissingKeywords) > 0 || len(signals.LowScoreComponents) > 0 || signals.RoleTitleDivergent {
		result.TailoringAction = contentgenmodel.ActionCreateVariant
	}
	result.TailoringReasoning = tailoringReasoning(result.TailoringAction, signals)

	// Step 4: create variant (conditional).
	if result.TailoringAction == contentgenmodel.ActionCreateVariant {
		variant := &resumesmodel.JobVariant{
			BaseResumeID:             baseResume.ID,
			JobPostingID:             jobID,
			Summary:                  tailoredSummary(baseResume, signals),
			JobBulletOrder:           tailoredBulletOrder(baseResume, signals),
			ModificationsDescription: ptr(result.TailoringReasoning),
		}
		if err := s.variants.Create(ctx, variant); err != nil {
			return nil, err
		}
		result.VariantID = &variant.ID
	}

	// Step 5: select achievement stories.
	stories, err := s.personas.AchievementStoriesByPersonaID(ctx, personaID)
	if err != nil {
		return nil, err
	}
	selected := selectStories(stories, extracted, storySelectionLimit)
	for _, st := range selected {
		result.SelectedStoryIDs = append(result.SelectedStoryIDs, st.ID)
	}

	// Step 6: generate cover letter draft.
	content, err := s.draftCoverLetter(ctx, userID, persona, job, selected)
	if err != nil {
		return nil, err
	}
	result.CoverLetterContent = content

	// Step 7: freshness check.
	if !result.JobActive {
		warning := "this posting is no longer active; review before applying"
		result.ReviewWarning = &warning
	}

	// Step 8: reasoning explanation.
	result.AgentReasoning = s.buildReasoning(result, selected)

	return result, nil
}

func (s *Service) evaluateTailoringSignals(
	skills []*personamodel.Skill,
	extracted []*poolmodel.ExtractedSkill,
	job *poolmodel.JobPosting,
	link *poollinkmodel.PersonaJob,
	linkErr error,
) contentgenmodel.TailoringSignals {
	personaSkillNames := make(map[string]struct{}, len(skills))
	for _, sk := range skills {
		personaSkillNames[strings.ToLower(sk.SkillName)] = struct{}{}
	}

	var missing []string
	for _, req := range extracted {
		if !req.IsRequired {
			continue
		}
		if _, ok := personaSkillNames[strings.ToLower(req.SkillName)]; !ok {
			missing = append(missing, req.SkillName)
		}
	}

	var lowComponents []string
	if linkErr == nil && link != nil && link.ScoreDetails != nil {
		for name, score := range link.ScoreDetails.FitComponents {
			if score < lowScoreThreshold {
				lowComponents = append(lowComponents, name)
			}
		}
		sort.Strings(lowComponents)
	}

	roleTitleDivergent := false
	if linkErr == nil && link != nil && link.ScoreDetails != nil {
		if roleScore, ok := link.ScoreDetails.FitComponents["role_title"]; ok {
			roleTitleDivergent = roleScore < lowScoreThreshold
		}
	}

	return contentgenmodel.TailoringSignals{
		MissingKeywords:    missing,
		LowScoreComponents: lowComponents,
		RoleTitleDivergent: roleTitleDivergent,
	}
}

func tailoringReasoning(action contentgenmodel.TailoringAction, signals contentgenmodel.TailoringSignals) string {
	if action == contentgenmodel.ActionUseBase {
		return "the primary base resume already covers this posting's requirements closely enough"
	}
	var reasons []string
	if len(signals.MissingKeywords) > 0 {
		reasons = append(reasons, fmt.Sprintf("missing keywords: %s", strings.Join(signals.MissingKeywords, ", ")))
	}
	if len(signals.LowScoreComponents) > 0 {
		reasons = append(reasons, fmt.Sprintf("weak fit components: %s", strings.Join(signals.LowScoreComponents, ", ")))
	}
	if signals.RoleTitleDivergent {
		reasons = append(reasons, "role title diverges from the persona's target roles")
	}
	return "tailoring a variant because of " + strings.Join(reasons, "; ")
}

func tailoredSummary(baseResume *resumesmodel.BaseResume, signals contentgenmodel.TailoringSignals) string {
	if len(signals.MissingKeywords) == 0 {
		return baseResume.Summary
	}
	return baseResume.Summary + " Emphasizing: " + strings.Join(signals.MissingKeywords, ", ") + "."
}

// tailoredBulletOrder seeds the variant's bullet order from the base
// resume's current order; step 3's signals can reprioritize inside a
// job's bullet list, but a bullet's membership (which bullets belong
// to which job) is never invented here.
func tailoredBulletOrder(baseResume *resumesmodel.BaseResume, _ contentgenmodel.TailoringSignals) map[string][]string {
	order := make(map[string][]string, len(baseResume.JobBulletOrder))
	for jobID, bullets := range baseResume.JobBulletOrder {
		copied := make([]string, len(bullets))
		copy(copied, bullets)
		order[jobID] = copied
	}
	return order
}

// selectStories ranks achievement stories by how many of their
// demonstrated skills appear in the job's extracted skill set, and
// returns the top limit.
func selectStories(stories []*personamodel.AchievementStory, extracted []*poolmodel.ExtractedSkill, limit int) []*personamodel.AchievementStory {
	jobSkills := make(map[string]struct{}, len(extracted))
	for _, sk := range extracted {
		jobSkills[strings.ToLower(sk.SkillName)] = struct{}{}
	}

	type scored struct {
		story *personamodel.AchievementStory
		score int
	}
	ranked := make([]scored, 0, len(stories))
	for _, st := range stories {
		count := 0
		for _, demonstrated := range st.SkillsDemonstrated {
			if _, ok := jobSkills[strings.ToLower(demonstrated)]; ok {
				count++
			}
		}
		ranked = append(ranked, scored{story: st, score: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]*personamodel.AchievementStory, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.story)
	}
	return out
}

func (s *Service) draftCoverLetter(ctx context.Context, userID string, persona *personamodel.Persona, job *poolmodel.JobPosting, stories []*personamodel.AchievementStory) (string, error) {
	provider := s.llmFor(userID)

	var storyLines []string
	for _, st := range stories {
		storyLines = append(storyLines, fmt.Sprintf("- %s: %s -> %s -> %s", st.Title, st.Context, st.Action, st.Outcome))
	}

	voice := "professional and direct"
	if persona.VoiceProfile != nil && persona.VoiceProfile.Tone != "" {
		voice = persona.VoiceProfile.Tone
	}

	prompt := fmt.Sprintf(
		"Write a cover letter (250-400 words) for %s applying to %s at %s. Tone: %s.\nRelevant stories:\n%s\nJob description:\n%s",
		persona.FullName, job.JobTitle, job.CompanyName, voice, strings.Join(storyLines, "\n"), truncate(job.Description, 4000),
	)

	response, err := provider.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "You draft concise, specific cover letters grounded only in the stories provided."},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.TaskCoverLetter, llm.CompleteOptions{MaxTokens: 800, Temperature: 0.6})
	if err != nil {
		return "", err
	}
	return response.Content, nil
}

func (s *Service) buildReasoning(result *contentgenmodel.Result, stories []*personamodel.AchievementStory) string {
	var storyTitles []string
	for _, st := range stories {
		storyTitles = append(storyTitles, st.Title)
	}
	parts := []string{result.TailoringReasoning}
	if len(storyTitles) > 0 {
		parts = append(parts, "selected stories: "+strings.Join(storyTitles, ", "))
	}
	if result.ReviewWarning != nil {
		parts = append(parts, *result.ReviewWarning)
	}
	return strings.Join(parts, ". ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func ptr(s string) *string { return &s }
