// Package enrichment implements C2: per-batch skill/culture extraction
// and ghost-likelihood scoring for freshly pooled job postings. Both
// sub-stages are isolated per job — one bad description must not sink
// the whole batch. Grounded on spec.md §4.2; no original_source service
// file survived retrieval for this stage, so the extraction contract is
// taken directly from the spec's described request/response shape.
package enrichment

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/jobscout/scouter/internal/providers/llm"
	"github.com/jobscout/scouter/modules/pool/model"
)

// maxDescriptionChars bounds what is sent to the LLM per job; this is
// independent of textsim.MaxSimilarityDescLength, which bounds the
// dedup similarity comparison instead.
const maxDescriptionChars = 15_000

// Ghost-scoring weights. Preserved as tunable named constants rather
// than inlined literals — original_source's own comment calls these
// source-specific heuristics, not fixed law.
const (
	ghostWeightDaysSincePosted = 40
	ghostWeightRepostCount     = 35
	ghostWeightStaleness       = 25

	staleDaysThreshold    = 45
	maxDaysSincePostedCap = 90
	maxRepostCountCap     = 5
)

type extractionResponse struct {
	RequiredSkills []skillField `json:"required_skills"`
	PreferredSkills []skillField `json:"preferred_skills"`
	CultureText    string       `json:"culture_text"`
}

type skillField struct {
	Name           string `json:"name"`
	YearsRequested *int   `json:"years_requested,omitempty"`
}

// EnrichedJob is the per-job enrichment outcome: the extracted skills
// (empty on extraction failure), the ghost score (always computed,
// since it depends only on posting metadata, not the LLM), and an
// error marker for observability — DeduplicateAndSave/fetch callers
// decide whether a failed extraction still proceeds to persistence.
type EnrichedJob struct {
	JobPostingID     string
	RequiredSkills   []model.ExtractedSkill
	PreferredSkills  []model.ExtractedSkill
	CultureText      string
	ExtractionFailed bool
	GhostScore       int
	GhostSignals     model.GhostSignals
}

type Service struct {
	provider llm.Provider
	now      func() time.Time
}

func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider, now: time.Now}
}

// EnrichJobs runs extraction and ghost scoring for every posting in the
// batch. A single job's extraction failure never aborts the others.
func (s *Service) EnrichJobs(ctx context.Context, jobs []*model.JobPosting) []EnrichedJob {
	results := make([]EnrichedJob, len(jobs))
	for i, job := range jobs {
		results[i] = s.enrichOne(ctx, job)
	}
	return results
}

func (s *Service) enrichOne(ctx context.Context, job *model.JobPosting) EnrichedJob {
	result := EnrichedJob{JobPostingID: job.ID}

	required, preferred, culture, err := s.extract(ctx, job.Description)
	if err != nil {
		result.ExtractionFailed = true
	} else {
		result.RequiredSkills = required
		result.PreferredSkills = preferred
		result.CultureText = culture
	}

	result.GhostScore, result.GhostSignals = s.scoreGhost(job)
	return result
}

func (s *Service) extract(ctx context.Context, description string) ([]model.ExtractedSkill, []model.ExtractedSkill, string, error) {
	cleaned := truncateForExtraction(description)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: extractionSystemPrompt},
		{Role: llm.RoleUser, Content: cleaned},
	}

	resp, err := s.provider.Complete(ctx, messages, llm.TaskExtraction, llm.CompleteOptions{JSONMode: true, MaxTokens: 1024})
	if err != nil {
		return nil, nil, "", err
	}

	var parsed extractionResponse
	if err := json.Unmarshal([]byte(resp.Content), &parsed); err != nil {
		return nil, nil, "", err
	}

	return toExtractedSkills(parsed.RequiredSkills, true),
		toExtractedSkills(parsed.PreferredSkills, false),
		parsed.CultureText,
		nil
}

func toExtractedSkills(fields []skillField, required bool) []model.ExtractedSkill {
	skills := make([]model.ExtractedSkill, 0, len(fields))
	for _, f := range fields {
		skills = append(skills, model.ExtractedSkill{
			SkillName:      f.Name,
			SkillType:      "Hard",
			IsRequired:     required,
			YearsRequested: f.YearsRequested,
		})
	}
	return skills
}

// scoreGhost computes a deterministic [0,100] likelihood that a posting
// is a ghost listing, from signals already on the row — no LLM call.
func (s *Service) scoreGhost(job *model.JobPosting) (int, model.GhostSignals) {
	daysSincePosted := 0
	if job.PostedDate != nil {
		daysSincePosted = int(s.now().UTC().Sub(*job.PostedDate).Hours() / 24)
	}
	isStale := daysSincePosted >= staleDaysThreshold

	signals := model.GhostSignals{
		DaysSincePosted: daysSincePosted,
		RepostCount:     job.RepostCount,
		IsStale:         isStale,
	}

	daysFactor := capRatio(daysSincePosted, maxDaysSincePostedCap)
	repostFactor := capRatio(job.RepostCount, maxRepostCountCap)
	staleFactor := 0.0
	if isStale {
		staleFactor = 1.0
	}

	score := ghostWeightDaysSincePosted*daysFactor + ghostWeightRepostCount*repostFactor + ghostWeightStaleness*staleFactor
	if score > 100 {
		score = 100
	}
	return int(score), signals
}

func capRatio(value, cap int) float64 {
	if cap <= 0 {
		return 0
	}
	if value >= cap {
		return 1.0
	}
	return float64(value) / float64(cap)
}

// truncateForExtraction applies spec.md §4.2's two transforms: strip
// zero-width characters (a common scraped-HTML artifact that inflates
// token count without adding signal) then truncate to 15,000 chars.
func truncateForExtraction(description string) string {
	cleaned := strings.Map(func(r rune) rune {
		if isZeroWidth(r) {
			return -1
		}
		return r
	}, description)

	runes := []rune(cleaned)
	if len(runes) > maxDescriptionChars {
		runes = runes[:maxDescriptionChars]
	}
	return string(runes)
}

func isZeroWidth(r rune) bool {
	switch r {
	case '​', '‌', '‍', '﻿':
		return true
	}
	return unicode.Is(unicode.Cf, r)
}

const extractionSystemPrompt = `You extract structured information from a job posting description.
Respond with JSON only, matching this shape exactly:
{"required_skills": [{"name": string, "years_requested": number|null}], "preferred_skills": [...], "culture_text": string}
required_skills are skills explicitly stated as required or must-have. preferred_skills are nice-to-have or bonus skills.
culture_text is a short summary of any stated team culture, values, or work environment description; empty string if none.`
