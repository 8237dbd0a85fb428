// Package service implements C6: the job-fetch orchestrator that polls
// a persona's enabled sources in parallel, feeds new postings through
// dedup and enrichment, and links every resulting posting to the
// persona. Grounded on
// original_source/backend/app/services/job_fetch_service.py's
// run_poll/fetch_from_sources/_partition_jobs/_save_new_jobs/
// _link_existing_jobs shape.
package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jobscout/scouter/internal/providers/source"
	"github.com/jobscout/scouter/modules/enrichment"
	fetchmodel "github.com/jobscout/scouter/modules/fetch/model"
	"github.com/jobscout/scouter/modules/fetch/ports"
	poolmodel "github.com/jobscout/scouter/modules/pool/model"
	poolports "github.com/jobscout/scouter/modules/pool/ports"
	"github.com/jobscout/scouter/modules/pooldedup"
	poollinkmodel "github.com/jobscout/scouter/modules/poollink/model"
	poollinkports "github.com/jobscout/scouter/modules/poollink/ports"
)

// resultsPerPage bounds how many postings a single adapter call asks
// for per poll.
const resultsPerPage = 50

type Service struct {
	pollRepo       ports.PollConfigRepository
	poolRepo       poolports.PoolRepository
	linkRepo       poollinkports.PoolLinkRepository
	dedup          *pooldedup.Service
	enrichmentSvc  *enrichment.Service
	adapters       map[string]source.Adapter
	keywordsFor    func(ctx context.Context, personaID string) ([]string, error)
}

func NewService(
	pollRepo ports.PollConfigRepository,
	poolRepo poolports.PoolRepository,
	linkRepo poollinkports.PoolLinkRepository,
	dedup *pooldedup.Service,
	enrichmentSvc *enrichment.Service,
	adapters map[string]source.Adapter,
	keywordsForPersona func(ctx context.Context, personaID string) ([]string, error),
) *Service {
	return &Service{
		pollRepo:      pollRepo,
		poolRepo:      poolRepo,
		linkRepo:      linkRepo,
		dedup:         dedup,
		enrichmentSvc: enrichmentSvc,
		adapters:      adapters,
		keywordsFor:   keywordsForPersona,
	}
}

// sourceRawJob pairs a raw job with the source_id it came from, so the
// dedup step can tell "same source re-encounter" from "different
// source, same posting".
type sourceRawJob struct {
	sourceID string
	job      source.RawJob
}

// RunPoll executes one full poll cycle for a persona: fetch, dedup,
// enrich, link, reschedule.
func (s *Service) RunPoll(ctx context.Context, personaID string) (*fetchmodel.PollResult, error) {
	config, err := s.pollRepo.GetByPersonaID(ctx, personaID)
	if err != nil {
		return nil, err
	}

	keywords, err := s.keywordsFor(ctx, personaID)
	if err != nil {
		return nil, err
	}

	result := &fetchmodel.PollResult{PersonaID: personaID, SourcesPolled: config.EnabledSources}

	rawJobs, errorSources, errorMessages := s.fetchFromSources(ctx, config.EnabledSources, keywords)
	result.ErrorSources = errorSources
	result.ErrorMessages = errorMessages
	result.JobsFetched = len(rawJobs)

	// Partition: run the 4-step match against the pool for every raw
	// job first, without enriching anything yet. This separates
	// "is this posting new to the pool" (a per-job decision that must
	// run before enrichment can know what's new) from "enrich the new
	// ones", which must happen once across the whole batch.
	dedupResults := make([]*pooldedup.Result, 0, len(rawJobs))
	for _, entry := range rawJobs {
		dedupResult, err := s.dedup.DeduplicateAndSave(ctx, entry.job, entry.sourceID)
		if err != nil {
			result.ErrorMessages = append(result.ErrorMessages, err.Error())
			continue
		}
		dedupResults = append(dedupResults, dedupResult)
	}

	newJobs := make([]*poolmodel.JobPosting, 0, len(dedupResults))
	for _, dedupResult := range dedupResults {
		if dedupResult.Outcome == pooldedup.OutcomeCreated || dedupResult.Outcome == pooldedup.OutcomeRepost {
			result.JobsNew++
			newJobs = append(newJobs, dedupResult.JobPosting)
		}
	}

	if len(newJobs) > 0 {
		enriched := s.persistEnrichment(ctx, newJobs)
		result.JobsEnriched = enriched
	}

	for _, dedupResult := range dedupResults {
		if err := s.ensureLink(ctx, personaID, dedupResult.JobPosting.ID); err != nil {
			result.ErrorMessages = append(result.ErrorMessages, err.Error())
			continue
		}
		result.JobsLinked++
	}

	now := time.Now().UTC()
	config.LastPolledAt = &now
	config.NextPollAt = config.Frequency.NextPollAt(now)
	if err := s.pollRepo.Upsert(ctx, config); err != nil {
		return result, err
	}

	return result, nil
}

// fetchFromSources runs one adapter call per enabled source in
// parallel via errgroup, isolating a single source's failure from the
// rest — mirrors fetch_from_sources's asyncio.gather(return_exceptions=True).
func (s *Service) fetchFromSources(ctx context.Context, enabledSources []string, keywords []string) ([]sourceRawJob, []string, []string) {
	type outcome struct {
		sourceID string
		jobs     []source.RawJob
		err      error
	}

	outcomes := make([]outcome, len(enabledSources))
	g, gctx := errgroup.WithContext(ctx)

	for i, sourceID := range enabledSources {
		i, sourceID := i, sourceID
		adapter, ok := s.adapters[sourceID]
		if !ok {
			outcomes[i] = outcome{sourceID: sourceID, err: source.NewError(source.ErrAuth, "no adapter registered for source "+sourceID, nil)}
			continue
		}
		g.Go(func() error {
			jobs, err := adapter.FetchJobs(gctx, source.SearchParams{Keywords: keywords, ResultsPerPage: resultsPerPage})
			outcomes[i] = outcome{sourceID: sourceID, jobs: jobs, err: err}
			return nil // per-source errors are isolated, never abort the group
		})
	}
	_ = g.Wait()

	var rawJobs []sourceRawJob
	var errorSources, errorMessages []string
	for _, o := range outcomes {
		if o.err != nil {
			errorSources = append(errorSources, o.sourceID)
			errorMessages = append(errorMessages, o.err.Error())
			continue
		}
		for _, j := range o.jobs {
			rawJobs = append(rawJobs, sourceRawJob{sourceID: o.sourceID, job: j})
		}
	}
	return rawJobs, errorSources, errorMessages
}

// persistEnrichment runs C2 once across every newly pooled job in this
// poll, then persists each job's extracted skills and ghost score.
// A single job's enrichment failure (surfaced as a zero-value result by
// EnrichJobs) never blocks persisting the rest of the batch.
func (s *Service) persistEnrichment(ctx context.Context, jobs []*poolmodel.JobPosting) int {
	enriched := s.enrichmentSvc.EnrichJobs(ctx, jobs)
	persisted := 0
	for i, result := range enriched {
		if i >= len(jobs) {
			break
		}
		job := jobs[i]

		skills := make([]*poolmodel.ExtractedSkill, 0, len(result.RequiredSkills)+len(result.PreferredSkills))
		for j := range result.RequiredSkills {
			skills = append(skills, &result.RequiredSkills[j])
		}
		for j := range result.PreferredSkills {
			skills = append(skills, &result.PreferredSkills[j])
		}
		if len(skills) > 0 {
			if err := s.poolRepo.CreateExtractedSkills(ctx, job.ID, skills); err != nil {
				continue
			}
		}
		if err := s.poolRepo.UpdateGhostScore(ctx, job.ID, result.GhostScore, result.GhostSignals); err != nil {
			continue
		}
		persisted++
	}
	return persisted
}

func (s *Service) ensureLink(ctx context.Context, personaID, jobPostingID string) error {
	_, err := s.linkRepo.GetByPersonaAndJob(ctx, personaID, jobPostingID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, poollinkmodel.ErrPersonaJobNotFound) {
		return err
	}
	return s.linkRepo.Create(ctx, &poollinkmodel.PersonaJob{PersonaID: personaID, JobPostingID: jobPostingID})
}
