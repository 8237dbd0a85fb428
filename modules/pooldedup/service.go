// Package pooldedup implements the global dedup pipeline C4 needs
// before a freshly fetched job can enter the shared pool: is this the
// same posting re-encountered on its original source, on a new source,
// reposted under a new external id, or genuinely new. Grounded on
// original_source/backend/app/services/global_dedup_service.py.
package pooldedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jobscout/scouter/internal/providers/source"
	"github.com/jobscout/scouter/internal/textsim"
	"github.com/jobscout/scouter/modules/pool/model"
	"github.com/jobscout/scouter/modules/pool/ports"
)

// similarityLookback bounds how far back GetByCompanyForSimilarity
// looks for a repost candidate; a job reposted six months later reads
// as new, not a repost.
const similarityLookback = 30 * 24 * time.Hour

type Outcome string

const (
	OutcomeCreated               Outcome = "created"
	OutcomeUpdatedSameSource     Outcome = "updated_same_source"
	OutcomeLinkedAdditionalSource Outcome = "linked_additional_source"
	OutcomeRepost                Outcome = "repost"
)

type Result struct {
	JobPosting *model.JobPosting
	Outcome    Outcome
}

type Service struct {
	repo ports.PoolRepository
}

func NewService(repo ports.PoolRepository) *Service {
	return &Service{repo: repo}
}

// DeduplicateAndSave runs the 4-step pipeline for one freshly fetched
// raw job against a single sourceID, returning the canonical
// JobPosting row (existing or newly created) and which branch fired.
func (s *Service) DeduplicateAndSave(ctx context.Context, raw source.RawJob, sourceID string) (*Result, error) {
	descriptionHash := hashDescription(raw.Description)

	// Step 1: same source, same external id — this is a re-poll seeing
	// a posting it already knows about. Refresh the mutable fields.
	if existing, err := s.repo.GetBySourceAndExternalID(ctx, sourceID, raw.ExternalID); err == nil {
		if err := s.repo.Update(ctx, existing.ID, sourceUpdateFields(raw, descriptionHash)); err != nil {
			return nil, err
		}
		existing, err = s.repo.GetByID(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		return &Result{JobPosting: existing, Outcome: OutcomeUpdatedSameSource}, nil
	} else if !errors.Is(err, model.ErrJobPostingNotFound) {
		return nil, err
	}

	// Step 2: identical description already in the pool under a
	// different source — same posting, syndicated. Record the new
	// source rather than creating a duplicate row.
	if existing, err := s.repo.GetByDescriptionHash(ctx, descriptionHash); err == nil {
		entry := model.SourceEntry{SourceID: sourceID, FoundAt: time.Now().UTC()}
		if raw.ExternalID != "" {
			id := raw.ExternalID
			entry.ExternalID = &id
		}
		if raw.SourceURL != "" {
			url := raw.SourceURL
			entry.SourceURL = &url
		}
		if err := s.repo.MergeAlsoFoundOn(ctx, existing.ID, entry); err != nil {
			return nil, err
		}
		existing, err = s.repo.GetByID(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		return &Result{JobPosting: existing, Outcome: OutcomeLinkedAdditionalSource}, nil
	} else if !errors.Is(err, model.ErrJobPostingNotFound) {
		return nil, err
	}

	// Step 3: fuzzy match against the same company's recent postings —
	// catches a repost under a brand new external id and description.
	if match, err := s.findSimilarityMatch(ctx, raw); err != nil {
		return nil, err
	} else if match != nil {
		created, err := s.createWithConflictRecovery(ctx, raw, sourceID, descriptionHash)
		if err != nil {
			return nil, err
		}
		if err := s.repo.AppendRepost(ctx, created.JobPosting.ID, match.ID); err != nil {
			return nil, err
		}
		if err := s.repo.Deactivate(ctx, match.ID); err != nil {
			return nil, err
		}
		created.Outcome = OutcomeRepost
		return created, nil
	}

	// Step 4: nothing matched — genuinely new posting.
	return s.createWithConflictRecovery(ctx, raw, sourceID, descriptionHash)
}

// findSimilarityMatch mirrors _find_similarity_match: a HIGH-confidence
// title+description match returns immediately, a MEDIUM match is kept
// as the best-so-far candidate and returned only if nothing stronger
// turns up.
func (s *Service) findSimilarityMatch(ctx context.Context, raw source.RawJob) (*model.JobPosting, error) {
	candidates, err := s.repo.GetByCompanyForSimilarity(ctx, raw.Company, time.Now().UTC().Add(-similarityLookback))
	if err != nil {
		return nil, err
	}

	var best *model.JobPosting
	bestScore := 0.0
	for _, candidate := range candidates {
		if !textsim.IsSimilarTitle(raw.Title, candidate.JobTitle) {
			continue
		}
		score := textsim.DescriptionSimilarity(raw.Description, candidate.Description)
		if score >= textsim.SimilarityThresholdHigh {
			return candidate, nil
		}
		if score >= textsim.SimilarityThresholdMedium && score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, nil
}

// createWithConflictRecovery mirrors _create_with_conflict_recovery: a
// concurrent poll of the same source can race this one to the unique
// (source_id, external_id) constraint. On that specific conflict,
// re-query and fall back to an update instead of surfacing the error.
func (s *Service) createWithConflictRecovery(ctx context.Context, raw source.RawJob, sourceID, descriptionHash string) (*Result, error) {
	job := newJobPosting(raw, sourceID, descriptionHash)
	err := s.repo.Create(ctx, job)
	if err == nil {
		return &Result{JobPosting: job, Outcome: OutcomeCreated}, nil
	}
	if !isUniqueViolation(err) {
		return nil, err
	}

	existing, getErr := s.repo.GetBySourceAndExternalID(ctx, sourceID, raw.ExternalID)
	if getErr != nil {
		if errors.Is(getErr, model.ErrJobPostingNotFound) {
			existing, getErr = s.repo.GetByDescriptionHash(ctx, descriptionHash)
		}
		if getErr != nil {
			return nil, getErr
		}
	}
	if updateErr := s.repo.Update(ctx, existing.ID, sourceUpdateFields(raw, descriptionHash)); updateErr != nil {
		return nil, updateErr
	}
	existing, err = s.repo.GetByID(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	return &Result{JobPosting: existing, Outcome: OutcomeUpdatedSameSource}, nil
}

func newJobPosting(raw source.RawJob, sourceID, descriptionHash string) *model.JobPosting {
	job := &model.JobPosting{
		SourceID:        sourceID,
		JobTitle:        raw.Title,
		CompanyName:     raw.Company,
		Description:     raw.Description,
		DescriptionHash: descriptionHash,
		SalaryMin:       raw.SalaryMin,
		SalaryMax:       raw.SalaryMax,
		PostedDate:      raw.PostedDate,
	}
	if raw.ExternalID != "" {
		id := raw.ExternalID
		job.ExternalID = &id
	}
	if raw.SourceURL != "" {
		url := raw.SourceURL
		job.SourceURL = &url
	}
	if raw.Location != "" {
		loc := raw.Location
		job.Location = &loc
	}
	return job
}

func sourceUpdateFields(raw source.RawJob, descriptionHash string) map[string]any {
	fields := map[string]any{
		"job_title":        raw.Title,
		"company_name":     raw.Company,
		"description":      raw.Description,
		"description_hash": descriptionHash,
	}
	if raw.SourceURL != "" {
		fields["source_url"] = raw.SourceURL
	}
	if raw.Location != "" {
		fields["location"] = raw.Location
	}
	if raw.SalaryMin != nil {
		fields["salary_min"] = *raw.SalaryMin
	}
	if raw.SalaryMax != nil {
		fields["salary_max"] = *raw.SalaryMax
	}
	if raw.PostedDate != nil {
		fields["posted_date"] = *raw.PostedDate
	}
	return fields
}

func hashDescription(description string) string {
	truncated := description
	if len(truncated) > textsim.MaxSimilarityDescLength {
		truncated = truncated[:textsim.MaxSimilarityDescLength]
	}
	sum := sha256.Sum256([]byte(truncated))
	return hex.EncodeToString(sum[:])
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
