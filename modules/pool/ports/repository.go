package ports

import (
	"context"
	"time"

	"github.com/jobscout/scouter/modules/pool/model"
)

// PoolRepository defines data access for the shared, persona-agnostic
// job pool (Tier 0). Unlike the old per-user jobs table, none of these
// reads are scoped by user — scoping happens one layer up, in
// modules/poollink.
type PoolRepository interface {
	Create(ctx context.Context, job *model.JobPosting) error
	GetByID(ctx context.Context, jobID string) (*model.JobPosting, error)
	GetBySourceAndExternalID(ctx context.Context, sourceID, externalID string) (*model.JobPosting, error)
	GetByDescriptionHash(ctx context.Context, descriptionHash string) (*model.JobPosting, error)

	// GetByCompanyForSimilarity returns active postings at companyName
	// first seen at or after since, for C4's title/description
	// similarity comparison. Ordered newest first.
	GetByCompanyForSimilarity(ctx context.Context, companyName string, since time.Time) ([]*model.JobPosting, error)

	// Update applies fields, restricted to model.SourceUpdateFields, to
	// jobID. Unknown keys are rejected by the caller before this is
	// invoked (see pooldedup).
	Update(ctx context.Context, jobID string, fields map[string]any) error

	// AppendRepost records jobID as a repost of an earlier posting:
	// appends to previous_posting_ids and increments repost_count.
	AppendRepost(ctx context.Context, jobID, previousPostingID string) error

	// MergeAlsoFoundOn appends entry to jobID's also_found_on.sources,
	// deduping by SourceID — a re-encounter of a posting already known
	// under a different source never drops an existing entry.
	MergeAlsoFoundOn(ctx context.Context, jobID string, entry model.SourceEntry) error

	// UpdateGhostScore writes C2's computed ghost score/signals; kept
	// separate from Update's SourceUpdateFields whitelist since these
	// are computed by enrichment, never echoed back from a source.
	UpdateGhostScore(ctx context.Context, jobID string, score int, signals model.GhostSignals) error

	Deactivate(ctx context.Context, jobID string) error

	// ListRecentActive returns active, non-quarantined postings first
	// seen at or after since, for C11's surfacing pass.
	ListRecentActive(ctx context.Context, since time.Time, limit int) ([]*model.JobPosting, error)

	// Quarantine marks jobID quarantined as of now, excluding it from
	// ListRecentActive until ReleaseExpiredQuarantines clears it.
	Quarantine(ctx context.Context, jobID string) error

	// ReleaseExpiredQuarantines clears is_quarantined on every posting
	// quarantined longer than ttl, returning the count released.
	ReleaseExpiredQuarantines(ctx context.Context, ttl time.Duration) (int, error)

	CreateExtractedSkills(ctx context.Context, jobID string, skills []*model.ExtractedSkill) error
	ExtractedSkillsByJobID(ctx context.Context, jobID string) ([]*model.ExtractedSkill, error)

	UpsertEmbedding(ctx context.Context, embedding *model.JobEmbedding) error
	EmbeddingsByJobID(ctx context.Context, jobID string) ([]*model.JobEmbedding, error)
}
