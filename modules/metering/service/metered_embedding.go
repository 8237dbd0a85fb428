package service

import (
	"context"
	"time"

	adminconfigports "github.com/jobscout/scouter/modules/adminconfig/ports"
	"github.com/jobscout/scouter/internal/platform/logger"
	"github.com/jobscout/scouter/internal/providers/embedding"
	"github.com/jobscout/scouter/modules/metering/model"
	"github.com/jobscout/scouter/modules/metering/ports"
)

// tokenEstimateDivisor is the chars-per-token fallback used when a
// provider returns the chunked-batch sentinel TotalTokens == -1.
const tokenEstimateDivisor = 4

// MeteredEmbeddingProvider wraps an embedding.Provider. Unlike the LLM
// proxy, routing is not resolved from the registry — the embedding
// model is fixed by configuration (spec.md §4.8) — but pricing still
// comes from the registry, keyed by modelRegistryID.
type MeteredEmbeddingProvider struct {
	inner           embedding.Provider
	metering        ports.MeteringRepository
	adminConfig     adminconfigports.AdminConfigRepository
	modelRegistryID string
	userID          string
	log             *logger.Logger
	now             func() time.Time
}

func NewMeteredEmbeddingProvider(
	inner embedding.Provider,
	metering ports.MeteringRepository,
	adminConfig adminconfigports.AdminConfigRepository,
	modelRegistryID string,
	userID string,
	log *logger.Logger,
) *MeteredEmbeddingProvider {
	return &MeteredEmbeddingProvider{
		inner: inner, metering: metering, adminConfig: adminConfig,
		modelRegistryID: modelRegistryID, userID: userID, log: log, now: time.Now,
	}
}

func (p *MeteredEmbeddingProvider) ProviderName() string { return p.inner.ProviderName() }
func (p *MeteredEmbeddingProvider) Dimensions() int      { return p.inner.Dimensions() }

func (p *MeteredEmbeddingProvider) Embed(ctx context.Context, texts []string) (*embedding.Result, error) {
	result, err := p.inner.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	inputTokens := result.TotalTokens
	if inputTokens < 0 {
		inputTokens = estimateTokens(texts)
		if p.log != nil {
			p.log.WithUserID(p.userID).Sugar().Warnw("estimated embedding tokens for chunked batch",
				"estimated_tokens", inputTokens, "provider_total_tokens", result.TotalTokens)
		}
	}

	usage := &model.LLMUsageRecord{
		UserID:       p.userID,
		Provider:     p.inner.ProviderName(),
		Model:        result.Model,
		TaskType:     "embedding",
		InputTokens:  inputTokens,
		OutputTokens: 0,
	}
	if snapshots, err := p.adminConfig.PricingSnapshots(ctx, p.modelRegistryID, p.now()); err == nil {
		for _, snap := range snapshots {
			if snap.IsCurrent {
				usage.RawCostUSD = float64(inputTokens) / 1000 * snap.InputCostPer1K
				usage.BilledCostUSD = usage.RawCostUSD * snap.MarginMultiplier
				usage.MarginMultiplier = snap.MarginMultiplier
				break
			}
		}
	}
	if err := p.metering.RecordAndDebit(ctx, usage); err != nil && p.log != nil {
		p.log.WithUserID(p.userID).WithError("metering_record_failed").Sugar().Errorw("failed to record metered embedding usage", "error", err)
	}

	return result, nil
}

func estimateTokens(texts []string) int {
	total := 0
	for _, t := range texts {
		total += len(t)
	}
	return total / tokenEstimateDivisor
}
