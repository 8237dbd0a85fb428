// Package service implements C8: metered proxies that wrap a real
// LLM/embedding provider, resolve routing from the admin registry, and
// record usage + debit balance after every successful call. Grounded on
// original_source/backend/app/providers/metered_provider.py.
package service

import (
	"context"
	"time"

	"github.com/jobscout/scouter/internal/apperr"
	adminconfigmodel "github.com/jobscout/scouter/modules/adminconfig/model"
	adminconfigports "github.com/jobscout/scouter/modules/adminconfig/ports"
	"github.com/jobscout/scouter/internal/platform/logger"
	"github.com/jobscout/scouter/internal/providers/llm"
	"github.com/jobscout/scouter/modules/metering/model"
	"github.com/jobscout/scouter/modules/metering/ports"
)

// MeteredLLMProvider wraps an llm.Provider, resolving task routing from
// the admin registry on every call and recording usage on success.
// Routing lookup failures are fail-closed (block the call); metering
// failures after a successful call are logged, never surfaced, per
// spec.md §4.8's idempotence note.
type MeteredLLMProvider struct {
	inner       llm.Provider
	metering    ports.MeteringRepository
	adminConfig adminconfigports.AdminConfigRepository
	userID      string
	log         *logger.Logger
	now         func() time.Time
}

func NewMeteredLLMProvider(
	inner llm.Provider,
	metering ports.MeteringRepository,
	adminConfig adminconfigports.AdminConfigRepository,
	userID string,
	log *logger.Logger,
) *MeteredLLMProvider {
	return &MeteredLLMProvider{
		inner:       inner,
		metering:    metering,
		adminConfig: adminConfig,
		userID:      userID,
		log:         log,
		now:         time.Now,
	}
}

func (p *MeteredLLMProvider) ProviderName() string { return p.inner.ProviderName() }

func (p *MeteredLLMProvider) ModelForTask(task llm.TaskType) string { return p.inner.ModelForTask(task) }

func (p *MeteredLLMProvider) Complete(ctx context.Context, messages []llm.Message, task llm.TaskType, opts llm.CompleteOptions) (*llm.Response, error) {
	route, err := p.adminConfig.ResolveRoute(ctx, p.inner.ProviderName(), string(task), p.now())
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnregisteredModel, "NO_ROUTE_CONFIG", "no task routing configured", err)
	}

	opts.ModelOverride = route.Model
	response, err := p.inner.Complete(ctx, messages, task, opts)
	if err != nil {
		return nil, err
	}

	if err := p.recordUsage(ctx, response, task, route); err != nil && p.log != nil {
		p.log.WithUserID(p.userID).WithError("metering_record_failed").Sugar().Errorw("failed to record metered usage", "error", err)
	}

	return response, nil
}

func (p *MeteredLLMProvider) recordUsage(ctx context.Context, response *llm.Response, task llm.TaskType, route *adminconfigmodel.ResolvedRoute) error {
	inputTokens := max(0, response.InputTokens)
	outputTokens := max(0, response.OutputTokens)

	rawCost := float64(inputTokens)/1000*route.InputCostPer1K + float64(outputTokens)/1000*route.OutputCostPer1K
	billedCost := rawCost * route.MarginMultiplier

	usage := &model.LLMUsageRecord{
		UserID:           p.userID,
		Provider:         p.inner.ProviderName(),
		Model:            response.Model,
		TaskType:         string(task),
		InputTokens:      inputTokens,
		OutputTokens:     outputTokens,
		RawCostUSD:       rawCost,
		BilledCostUSD:    billedCost,
		MarginMultiplier: route.MarginMultiplier,
	}
	return p.metering.RecordAndDebit(ctx, usage)
}

// Stream passes through to the inner provider unmetered — streaming
// metering is deferred, matching metered_provider.py's explicit
// deferral (stream() is not used in production).
func (p *MeteredLLMProvider) Stream(ctx context.Context, messages []llm.Message, task llm.TaskType, opts llm.CompleteOptions) (<-chan string, error) {
	return p.inner.Stream(ctx, messages, task, opts)
}
