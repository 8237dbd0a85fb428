package surfacing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jobscout/scouter/internal/platform/logger"
)

// DefaultInterval is the surfacing pass cadence absent an explicit
// config override (spec.md §4.11: "default interval 15 minutes").
const DefaultInterval = 15 * time.Minute

// Worker runs Service.RunPass on a fixed interval in the background,
// started at application startup and cancelled at shutdown per
// spec.md §5's "Background worker lifecycle". Grounded on the
// ticker/cancel/done idiom used for periodic background work elsewhere
// in the retrieval pack (a provider health poller), adapted to this
// codebase's zap-backed logger.
type Worker struct {
	service  *Service
	interval time.Duration
	log      *logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewWorker(service *Service, interval time.Duration, log *logger.Logger) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Worker{
		service:  service,
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop in its own goroutine and returns
// immediately.
func (w *Worker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.log.Info("starting pool surfacing worker", zap.Duration("interval", w.interval))
	go w.loop(ctx)
}

// Stop cancels the loop and blocks until the in-flight pass (if any)
// returns to a safe point.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	<-w.done
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)

	w.runPass(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runPass(ctx)
		}
	}
}

func (w *Worker) runPass(ctx context.Context) {
	stats, err := w.service.RunPass(ctx)
	if err != nil {
		w.log.Error("surfacing pass failed", zap.Error(err))
		return
	}
	w.log.Info("surfacing pass complete",
		zap.Int("jobs_processed", stats.JobsProcessed),
		zap.Int("links_created", stats.LinksCreated),
		zap.Int("links_skipped_threshold", stats.LinksSkippedThreshold),
		zap.Int("links_skipped_existing", stats.LinksSkippedExisting),
		zap.Int("quarantines_released", stats.QuarantinesReleased),
	)
}
