package settlement

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultInterval = 15 * time.Minute

// Worker runs the scanner on a recurring timer. The admin endpoint calls
// Scanner.Run directly; both paths are safe to overlap because settlement
// is idempotent per wager.
type Worker struct {
	scanner  *Scanner
	interval time.Duration
	log      *slog.Logger

	done     chan struct{}
	stopOnce sync.Once

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the settlement loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastRun             time.Time
	LastSuccess         time.Time
}

func NewWorker(scanner *Scanner, interval time.Duration, log *slog.Logger) *Worker {
	if interval <= 0 {
		interval = defaultInterval
	}
	if log == nil {
		log = slog.Default()
	}

	return &Worker{
		scanner:  scanner,
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start launches the loop: one scan immediately, then one per tick, until
// ctx is canceled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		w.log.Info("settlement worker started", "interval", w.interval.String())

		w.runOnce(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				w.log.Info("settlement worker stopped")
				return
			case <-w.done:
				w.log.Info("settlement worker stopped")
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()
}

func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

func (w *Worker) runOnce(ctx context.Context) {
	report, err := w.scanner.Run(ctx, "")

	w.statusMu.Lock()
	defer w.statusMu.Unlock()

	w.status.LastRun = time.Now()
	if err != nil {
		w.status.ConsecutiveFailures++
		w.status.LastError = err.Error()
		w.log.Error("scheduled settlement scan failed", "error", err)
		return
	}

	w.status.ConsecutiveFailures = 0
	w.status.LastError = ""
	w.status.LastSuccess = w.status.LastRun

	if report.WagersSettled > 0 || len(report.Errors) > 0 {
		w.log.Info("scheduled settlement scan",
			"settled", report.WagersSettled,
			"bankroll_change_cents", report.BankrollChangeCents,
			"errors", len(report.Errors),
		)
	}
}

// Status returns a snapshot of the worker's recent health.
func (w *Worker) Status() Status {
	w.statusMu.RLock()
	defer w.statusMu.RUnlock()
	return w.status
}
