// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stocksense/inventory-backend/internal/services"
)

// State of the scheduler between ticks.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// ErrRunInProgress is returned when a tick lands while a batch is still
// running. The tick is rejected, not queued.
var ErrRunInProgress = errors.New("enrichment run already in progress")

// EnrichmentRunner is the per-product job the scheduler drives.
type EnrichmentRunner interface {
	Enrich(ctx context.Context, productID uuid.UUID) services.EnrichmentOutcome
}

// RunSummary records one batch: every product's outcome plus tallies.
type RunSummary struct {
	StartedAt  time.Time                    `json:"started_at"`
	FinishedAt time.Time                    `json:"finished_at"`
	Succeeded  int                          `json:"succeeded"`
	Skipped    int                          `json:"skipped"`
	Failed     int                          `json:"failed"`
	Outcomes   []services.EnrichmentOutcome `json:"outcomes"`
}

// EnrichmentScheduler periodically enumerates enrichable products and runs
// the enrichment job for each, strictly one at a time. A product failure is
// logged and recorded; the batch always continues to the next product.
type EnrichmentScheduler struct {
	runner        EnrichmentRunner
	products      services.ProductDirectory
	operatorEmail string
	interval      time.Duration

	mu      sync.Mutex
	state   State
	lastRun *RunSummary

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func New(runner EnrichmentRunner, products services.ProductDirectory, operatorEmail string, interval time.Duration) *EnrichmentScheduler {
	return &EnrichmentScheduler{
		runner:        runner,
		products:      products,
		operatorEmail: operatorEmail,
		interval:      interval,
		state:         StateIdle,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start runs the tick loop until Stop is called or ctx is cancelled. Blocks;
// callers run it in a goroutine.
func (s *EnrichmentScheduler) Start(ctx context.Context) {
	defer close(s.done)

	logrus.WithField("interval", s.interval.String()).Info("Enrichment scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Enrichment scheduler stopped")
			return
		case <-s.stop:
			logrus.Info("Enrichment scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); errors.Is(err, ErrRunInProgress) {
				logrus.Warn("Skipping enrichment tick, previous run still in progress")
			}
		}
	}
}

// Stop shuts the loop down and waits for it to exit.
func (s *EnrichmentScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// State reports whether a batch is currently running.
func (s *EnrichmentScheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastRun returns the most recent batch summary, nil before the first run.
func (s *EnrichmentScheduler) LastRun() *RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// RunOnce executes a full batch: enumerate the operator's enrichable products
// and enrich each sequentially. Returns ErrRunInProgress if a batch is
// already underway.
func (s *EnrichmentScheduler) RunOnce(ctx context.Context) (*RunSummary, error) {
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.state = StateRunning
	s.mu.Unlock()

	summary := &RunSummary{StartedAt: time.Now()}

	defer func() {
		summary.FinishedAt = time.Now()
		s.mu.Lock()
		s.state = StateIdle
		s.lastRun = summary
		s.mu.Unlock()
	}()

	products, err := s.products.ListEnrichable(ctx, s.operatorEmail)
	if err != nil {
		logrus.WithError(err).Error("Failed to enumerate enrichable products")
		return summary, err
	}

	logrus.WithField("products", len(products)).Info("Starting enrichment run")

	for _, product := range products {
		outcome := s.runner.Enrich(ctx, product.ID)
		summary.Outcomes = append(summary.Outcomes, outcome)

		fields := logrus.Fields{"product_id": product.ID}
		switch {
		case outcome.Success:
			summary.Succeeded++
			fields["dataset_url"] = outcome.NewDatasetURL
			logrus.WithFields(fields).Info("Product dataset enriched")
		case outcome.Skipped:
			summary.Skipped++
			fields["reason"] = outcome.Reason
			logrus.WithFields(fields).Info("Product skipped")
		default:
			summary.Failed++
			logrus.WithFields(fields).WithError(outcome.Err).Error("Product enrichment failed")
		}
	}

	logrus.WithFields(logrus.Fields{
		"succeeded": summary.Succeeded,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
	}).Info("Enrichment run finished")

	return summary, nil
}
