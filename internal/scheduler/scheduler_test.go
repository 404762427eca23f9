// internal/scheduler/scheduler_test.go
package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksense/inventory-backend/internal/models"
	"github.com/stocksense/inventory-backend/internal/services"
)

type staticDirectory struct {
	products []models.Product
	err      error
}

func (d *staticDirectory) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	for i := range d.products {
		if d.products[i].ID == id {
			return &d.products[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (d *staticDirectory) ListEnrichable(ctx context.Context, operatorEmail string) ([]models.Product, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.products, nil
}

func (d *staticDirectory) UpdateDatasetURL(ctx context.Context, id uuid.UUID, url string) error {
	return nil
}

// scriptedRunner returns a canned outcome per product, recording call order.
type scriptedRunner struct {
	mu       sync.Mutex
	outcomes map[uuid.UUID]services.EnrichmentOutcome
	calls    []uuid.UUID
	block    chan struct{}
}

func (r *scriptedRunner) Enrich(ctx context.Context, productID uuid.UUID) services.EnrichmentOutcome {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, productID)
	if outcome, ok := r.outcomes[productID]; ok {
		return outcome
	}
	return services.EnrichmentOutcome{ProductID: productID, Success: true}
}

func makeProducts(n int) []models.Product {
	products := make([]models.Product, n)
	for i := range products {
		products[i].ID = uuid.New()
		products[i].DatasetURL = "https://store.example.com/datasets/seed.csv"
	}
	return products
}

func TestRunOnceProcessesEveryProduct(t *testing.T) {
	products := makeProducts(5)
	runner := &scriptedRunner{outcomes: map[uuid.UUID]services.EnrichmentOutcome{
		// Third product fails; the batch must still finish.
		products[2].ID: {ProductID: products[2].ID, Err: errors.New("upload failed")},
	}}
	sched := New(runner, &staticDirectory{products: products}, "", time.Hour)

	summary, err := sched.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Len(t, runner.calls, 5)
	assert.Equal(t, 4, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Zero(t, summary.Skipped)
	assert.Len(t, summary.Outcomes, 5)
}

func TestRunOnceSequentialOrder(t *testing.T) {
	products := makeProducts(3)
	runner := &scriptedRunner{}
	sched := New(runner, &staticDirectory{products: products}, "", time.Hour)

	_, err := sched.RunOnce(context.Background())
	require.NoError(t, err)

	require.Len(t, runner.calls, 3)
	for i, product := range products {
		assert.Equal(t, product.ID, runner.calls[i])
	}
}

func TestRunOnceCountsSkips(t *testing.T) {
	products := makeProducts(2)
	runner := &scriptedRunner{outcomes: map[uuid.UUID]services.EnrichmentOutcome{
		products[0].ID: {ProductID: products[0].ID, Skipped: true, Reason: "no dataset"},
	}}
	sched := New(runner, &staticDirectory{products: products}, "", time.Hour)

	summary, err := sched.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Succeeded)
}

func TestRunOnceEnumerationFailure(t *testing.T) {
	sched := New(&scriptedRunner{}, &staticDirectory{err: errors.New("db down")}, "", time.Hour)

	summary, err := sched.RunOnce(context.Background())
	require.Error(t, err)
	assert.NotNil(t, summary)
	assert.Equal(t, StateIdle, sched.State())
}

func TestRunOnceRejectsOverlap(t *testing.T) {
	products := makeProducts(1)
	runner := &scriptedRunner{block: make(chan struct{})}
	sched := New(runner, &staticDirectory{products: products}, "", time.Hour)

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, err := sched.RunOnce(context.Background())
		assert.NoError(t, err)
	}()

	// Wait for the first run to take the state.
	require.Eventually(t, func() bool {
		return sched.State() == StateRunning
	}, time.Second, 5*time.Millisecond)

	_, err := sched.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(runner.block)
	<-firstDone
	assert.Equal(t, StateIdle, sched.State())
}

func TestLastRunRecorded(t *testing.T) {
	products := makeProducts(2)
	sched := New(&scriptedRunner{}, &staticDirectory{products: products}, "", time.Hour)

	assert.Nil(t, sched.LastRun())

	_, err := sched.RunOnce(context.Background())
	require.NoError(t, err)

	last := sched.LastRun()
	require.NotNil(t, last)
	assert.Equal(t, 2, last.Succeeded)
	assert.False(t, last.FinishedAt.Before(last.StartedAt))
}

func TestStartStops(t *testing.T) {
	sched := New(&scriptedRunner{}, &staticDirectory{}, "", time.Hour)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sched.Start(context.Background())
	}()

	sched.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
