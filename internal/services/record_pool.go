// internal/services/record_pool.go
package services

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"
)

// RecordPool is the external read-only collection of candidate rows that
// enrichment draws from.
type RecordPool interface {
	// Sample returns up to n rows drawn without replacement, in random order.
	Sample(n int) (*Dataset, error)
}

// CSVRecordPool samples from a CSV file on disk. The file is re-read on every
// call so operators can swap it without a restart.
type CSVRecordPool struct {
	path string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCSVRecordPool builds a pool over path. A nil rng gets a time-seeded
// source; tests pass a fixed-seed one for reproducible draws.
func NewCSVRecordPool(path string, rng *rand.Rand) *CSVRecordPool {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &CSVRecordPool{path: path, rng: rng}
}

func (p *CSVRecordPool) Sample(n int) (*Dataset, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source record pool: %w", err)
	}
	defer f.Close()

	pool, err := ParseDataset(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read source record pool: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return SampleDataset(pool, n, p.rng), nil
}

// SampleDataset draws up to n rows from d without replacement. The source
// dataset is not modified.
func SampleDataset(d *Dataset, n int, rng *rand.Rand) *Dataset {
	indexes := rng.Perm(len(d.Rows))
	if n > len(indexes) {
		n = len(indexes)
	}

	rows := make([][]string, 0, n)
	for _, idx := range indexes[:n] {
		rows = append(rows, d.Rows[idx])
	}

	return &Dataset{Columns: d.Columns, Rows: rows}
}
