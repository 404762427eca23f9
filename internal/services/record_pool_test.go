// internal/services/record_pool_test.go
package services

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePoolFile(t *testing.T, rows int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pool.csv")

	content := "date,units_sold\n"
	for i := 0; i < rows; i++ {
		content += fmt.Sprintf("2026-01-%02d,%d\n", i+1, i)
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVRecordPoolSample(t *testing.T) {
	path := writePoolFile(t, 20)
	pool := NewCSVRecordPool(path, rand.New(rand.NewSource(42)))

	sample, err := pool.Sample(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "units_sold"}, sample.Columns)
	assert.Len(t, sample.Rows, 10)

	// Without replacement: all sampled rows distinct.
	seen := make(map[string]bool)
	for _, row := range sample.Rows {
		assert.False(t, seen[row[0]], "row %s drawn twice", row[0])
		seen[row[0]] = true
	}
}

func TestCSVRecordPoolSampleSmallPool(t *testing.T) {
	path := writePoolFile(t, 3)
	pool := NewCSVRecordPool(path, rand.New(rand.NewSource(1)))

	sample, err := pool.Sample(10)
	require.NoError(t, err)
	assert.Len(t, sample.Rows, 3)
}

func TestCSVRecordPoolMissingFile(t *testing.T) {
	pool := NewCSVRecordPool(filepath.Join(t.TempDir(), "absent.csv"), nil)

	_, err := pool.Sample(10)
	assert.Error(t, err)
}

func TestCSVRecordPoolDeterministicWithSeed(t *testing.T) {
	path := writePoolFile(t, 20)

	first, err := NewCSVRecordPool(path, rand.New(rand.NewSource(7))).Sample(5)
	require.NoError(t, err)
	second, err := NewCSVRecordPool(path, rand.New(rand.NewSource(7))).Sample(5)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
}

func TestSampleDatasetDoesNotModifySource(t *testing.T) {
	source := &Dataset{
		Columns: []string{"a"},
		Rows:    [][]string{{"1"}, {"2"}, {"3"}},
	}

	sample := SampleDataset(source, 2, rand.New(rand.NewSource(3)))
	assert.Len(t, sample.Rows, 2)
	assert.Len(t, source.Rows, 3)
}
