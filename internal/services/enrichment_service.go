// internal/services/enrichment_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stocksense/inventory-backend/internal/models"
)

// ProductDirectory is the slice of the product catalog the enrichment
// pipeline needs: resolving a product, enumerating enrichable ones, and
// moving the dataset reference after a successful republish.
type ProductDirectory interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListEnrichable(ctx context.Context, operatorEmail string) ([]models.Product, error)
	UpdateDatasetURL(ctx context.Context, id uuid.UUID, url string) error
}

// DatasetStore is the remote object store holding dataset blobs addressed by
// URL.
type DatasetStore interface {
	Upload(ctx context.Context, data []byte, opts UploadOptions) (string, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// EnrichmentOutcome is the per-product result of one enrichment invocation.
// Transient; recorded in run summaries and logs, never persisted.
type EnrichmentOutcome struct {
	ProductID     uuid.UUID `json:"product_id"`
	Success       bool      `json:"success"`
	Skipped       bool      `json:"skipped"`
	NewDatasetURL string    `json:"new_dataset_url,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	Err           error     `json:"-"`
}

// EnrichmentService appends freshly sampled rows to a product's remote
// dataset and republishes it under a new URL.
type EnrichmentService struct {
	products      ProductDirectory
	store         DatasetStore
	pool          RecordPool
	sampleSize    int
	remoteTimeout time.Duration
}

func NewEnrichmentService(products ProductDirectory, store DatasetStore, pool RecordPool, sampleSize int, remoteTimeout time.Duration) *EnrichmentService {
	return &EnrichmentService{
		products:      products,
		store:         store,
		pool:          pool,
		sampleSize:    sampleSize,
		remoteTimeout: remoteTimeout,
	}
}

// Enrich runs one enrichment pass for a single product: sample, download,
// validate, merge, reupload, then move the product's dataset reference. The
// reference changes only after the upload succeeds; every failure leaves the
// remote dataset and the product untouched. A product without a dataset URL
// is a designed no-op with zero network calls. No retries here; the next
// scheduled run is the implicit retry.
func (s *EnrichmentService) Enrich(ctx context.Context, productID uuid.UUID) EnrichmentOutcome {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return s.failure(productID, fmt.Errorf("failed to resolve product: %w", err))
	}

	if product.DatasetURL == "" {
		return EnrichmentOutcome{ProductID: productID, Skipped: true, Reason: "no dataset"}
	}

	batch, err := s.pool.Sample(s.sampleSize)
	if err != nil {
		return s.failure(productID, fmt.Errorf("failed to sample source records: %w", err))
	}

	dataset, cleanup, err := s.downloadDataset(ctx, product.DatasetURL)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return s.failure(productID, err)
	}

	if err := dataset.Append(batch); err != nil {
		return s.failure(productID, err)
	}

	var merged bytes.Buffer
	if err := dataset.Encode(&merged); err != nil {
		return s.failure(productID, fmt.Errorf("failed to serialize merged dataset: %w", err))
	}

	uploadCtx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()
	newURL, err := s.store.Upload(uploadCtx, merged.Bytes(), UploadOptions{
		Folder:      "datasets",
		ContentType: "text/csv",
	})
	if err != nil {
		return s.failure(productID, fmt.Errorf("%w: upload: %v", ErrUpstreamStore, err))
	}

	// The only mutation, strictly after upload success.
	if err := s.products.UpdateDatasetURL(ctx, productID, newURL); err != nil {
		return s.failure(productID, fmt.Errorf("%w: failed to update dataset reference: %v", ErrPersistence, err))
	}

	return EnrichmentOutcome{ProductID: productID, Success: true, NewDatasetURL: newURL}
}

// downloadDataset pulls the remote blob into a transient temp file and parses
// it from there. The returned cleanup removes the file and is non-nil as soon
// as the file exists, whatever happens afterwards.
func (s *EnrichmentService) downloadDataset(ctx context.Context, url string) (*Dataset, func(), error) {
	downloadCtx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	data, err := s.store.Download(downloadCtx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: download: %v", ErrUpstreamStore, err)
	}

	tmp, err := os.CreateTemp("", "dataset-*.csv")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create transient dataset file: %w", err)
	}
	cleanup := func() {
		tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).Warn("Failed to remove transient dataset file")
		}
	}

	if _, err := tmp.Write(data); err != nil {
		return nil, cleanup, fmt.Errorf("failed to buffer dataset: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, cleanup, fmt.Errorf("failed to rewind dataset buffer: %w", err)
	}

	dataset, err := ParseDataset(tmp)
	if err != nil {
		return nil, cleanup, err
	}
	return dataset, cleanup, nil
}

func (s *EnrichmentService) failure(productID uuid.UUID, err error) EnrichmentOutcome {
	return EnrichmentOutcome{ProductID: productID, Reason: err.Error(), Err: err}
}
