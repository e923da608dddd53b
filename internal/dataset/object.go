package dataset

import (
	"context"
	"fmt"

	"github.com/stocklens/doi-dashboard/internal/domain"
	"github.com/stocklens/doi-dashboard/internal/storage"
)

// ObjectSource loads the snapshot CSV from S3-compatible object storage.
type ObjectSource struct {
	store storage.ObjectStorage
	key   string
}

func NewObjectSource(store storage.ObjectStorage, key string) *ObjectSource {
	return &ObjectSource{store: store, key: key}
}

func (s *ObjectSource) Name() string { return "s3" }

func (s *ObjectSource) Load(ctx context.Context) ([]domain.InventoryRecord, error) {
	rc, err := s.store.OpenObject(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset object %s: %w", s.key, err)
	}
	defer rc.Close()

	records, err := ParseCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset object %s: %w", s.key, err)
	}

	return records, nil
}
