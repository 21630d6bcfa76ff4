package services

import (
	"context"
	"sync"

	"car-dashboard/models"
	"car-dashboard/storage"
	"car-dashboard/utils"
)

// DatasetService memoizes the dataset loaded from a source. The cache is keyed
// by the source identity, so a changed file is reloaded on the next Get.
// Cached datasets are handed out by pointer and never modified.
type DatasetService struct {
	source storage.ListingSource
	logger *utils.Logger

	mu       sync.RWMutex
	cached   *models.Dataset
	identity string
	loads    int
}

// NewDatasetService creates a service reading from source.
func NewDatasetService(source storage.ListingSource, logger *utils.Logger) *DatasetService {
	return &DatasetService{source: source, logger: logger}
}

// Get returns the cached dataset, loading it when nothing is cached or the
// source identity changed.
func (s *DatasetService) Get(ctx context.Context) (*models.Dataset, error) {
	id, err := s.source.Identity(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	if s.cached != nil && s.identity == id {
		ds := s.cached
		s.mu.RUnlock()
		return ds, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.identity == id {
		return s.cached, nil
	}
	if s.cached != nil {
		s.logger.Info("[dataset] Source %s changed, reloading", s.source.Describe())
	}

	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.cached = ds
	s.identity = id
	s.loads++

	s.logger.Info("[dataset] Loaded %d listings from %s", ds.Len(), s.source.Describe())
	return ds, nil
}

// Invalidate drops the cached dataset; the next Get reloads from the source.
func (s *DatasetService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.identity = ""
	s.logger.Info("[dataset] Cache invalidated")
}

// Loads returns how many times the source has been read.
func (s *DatasetService) Loads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loads
}

// Source returns the underlying source.
func (s *DatasetService) Source() storage.ListingSource { return s.source }
