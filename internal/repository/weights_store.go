package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"PortfolioOne/internal/domain/models"
	"PortfolioOne/internal/domain/repository"
	"PortfolioOne/pkg/cache"
)

var weightsKey = cache.GenerateKey("weights", "override")

// CacheWeightStore persists user weight-table overrides in the cache backend
// (Redis in production, memory in tests). Overrides have no TTL; they stand
// until cleared.
type CacheWeightStore struct {
	cache cache.Service
}

// NewCacheWeightStore creates a weight override store.
func NewCacheWeightStore(c cache.Service) repository.WeightStore {
	return &CacheWeightStore{cache: c}
}

func (s *CacheWeightStore) Load(ctx context.Context) (*models.WeightsRequest, error) {
	var w models.WeightsRequest
	err := s.cache.Get(ctx, weightsKey, &w)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	return &w, nil
}

func (s *CacheWeightStore) Save(ctx context.Context, w *models.WeightsRequest) error {
	if err := s.cache.Set(ctx, weightsKey, w, time.Duration(0)); err != nil {
		return fmt.Errorf("save weights: %w", err)
	}
	return nil
}

func (s *CacheWeightStore) Clear(ctx context.Context) error {
	if err := s.cache.Delete(ctx, weightsKey); err != nil {
		return fmt.Errorf("clear weights: %w", err)
	}
	return nil
}
