package services

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/providers"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/internal/infrastructure/observability"
)

// ReviewService serves review snapshots with a freshness window. A snapshot
// older than the window triggers a live refetch; when the refetch fails the
// stale snapshot is returned rather than dropping reviews entirely.
type ReviewService struct {
	store    repositories.ReviewStore
	provider providers.PlacesProvider
	maxAge   time.Duration
	group    singleflight.Group
	now      func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(store repositories.ReviewStore, provider providers.PlacesProvider, maxAgeDays int) *ReviewService {
	if maxAgeDays <= 0 {
		maxAgeDays = 7
	}
	return &ReviewService{
		store:    store,
		provider: provider,
		maxAge:   time.Duration(maxAgeDays) * 24 * time.Hour,
		now:      time.Now,
	}
}

// SnapshotFor returns the review snapshot for a place id, or nil when no
// reviews can be obtained. Concurrent requests for the same place id share
// one fetch.
func (s *ReviewService) SnapshotFor(ctx context.Context, placeID string) (*entities.ReviewSnapshot, error) {
	if placeID == "" {
		return nil, nil
	}

	v, err, _ := s.group.Do(placeID, func() (interface{}, error) {
		return s.snapshotFor(ctx, placeID)
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.(*entities.ReviewSnapshot), nil
}

func (s *ReviewService) snapshotFor(ctx context.Context, placeID string) (*entities.ReviewSnapshot, error) {
	logger := observability.LoggerFromContext(ctx)

	cached, err := s.store.Get(ctx, placeID)
	if err != nil {
		logger.Warn().Err(err).Str("place_id", placeID).Msg("review store read failed")
	}
	if cached != nil && s.now().Sub(cached.FetchedAt) <= s.maxAge {
		return cached, nil
	}

	snapshot, err := s.provider.FetchReviews(ctx, placeID)
	if err != nil {
		if cached != nil {
			return cached, nil
		}
		return nil, err
	}
	snapshot.FetchedAt = s.now()

	if putErr := s.store.Put(ctx, snapshot); putErr != nil {
		logger.Warn().Err(putErr).Str("place_id", placeID).Msg("failed to persist review snapshot")
	}
	return snapshot, nil
}
