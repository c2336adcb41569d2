package services

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/providers"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/internal/infrastructure/observability"
	apperrors "github.com/carepath/snf-navigator/pkg/errors"
	"github.com/carepath/snf-navigator/pkg/geo"
)

// AnalysisService ranks skilled nursing facilities around a hospital and
// enriches the top results. Only two failures abort a request: an unknown
// hospital and an unplaceable hospital address. Every enrichment failure
// degrades to a missing field instead.
type AnalysisService struct {
	hospitals   repositories.HospitalRepository
	facilities  repositories.FacilityRepository
	geocoder    *GeocodeResolver
	timelines   *TimelineService
	liveMetrics providers.LiveMetricsProvider
	places      *PlaceResolver
	reviews     *ReviewService
	metrics     *observability.Metrics

	defaultRadiusMiles float64
	defaultLimit       int
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	hospitals repositories.HospitalRepository,
	facilities repositories.FacilityRepository,
	geocoder *GeocodeResolver,
	timelines *TimelineService,
	liveMetrics providers.LiveMetricsProvider,
	places *PlaceResolver,
	reviews *ReviewService,
	metrics *observability.Metrics,
	defaultRadiusMiles float64,
	defaultLimit int,
) *AnalysisService {
	if defaultRadiusMiles <= 0 {
		defaultRadiusMiles = 50
	}
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	return &AnalysisService{
		hospitals:          hospitals,
		facilities:         facilities,
		geocoder:           geocoder,
		timelines:          timelines,
		liveMetrics:        liveMetrics,
		places:             places,
		reviews:            reviews,
		metrics:            metrics,
		defaultRadiusMiles: defaultRadiusMiles,
		defaultLimit:       defaultLimit,
	}
}

// Analyze ranks facilities around the named hospital and enriches the top
// results with quality, regulatory and review context.
func (s *AnalysisService) Analyze(ctx context.Context, hospitalName string, opts entities.AnalysisOptions) (*entities.AnalysisResult, error) {
	if strings.TrimSpace(hospitalName) == "" {
		return nil, apperrors.NewValidationError("hospitalName is required")
	}

	hospital, err := s.hospitals.GetByMatchKey(ctx, entities.HospitalMatchKey(hospitalName))
	if err != nil {
		return nil, err
	}

	if err := s.geocoder.EnsureLocation(ctx, s.hospitals, hospital); err != nil {
		return nil, err
	}

	radius := opts.RadiusMiles
	if radius <= 0 {
		radius = s.defaultRadiusMiles
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	candidates, err := s.facilities.List(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]*entities.RankedFacility, 0, len(candidates))
	for _, facility := range candidates {
		if facility.Location == nil {
			continue
		}
		distance := geo.DistanceMiles(*hospital.Location, *facility.Location)
		if distance > radius {
			continue
		}
		ranked = append(ranked, &entities.RankedFacility{
			Facility: *facility,
			Distance: distance,
		})
	}
	totalWithinRadius := len(ranked)

	resolved := ResolveSort(opts)
	sortRanked(ranked, resolved)

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	for i, facility := range ranked {
		facility.LocalRank = i + 1
		s.enrich(ctx, facility)
	}

	return &entities.AnalysisResult{
		Hospital: entities.HospitalSummary{
			Name:      hospital.Name,
			City:      hospital.Address.City,
			State:     hospital.Address.State,
			Latitude:  hospital.Location.Latitude,
			Longitude: hospital.Location.Longitude,
		},
		Facilities:        ranked,
		TotalWithinRadius: totalWithinRadius,
		Sort:              resolved,
	}, nil
}

// ResolveSort maps request parameters to the sort the engine applies. Mode
// aliases map to fields; an explicit sortBy overrides mode. Distance
// defaults ascending, everything else descending.
func ResolveSort(opts entities.AnalysisOptions) entities.ResolvedSort {
	by := entities.SortByDistance
	switch strings.ToLower(opts.Mode) {
	case "best":
		by = entities.SortByComposite
	case "closest", "":
	}

	switch strings.ToLower(opts.SortBy) {
	case "distance", "closest":
		by = entities.SortByDistance
	case "composite", "best":
		by = entities.SortByComposite
	case "rating":
		by = entities.SortByRating
	case "name":
		by = entities.SortByName
	}

	var order entities.SortOrder
	switch strings.ToLower(opts.Order) {
	case "asc", "ascending":
		order = entities.OrderAscending
	case "desc", "descending":
		order = entities.OrderDescending
	default:
		if by == entities.SortByDistance {
			order = entities.OrderAscending
		} else {
			order = entities.OrderDescending
		}
	}

	return entities.ResolvedSort{By: by, Order: order}
}

// sortRanked orders facilities by the resolved sort. Facilities missing the
// sort key sink to the end regardless of direction; names compare
// case-insensitively.
func sortRanked(ranked []*entities.RankedFacility, resolved entities.ResolvedSort) {
	asc := resolved.Order == entities.OrderAscending

	sort.SliceStable(ranked, func(i, j int) bool {
		if resolved.By == entities.SortByName {
			a, b := strings.ToLower(ranked[i].Name), strings.ToLower(ranked[j].Name)
			if (a == "") != (b == "") {
				return a != ""
			}
			if asc {
				return a < b
			}
			return a > b
		}

		a, aok := numericSortKey(ranked[i], resolved.By)
		b, bok := numericSortKey(ranked[j], resolved.By)
		if aok != bok {
			return aok
		}
		if !aok {
			return false
		}
		if asc {
			return a < b
		}
		return a > b
	})
}

func numericSortKey(f *entities.RankedFacility, by entities.SortField) (float64, bool) {
	switch by {
	case entities.SortByDistance:
		return f.Distance, true
	case entities.SortByComposite:
		if score := f.CompositeScore(); score != nil {
			return *score, true
		}
	case entities.SortByRating:
		if f.OverallRating != nil {
			return *f.OverallRating, true
		}
	}
	return 0, false
}

// enrich attaches live metrics, timelines and a review snapshot to one
// ranked facility. The three fetches are independent and run concurrently;
// each degrades to a missing field on failure.
func (s *AnalysisService) enrich(ctx context.Context, facility *entities.RankedFacility) {
	logger := observability.LoggerFromContext(ctx)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		live, err := s.liveMetrics.FetchMetrics(gctx, facility.CCN)
		if err != nil {
			logger.Warn().Err(err).Str("ccn", facility.CCN).Msg("live metrics fetch failed")
			s.recordEnrichmentError(gctx, "live_metrics")
		}
		if live == nil {
			live = map[string]float64{}
		}
		facility.LiveMetrics = live
		return nil
	})

	g.Go(func() error {
		quality, err := s.timelines.QualityFor(gctx, facility.CCN)
		if err != nil {
			logger.Warn().Err(err).Str("ccn", facility.CCN).Msg("quality timeline lookup failed")
			s.recordEnrichmentError(gctx, "quality_timeline")
		} else if quality != nil {
			facility.HistoricalMetrics = quality.Years
			facility.HistoricalYearsAvailable = quality.YearCount()
		}
		if facility.HistoricalMetrics == nil {
			facility.HistoricalMetrics = map[int]map[string]float64{}
		}

		regulatory, err := s.timelines.RegulatoryFor(gctx, facility.CCN)
		if err != nil {
			logger.Warn().Err(err).Str("ccn", facility.CCN).Msg("regulatory timeline lookup failed")
			s.recordEnrichmentError(gctx, "regulatory_timeline")
		} else if regulatory != nil {
			facility.RegulatoryHistory = regulatory.Years
		}
		if facility.RegulatoryHistory == nil {
			facility.RegulatoryHistory = map[int]*entities.RegulatoryYear{}
		}
		return nil
	})

	g.Go(func() error {
		placeID, err := s.places.Resolve(gctx, &facility.Facility)
		if err != nil {
			logger.Warn().Err(err).Str("ccn", facility.CCN).Msg("place id resolution failed")
			s.recordEnrichmentError(gctx, "place_id")
			return nil
		}
		snapshot, err := s.reviews.SnapshotFor(gctx, placeID)
		if err != nil {
			logger.Warn().Err(err).Str("ccn", facility.CCN).Str("place_id", placeID).Msg("review fetch failed")
			s.recordEnrichmentError(gctx, "reviews")
			return nil
		}
		facility.ReviewEnrichment = snapshot
		return nil
	})

	// Enrichment goroutines never return errors; failures degrade in place.
	_ = g.Wait()
}

func (s *AnalysisService) recordEnrichmentError(ctx context.Context, stage string) {
	observability.RecordEnrichmentError(ctx, s.metrics, stage)
}
