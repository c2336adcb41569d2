package services

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/internal/infrastructure/observability"
	"github.com/carepath/snf-navigator/pkg/ccn"
)

// TimelineService merges the yearly CMS extract tables into per-facility
// quality and regulatory timelines. Rows are joined solely by normalized
// CCN; rows without a usable CCN are dropped. Timelines are built once and
// held in memory; Refresh rebuilds them after a re-seed.
type TimelineService struct {
	extracts repositories.ExtractRepository

	mu         sync.RWMutex
	built      bool
	quality    map[string]*entities.QualityTimeline
	regulatory map[string]*entities.RegulatoryTimeline
}

// NewTimelineService creates a new timeline service
func NewTimelineService(extracts repositories.ExtractRepository) *TimelineService {
	return &TimelineService{
		extracts: extracts,
	}
}

// QualityFor returns the quality timeline for a normalized CCN, or nil.
func (s *TimelineService) QualityFor(ctx context.Context, normalizedCCN string) (*entities.QualityTimeline, error) {
	if err := s.ensureBuilt(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quality[normalizedCCN], nil
}

// RegulatoryFor returns the regulatory timeline for a normalized CCN, or nil.
func (s *TimelineService) RegulatoryFor(ctx context.Context, normalizedCCN string) (*entities.RegulatoryTimeline, error) {
	if err := s.ensureBuilt(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.regulatory[normalizedCCN], nil
}

// Refresh rebuilds both timeline maps from storage.
func (s *TimelineService) Refresh(ctx context.Context) error {
	years, err := s.extracts.Years(ctx)
	if err != nil {
		return err
	}

	quality, err := s.BuildQualityTimelines(ctx, years)
	if err != nil {
		return err
	}
	regulatory, err := s.BuildRegulatoryTimelines(ctx, years)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.quality = quality
	s.regulatory = regulatory
	s.built = true
	s.mu.Unlock()

	observability.GetLogger().Info().
		Int("years", len(years)).
		Int("quality_facilities", len(quality)).
		Int("regulatory_facilities", len(regulatory)).
		Msg("rebuilt facility timelines")
	return nil
}

func (s *TimelineService) ensureBuilt(ctx context.Context) error {
	s.mu.RLock()
	built := s.built
	s.mu.RUnlock()
	if built {
		return nil
	}
	return s.Refresh(ctx)
}

// BuildQualityTimelines merges the three yearly quality source tables into
// per-facility timelines.
func (s *TimelineService) BuildQualityTimelines(ctx context.Context, years []int) (map[string]*entities.QualityTimeline, error) {
	timelines := make(map[string]*entities.QualityTimeline)

	for _, year := range years {
		mdsRows, err := s.extracts.MDSRows(ctx, year)
		if err != nil {
			return nil, err
		}
		for _, row := range mdsRows {
			s.mergeMeasureRow(timelines, row, year, mdsCodeToKey)
		}

		claimsRows, err := s.extracts.ClaimsRows(ctx, year)
		if err != nil {
			return nil, err
		}
		for _, row := range claimsRows {
			s.mergeMeasureRow(timelines, row, year, claimsCodeToKey)
		}

		directoryRows, err := s.extracts.DirectoryRows(ctx, year)
		if err != nil {
			return nil, err
		}
		for _, row := range directoryRows {
			key := ccn.Normalize(ccn.Field(row, "ccn"))
			if key == "" {
				continue
			}
			timeline := ensureQualityTimeline(timelines, key)
			fillFacilityMeta(timeline, row)
		}
	}

	return timelines, nil
}

// mergeMeasureRow folds one measure row into the timeline map. Unmapped
// measure codes and non-numeric values are skipped.
func (s *TimelineService) mergeMeasureRow(timelines map[string]*entities.QualityTimeline, row repositories.ExtractRow, year int, codeToKey map[string]string) {
	key := ccn.Normalize(ccn.Field(row, "ccn"))
	if key == "" {
		return
	}

	metricKey, ok := codeToKey[strings.TrimSpace(ccn.Field(row, "measure_code"))]
	if !ok {
		return
	}

	value, err := strconv.ParseFloat(ccn.Field(row, "measure_value"), 64)
	if err != nil {
		return
	}

	timeline := ensureQualityTimeline(timelines, key)
	if timeline.Years[year] == nil {
		timeline.Years[year] = make(map[string]float64)
	}
	timeline.Years[year][metricKey] = value
	fillFacilityMeta(timeline, row)
}

func ensureQualityTimeline(timelines map[string]*entities.QualityTimeline, key string) *entities.QualityTimeline {
	timeline, ok := timelines[key]
	if !ok {
		timeline = &entities.QualityTimeline{
			CCN:   key,
			Years: make(map[int]map[string]float64),
		}
		timelines[key] = timeline
	}
	return timeline
}

// fillFacilityMeta populates descriptive fields from whichever source row
// provides them first; values are never overwritten once set.
func fillFacilityMeta(timeline *entities.QualityTimeline, row repositories.ExtractRow) {
	if timeline.Name == "" {
		timeline.Name = ccn.Field(row, "name")
	}
	if timeline.Address.Street == "" {
		timeline.Address.Street = ccn.Field(row, "address")
	}
	if timeline.Address.City == "" {
		timeline.Address.City = ccn.Field(row, "city")
	}
	if timeline.Address.State == "" {
		timeline.Address.State = ccn.Field(row, "state")
	}
	if timeline.Address.ZipCode == "" {
		timeline.Address.ZipCode = ccn.Field(row, "zip")
	}
}
