package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
)

type fakeExtractRepo struct {
	years     []int
	mds       map[int][]repositories.ExtractRow
	claims    map[int][]repositories.ExtractRow
	directory map[int][]repositories.ExtractRow
	citations map[int][]repositories.ExtractRow
	penalties map[int][]repositories.ExtractRow
}

func (f *fakeExtractRepo) Years(ctx context.Context) ([]int, error) { return f.years, nil }
func (f *fakeExtractRepo) MDSRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return f.mds[year], nil
}
func (f *fakeExtractRepo) ClaimsRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return f.claims[year], nil
}
func (f *fakeExtractRepo) DirectoryRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return f.directory[year], nil
}
func (f *fakeExtractRepo) CitationRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return f.citations[year], nil
}
func (f *fakeExtractRepo) PenaltyRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return f.penalties[year], nil
}

func TestBuildQualityTimelines_JoinsAcrossVintages(t *testing.T) {
	repo := &fakeExtractRepo{
		years: []int{2022, 2024},
		mds: map[int][]repositories.ExtractRow{
			// Older vintage column names.
			2022: {
				{"provnum": "15009", "msr_cd": "453", "observed_score": "7.1", "provname": "Oak Ridge Care Center"},
			},
			// Newer vintage column names for the same facility.
			2024: {
				{"cms_certification_number": "015009", "measure_code": "453", "score": "6.4"},
				{"cms_certification_number": "015009", "measure_code": "419", "score": "11.0"},
			},
		},
		claims: map[int][]repositories.ExtractRow{
			2024: {
				{"provider_id": "15009", "measure_code": "521", "score": "19.8"},
			},
		},
		directory: map[int][]repositories.ExtractRow{
			2024: {
				{"federal_provider_number": "15009", "provider_name": "Oak Ridge SNF", "city_town": "Oak Ridge", "state": "TN", "zip_code": "37830"},
			},
		},
	}

	svc := NewTimelineService(repo)
	timelines, err := svc.BuildQualityTimelines(context.Background(), repo.years)
	require.NoError(t, err)
	require.Len(t, timelines, 1)

	timeline := timelines["015009"]
	require.NotNil(t, timeline)
	assert.Equal(t, "015009", timeline.CCN)
	assert.Equal(t, 2, timeline.YearCount())

	assert.Equal(t, 7.1, timeline.Years[2022]["pressure_ulcer_rate"])
	assert.Equal(t, 6.4, timeline.Years[2024]["pressure_ulcer_rate"])
	assert.Equal(t, 11.0, timeline.Years[2024]["antipsychotic_use_rate"])
	assert.Equal(t, 19.8, timeline.Years[2024]["readmission_rate"])

	// First-seen metadata wins; directory does not overwrite it.
	assert.Equal(t, "Oak Ridge Care Center", timeline.Name)
	assert.Equal(t, "Oak Ridge", timeline.Address.City)
	assert.Equal(t, "TN", timeline.Address.State)
}

func TestBuildQualityTimelines_SkipsBadRows(t *testing.T) {
	repo := &fakeExtractRepo{
		years: []int{2024},
		mds: map[int][]repositories.ExtractRow{
			2024: {
				{"measure_code": "453", "score": "5.0"},                     // no CCN
				{"ccn": "12345", "measure_code": "999", "score": "5.0"},     // unmapped code
				{"ccn": "12345", "measure_code": "453", "score": "not-a-number"},
				{"ccn": "12345", "measure_code": "406", "score": "3.3"},
			},
		},
	}

	svc := NewTimelineService(repo)
	timelines, err := svc.BuildQualityTimelines(context.Background(), repo.years)
	require.NoError(t, err)
	require.Len(t, timelines, 1)

	timeline := timelines["012345"]
	require.NotNil(t, timeline)
	assert.Equal(t, map[string]float64{"uti_rate": 3.3}, timeline.Years[2024])
}

func TestClassifySeverity(t *testing.T) {
	cases := map[string]entities.CitationSeverity{
		"L":  entities.SeverityImmediateJeopardy,
		"j":  entities.SeverityImmediateJeopardy,
		"G":  entities.SeverityActualHarm,
		"D":  entities.SeverityPotentialHarm,
		"F":  entities.SeverityPotentialHarm,
		"B":  entities.SeverityMinimalHarm,
		"":   entities.SeverityUnknown,
		"Z":  entities.SeverityUnknown,
		" e": entities.SeverityPotentialHarm,
	}
	for code, want := range cases {
		assert.Equal(t, want, ClassifySeverity(code), "code %q", code)
	}
}

func TestBuildRegulatoryTimelines_AggregatesCitationsAndPenalties(t *testing.T) {
	repo := &fakeExtractRepo{
		years: []int{2023},
		citations: map[int][]repositories.ExtractRow{
			2023: {
				{"ccn": "15009", "scope_severity_code": "J"},
				{"ccn": "15009", "scope_severity_code": "G", "deficiency_category": "Infection Control Deficiencies"},
				{"ccn": "15009", "scope_severity_code": "D"},
				{"ccn": "15009", "scope_severity_code": "D", "infection_control_deficiency": "Y"},
				{"ccn": "15009", "scope_severity_code": ""},
			},
		},
		penalties: map[int][]repositories.ExtractRow{
			2023: {
				{"ccn": "15009", "penalty_type": "Fine", "fine_amount": "$12,500.00"},
				{"ccn": "15009", "penalty_type": "Fine", "fine_amount": "650"},
				{"ccn": "15009", "penalty_type": "Payment Denial"},
			},
		},
	}

	svc := NewTimelineService(repo)
	timelines, err := svc.BuildRegulatoryTimelines(context.Background(), repo.years)
	require.NoError(t, err)

	timeline := timelines["015009"]
	require.NotNil(t, timeline)
	year := timeline.Years[2023]
	require.NotNil(t, year)

	assert.Equal(t, 5, year.Citations.Total)
	assert.Equal(t, 1, year.Citations.ImmediateJeopardy)
	assert.Equal(t, 1, year.Citations.ActualHarm)
	assert.Equal(t, 2, year.Citations.PotentialHarm)
	assert.Equal(t, 1, year.Citations.Unknown)
	assert.Equal(t, 2, year.Citations.InfectionControl)

	assert.Equal(t, 2, year.Penalties.FineCount)
	assert.Equal(t, 13150.0, year.Penalties.FineTotal)
	assert.Equal(t, 1, year.Penalties.PaymentDenials)
}

func TestTimelineService_LookupBuildsOnce(t *testing.T) {
	repo := &fakeExtractRepo{
		years: []int{2024},
		mds: map[int][]repositories.ExtractRow{
			2024: {{"ccn": "15009", "measure_code": "453", "score": "4.2"}},
		},
	}

	svc := NewTimelineService(repo)

	quality, err := svc.QualityFor(context.Background(), "015009")
	require.NoError(t, err)
	require.NotNil(t, quality)
	assert.Equal(t, 4.2, quality.Years[2024]["pressure_ulcer_rate"])

	missing, err := svc.QualityFor(context.Background(), "999999")
	require.NoError(t, err)
	assert.Nil(t, missing)

	regulatory, err := svc.RegulatoryFor(context.Background(), "015009")
	require.NoError(t, err)
	assert.Nil(t, regulatory)
}
