package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/pkg/ccn"
)

// BuildRegulatoryTimelines aggregates yearly citation and penalty rows into
// per-facility regulatory timelines keyed by normalized CCN.
func (s *TimelineService) BuildRegulatoryTimelines(ctx context.Context, years []int) (map[string]*entities.RegulatoryTimeline, error) {
	timelines := make(map[string]*entities.RegulatoryTimeline)

	for _, year := range years {
		citationRows, err := s.extracts.CitationRows(ctx, year)
		if err != nil {
			return nil, err
		}
		for _, row := range citationRows {
			key := ccn.Normalize(ccn.Field(row, "ccn"))
			if key == "" {
				continue
			}
			regYear := ensureRegulatoryYear(timelines, key, year)
			mergeCitation(&regYear.Citations, row)
		}

		penaltyRows, err := s.extracts.PenaltyRows(ctx, year)
		if err != nil {
			return nil, err
		}
		for _, row := range penaltyRows {
			key := ccn.Normalize(ccn.Field(row, "ccn"))
			if key == "" {
				continue
			}
			regYear := ensureRegulatoryYear(timelines, key, year)
			mergePenalty(&regYear.Penalties, row)
		}
	}

	return timelines, nil
}

func ensureRegulatoryYear(timelines map[string]*entities.RegulatoryTimeline, key string, year int) *entities.RegulatoryYear {
	timeline, ok := timelines[key]
	if !ok {
		timeline = &entities.RegulatoryTimeline{
			CCN:   key,
			Years: make(map[int]*entities.RegulatoryYear),
		}
		timelines[key] = timeline
	}
	regYear, ok := timeline.Years[year]
	if !ok {
		regYear = &entities.RegulatoryYear{}
		timeline.Years[year] = regYear
	}
	return regYear
}

func mergeCitation(summary *entities.CitationSummary, row repositories.ExtractRow) {
	summary.Total++

	switch ClassifySeverity(ccn.Field(row, "scope_severity")) {
	case entities.SeverityImmediateJeopardy:
		summary.ImmediateJeopardy++
	case entities.SeverityActualHarm:
		summary.ActualHarm++
	case entities.SeverityPotentialHarm:
		summary.PotentialHarm++
	case entities.SeverityMinimalHarm:
		summary.MinimalHarm++
	default:
		summary.Unknown++
	}

	if isInfectionControl(row) {
		summary.InfectionControl++
	}
}

// ClassifySeverity buckets a scope-severity code by its leading letter. CMS
// codes run A through L; the letter encodes harm level and the implicit
// second dimension (scope) does not change the bucket.
func ClassifySeverity(code string) entities.CitationSeverity {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return entities.SeverityUnknown
	}
	switch code[0] {
	case 'J', 'K', 'L':
		return entities.SeverityImmediateJeopardy
	case 'G', 'H', 'I':
		return entities.SeverityActualHarm
	case 'D', 'E', 'F':
		return entities.SeverityPotentialHarm
	case 'A', 'B', 'C':
		return entities.SeverityMinimalHarm
	default:
		return entities.SeverityUnknown
	}
}

// isInfectionControl recognizes infection-control deficiencies either from
// the explicit flag column or from the tag category text.
func isInfectionControl(row repositories.ExtractRow) bool {
	switch strings.ToLower(ccn.Field(row, "infection_control")) {
	case "y", "yes", "true", "1":
		return true
	}
	return strings.Contains(strings.ToLower(ccn.Field(row, "deficiency_category")), "infection")
}

func mergePenalty(summary *entities.PenaltySummary, row repositories.ExtractRow) {
	penaltyType := strings.ToLower(ccn.Field(row, "penalty_type"))

	if strings.Contains(penaltyType, "denial") {
		summary.PaymentDenials++
		return
	}

	summary.FineCount++
	if amount, err := strconv.ParseFloat(cleanAmount(ccn.Field(row, "fine_amount")), 64); err == nil {
		summary.FineTotal += amount
	}
}

// cleanAmount strips currency formatting from fine amounts ("$12,500.00").
func cleanAmount(s string) string {
	return strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
}
