package services

import (
	"sort"

	"github.com/carepath/snf-navigator/internal/domain/entities"
)

// ResolveMetric combines a facility's live metrics with its historical
// timeline for one metric definition. The live value wins when present;
// otherwise the most recent historical value is used. A trend is computed
// only when the metric itself appears in at least two distinct years;
// presence of other metrics in a year does not count.
func ResolveMetric(current map[string]float64, years map[int]map[string]float64, def entities.MetricDefinition) entities.ResolvedMetricValue {
	resolved := entities.ResolvedMetricValue{Source: entities.SourceNone}

	var currentValue *float64
	if def.CurrentKey != "" && current != nil {
		if v, ok := current[def.CurrentKey]; ok {
			currentValue = &v
		}
	}

	metricYears := make([]int, 0, len(years))
	for year, metrics := range years {
		if _, ok := metrics[def.HistoricalKey]; ok {
			metricYears = append(metricYears, year)
		}
	}
	sort.Ints(metricYears)

	var historicalLatest, earliestValue *float64
	if len(metricYears) > 0 {
		latestYear := metricYears[len(metricYears)-1]
		earliestYear := metricYears[0]

		latest := years[latestYear][def.HistoricalKey]
		historicalLatest = &latest
		earliest := years[earliestYear][def.HistoricalKey]
		earliestValue = &earliest

		resolved.LatestHistoricalYear = &latestYear
	}

	switch {
	case currentValue != nil:
		resolved.Value = currentValue
		resolved.Source = entities.SourceCurrent
	case historicalLatest != nil:
		resolved.Value = historicalLatest
		resolved.Source = entities.SourceHistorical
	}

	if len(metricYears) >= 2 && historicalLatest != nil && earliestValue != nil {
		delta := *historicalLatest - *earliestValue
		resolved.Trend = &entities.MetricTrend{
			Delta:           delta,
			DirectionIsGood: (delta > 0) == def.HigherIsBetter,
			YearSpan:        metricYears[len(metricYears)-1] - metricYears[0],
		}
	}

	return resolved
}

// ResolveAllMetrics resolves the whole catalog for one facility.
func ResolveAllMetrics(current map[string]float64, years map[int]map[string]float64) map[string]entities.ResolvedMetricValue {
	resolved := make(map[string]entities.ResolvedMetricValue, len(MetricCatalog))
	for _, def := range MetricCatalog {
		resolved[def.HistoricalKey] = ResolveMetric(current, years, def)
	}
	return resolved
}
