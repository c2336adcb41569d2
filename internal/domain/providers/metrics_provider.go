package providers

import (
	"context"
)

// LiveMetricsProvider fetches current quality metrics for a facility from the
// external provider-data service, keyed by normalized CCN.
type LiveMetricsProvider interface {
	FetchMetrics(ctx context.Context, ccn string) (map[string]float64, error)
}
