package services

import (
	"strings"

	"github.com/carepath/snf-navigator/internal/domain/entities"
)

// SortIntent is a sort preference inferred from free text. Explicit reports
// whether the text actually expressed a preference or the default applied.
type SortIntent struct {
	By       entities.SortField
	Order    entities.SortOrder
	Explicit bool
}

// InferSortIntent maps conversational phrasing to sort parameters. The
// default is nearest-first.
func InferSortIntent(text string) SortIntent {
	t := strings.ToLower(text)

	switch {
	case strings.Contains(t, "closest"), strings.Contains(t, "nearest"), strings.Contains(t, "close by"), strings.Contains(t, "nearby"):
		return SortIntent{By: entities.SortByDistance, Order: entities.OrderAscending, Explicit: true}
	case strings.Contains(t, "worst"), strings.Contains(t, "lowest rated"):
		return SortIntent{By: entities.SortByComposite, Order: entities.OrderAscending, Explicit: true}
	case strings.Contains(t, "highest rated"), strings.Contains(t, "top rated"), strings.Contains(t, "best rated"):
		return SortIntent{By: entities.SortByRating, Order: entities.OrderDescending, Explicit: true}
	case strings.Contains(t, "best"), strings.Contains(t, "highest"), strings.Contains(t, "top"):
		return SortIntent{By: entities.SortByComposite, Order: entities.OrderDescending, Explicit: true}
	case strings.Contains(t, "alphabetical"), strings.Contains(t, "by name"):
		return SortIntent{By: entities.SortByName, Order: entities.OrderAscending, Explicit: true}
	}

	return SortIntent{By: entities.SortByDistance, Order: entities.OrderAscending}
}
