// Package places adapts place search backends to the canonical model.
package places

import (
	"context"

	"github.com/sells-group/moodmap/internal/model"
)

// Provider searches for places near an origin. Implementations return
// canonical records and map infrastructure outages to
// model.ErrProviderUnavailable.
type Provider interface {
	SearchByCategory(ctx context.Context, category string, origin model.LatLng, radiusMeters float64) ([]model.Place, error)
	SearchByKeyword(ctx context.Context, keyword string, origin model.LatLng, radiusMeters float64) ([]model.Place, error)
	Details(ctx context.Context, id string) (*model.Place, error)
	Autocomplete(ctx context.Context, input string, origin *model.LatLng) ([]model.Suggestion, error)
}
