package places

import (
	"github.com/sells-group/moodmap/internal/model"
	"github.com/sells-group/moodmap/pkg/google"
)

var priceLevels = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

// PriceTier maps a Places API price level enum to a 0-4 tier. Unknown and
// unspecified levels are absent.
func PriceTier(level string) *int {
	tier, ok := priceLevels[level]
	if !ok {
		return nil
	}
	return &tier
}

func toPlaces(in []google.Place) []model.Place {
	out := make([]model.Place, 0, len(in))
	for _, gp := range in {
		if p, ok := toPlace(gp); ok {
			out = append(out, p)
		}
	}
	return out
}

// toPlace converts a Places API record. Records without an id or location
// cannot be deduplicated or measured and are dropped.
func toPlace(gp google.Place) (model.Place, bool) {
	if gp.ID == "" || gp.Location == nil {
		return model.Place{}, false
	}

	p := model.Place{
		ID:          gp.ID,
		Name:        gp.DisplayName.Text,
		Address:     gp.ShortFormattedAddress,
		Location:    model.LatLng{Lat: gp.Location.Latitude, Lng: gp.Location.Longitude},
		Rating:      gp.Rating,
		RatingCount: gp.UserRatingCount,
		PriceTier:   PriceTier(gp.PriceLevel),
	}
	if p.Address == "" {
		p.Address = gp.FormattedAddress
	}
	if gp.CurrentOpeningHours != nil {
		p.OpenNow = gp.CurrentOpeningHours.OpenNow
	}

	seen := make(map[string]bool, len(gp.Types))
	for _, t := range gp.Types {
		if t != "" && !seen[t] {
			seen[t] = true
			p.Categories = append(p.Categories, t)
		}
	}
	for _, ph := range gp.Photos {
		if ph.Name != "" {
			p.Photos = append(p.Photos, ph.Name)
		}
	}
	return p, true
}

func toSuggestions(in []google.AutocompleteSuggestion) []model.Suggestion {
	out := make([]model.Suggestion, 0, len(in))
	for _, s := range in {
		pp := s.PlacePrediction
		if pp == nil || pp.PlaceID == "" {
			continue
		}
		sg := model.Suggestion{ID: pp.PlaceID, MainText: pp.Text.Text}
		if sf := pp.StructuredFormat; sf != nil {
			if sf.MainText.Text != "" {
				sg.MainText = sf.MainText.Text
			}
			sg.SecondaryText = sf.SecondaryText.Text
		}
		out = append(out, sg)
	}
	return out
}
