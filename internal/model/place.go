// Package model defines the canonical place, filter, and error types shared by
// every stage of a mood search.
package model

// LatLng is a WGS84 coordinate in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a single normalized search result. Optional provider fields are
// pointers: nil means the provider did not report a value.
type Place struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Location    LatLng   `json:"location"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int     `json:"rating_count,omitempty"`
	PriceTier   *int     `json:"price_tier,omitempty"`
	OpenNow     *bool    `json:"open_now,omitempty"`
	Photos      []string `json:"photos,omitempty"`

	// Derived after retrieval.
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	RelevanceScore *int     `json:"relevance_score,omitempty"`
}

// HasCategory reports whether the place is tagged with category.
func (p Place) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Suggestion is an autocomplete prediction.
type Suggestion struct {
	ID            string `json:"id"`
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
