package google

// LatLng is a WGS84 coordinate as the Places API encodes it.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Circle is a search area.
type Circle struct {
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
}

// Area wraps a Circle for locationRestriction and locationBias fields.
type Area struct {
	Circle Circle `json:"circle"`
}

// NearbyRequest is the body of places:searchNearby.
type NearbyRequest struct {
	IncludedTypes       []string `json:"includedTypes,omitempty"`
	MaxResultCount      int      `json:"maxResultCount,omitempty"`
	LocationRestriction Area     `json:"locationRestriction"`
	RankPreference      string   `json:"rankPreference,omitempty"`
	LanguageCode        string   `json:"languageCode,omitempty"`
}

// TextRequest is the body of places:searchText.
type TextRequest struct {
	TextQuery    string `json:"textQuery"`
	PageSize     int    `json:"pageSize,omitempty"`
	LocationBias *Area  `json:"locationBias,omitempty"`
	OpenNow      bool   `json:"openNow,omitempty"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// SearchResponse is returned by both search endpoints.
type SearchResponse struct {
	Places []Place `json:"places"`
}

// Place is a place record. Optional numeric fields are pointers so callers
// can tell "absent" from zero.
type Place struct {
	ID                    string        `json:"id"`
	DisplayName           LocalizedText `json:"displayName"`
	FormattedAddress      string        `json:"formattedAddress,omitempty"`
	ShortFormattedAddress string        `json:"shortFormattedAddress,omitempty"`
	Types                 []string      `json:"types,omitempty"`
	Location              *LatLng       `json:"location,omitempty"`
	Rating                *float64      `json:"rating,omitempty"`
	UserRatingCount       *int          `json:"userRatingCount,omitempty"`
	PriceLevel            string        `json:"priceLevel,omitempty"`
	CurrentOpeningHours   *OpeningHours `json:"currentOpeningHours,omitempty"`
	Photos                []Photo       `json:"photos,omitempty"`
}

// LocalizedText is a string with its language.
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// OpeningHours carries only the open-now flag.
type OpeningHours struct {
	OpenNow *bool `json:"openNow,omitempty"`
}

// Photo is a photo reference. Name is the resource name used for media lookups.
type Photo struct {
	Name     string `json:"name"`
	WidthPx  int    `json:"widthPx,omitempty"`
	HeightPx int    `json:"heightPx,omitempty"`
}

// AutocompleteRequest is the body of places:autocomplete.
type AutocompleteRequest struct {
	Input        string `json:"input"`
	LocationBias *Area  `json:"locationBias,omitempty"`
	SessionToken string `json:"sessionToken,omitempty"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// AutocompleteResponse lists predictions.
type AutocompleteResponse struct {
	Suggestions []AutocompleteSuggestion `json:"suggestions"`
}

// AutocompleteSuggestion holds a place prediction. Query predictions are
// not requested and stay nil.
type AutocompleteSuggestion struct {
	PlacePrediction *PlacePrediction `json:"placePrediction,omitempty"`
}

// PlacePrediction is one predicted place.
type PlacePrediction struct {
	PlaceID          string            `json:"placeId"`
	Text             LocalizedText     `json:"text"`
	StructuredFormat *StructuredFormat `json:"structuredFormat,omitempty"`
}

// StructuredFormat splits a prediction into primary and secondary text.
type StructuredFormat struct {
	MainText      LocalizedText `json:"mainText"`
	SecondaryText LocalizedText `json:"secondaryText"`
}
