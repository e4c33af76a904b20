package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// SortMode selects the result ordering.
type SortMode string

const (
	SortBestMatch    SortMode = "best"
	SortNearest      SortMode = "nearest"
	SortHighestRated SortMode = "rating"
	SortPriceAsc     SortMode = "price-asc"
	SortPriceDesc    SortMode = "price-desc"
)

// SortModes lists every supported mode, default first.
var SortModes = []SortMode{SortBestMatch, SortNearest, SortHighestRated, SortPriceAsc, SortPriceDesc}

// ParseSortMode maps a user-supplied name to a SortMode. An empty string
// yields SortBestMatch.
func ParseSortMode(s string) (SortMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortBestMatch, nil
	}
	for _, m := range SortModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", eris.Errorf("model: unknown sort mode %q", s)
}

// FilterCriteria holds the user-adjustable result filters.
type FilterCriteria struct {
	MinRating float64 `json:"min_rating" mapstructure:"min_rating"`
	// MaxDistanceMeters <= 0 means unbounded.
	MaxDistanceMeters float64 `json:"max_distance_meters" mapstructure:"max_distance_meters"`
	OpenNowOnly       bool    `json:"open_now_only" mapstructure:"open_now_only"`
	// PriceTiers nil or empty means any tier.
	PriceTiers []int  `json:"price_tiers,omitempty" mapstructure:"price_tiers"`
	Query      string `json:"query,omitempty" mapstructure:"query"`
}

// DefaultFilter returns criteria that exclude nothing.
func DefaultFilter() FilterCriteria {
	return FilterCriteria{}
}

// FilterPatch carries a partial update to FilterCriteria. Nil fields are left
// unchanged by Merge.
type FilterPatch struct {
	MinRating         *float64
	MaxDistanceMeters *float64
	OpenNowOnly       *bool
	PriceTiers        *[]int
	Query             *string
}

// Merge returns a copy of c with the non-nil patch fields applied.
func (c FilterCriteria) Merge(p FilterPatch) FilterCriteria {
	out := c.Clone()
	if p.MinRating != nil {
		out.MinRating = *p.MinRating
	}
	if p.MaxDistanceMeters != nil {
		out.MaxDistanceMeters = *p.MaxDistanceMeters
	}
	if p.OpenNowOnly != nil {
		out.OpenNowOnly = *p.OpenNowOnly
	}
	if p.PriceTiers != nil {
		if *p.PriceTiers == nil {
			out.PriceTiers = nil
		} else {
			out.PriceTiers = append([]int{}, (*p.PriceTiers)...)
		}
	}
	if p.Query != nil {
		out.Query = *p.Query
	}
	return out
}

// Clone returns a deep copy of the criteria.
func (c FilterCriteria) Clone() FilterCriteria {
	out := c
	if c.PriceTiers != nil {
		out.PriceTiers = append([]int{}, c.PriceTiers...)
	}
	return out
}
