// Package ranking filters and orders candidate places.
package ranking

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/moodmap/internal/model"
	"github.com/sells-group/moodmap/internal/mood"
	"github.com/sells-group/moodmap/internal/scorer"
)

// Best-match weights.
const (
	relevanceWeight  = 0.3
	ratingWeight     = 25.0
	popularityWeight = 15.0
	popularityCap    = 500.0
	proximityMax     = 20.0
	proximityStepM   = 500.0
	openNowWeight    = 10.0
	maxRating        = 5.0
)

// Price sorts place a missing tier after every real tier.
const (
	missingTierAsc  = 5
	missingTierDesc = -1
)

// Pipeline applies FilterCriteria and a SortMode to a candidate list.
// The zero value is ready to use.
type Pipeline struct {
	// MissingDistanceLast sorts places without a distance after all others
	// in SortNearest. By default they compare as distance 0 and lead.
	MissingDistanceLast bool
}

// Apply returns the places that pass criteria, ordered by mode. The input
// slice is never reordered; ties keep their input order. profile, when
// non-nil, feeds the relevance term of SortBestMatch.
func (p Pipeline) Apply(places []model.Place, criteria model.FilterCriteria, mode model.SortMode, profile *mood.Profile) []model.Place {
	out := Filter(places, criteria)
	p.Sort(out, mode, profile)
	return out
}

// Filter returns a new slice of the places satisfying every predicate.
// A predicate on a field the place does not report lets the place through.
func Filter(places []model.Place, c model.FilterCriteria) []model.Place {
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(c.Query))
	out := make([]model.Place, 0, len(places))
	for _, pl := range places {
		if keep(pl, c, fold, query) {
			out = append(out, pl)
		}
	}
	return out
}

func keep(p model.Place, c model.FilterCriteria, fold cases.Caser, foldedQuery string) bool {
	if c.MinRating > 0 && p.Rating != nil && *p.Rating < c.MinRating {
		return false
	}
	if c.MaxDistanceMeters > 0 && p.DistanceMeters != nil && *p.DistanceMeters > c.MaxDistanceMeters {
		return false
	}
	if c.OpenNowOnly && p.OpenNow != nil && !*p.OpenNow {
		return false
	}
	if len(c.PriceTiers) > 0 && p.PriceTier != nil && !containsInt(c.PriceTiers, *p.PriceTier) {
		return false
	}
	if foldedQuery != "" {
		if !strings.Contains(fold.String(p.Name), foldedQuery) &&
			!strings.Contains(fold.String(p.Address), foldedQuery) {
			return false
		}
	}
	return true
}

// Sort orders places in place with a stable sort.
func (p Pipeline) Sort(places []model.Place, mode model.SortMode, profile *mood.Profile) {
	switch mode {
	case model.SortNearest:
		sort.SliceStable(places, func(i, j int) bool {
			return p.nearer(places[i], places[j])
		})
	case model.SortHighestRated:
		sort.SliceStable(places, func(i, j int) bool {
			ri, rj := floatOr(places[i].Rating, 0), floatOr(places[j].Rating, 0)
			if ri != rj {
				return ri > rj
			}
			return intOr(places[i].RatingCount, 0) > intOr(places[j].RatingCount, 0)
		})
	case model.SortPriceAsc:
		sort.SliceStable(places, func(i, j int) bool {
			return intOr(places[i].PriceTier, missingTierAsc) < intOr(places[j].PriceTier, missingTierAsc)
		})
	case model.SortPriceDesc:
		sort.SliceStable(places, func(i, j int) bool {
			return intOr(places[i].PriceTier, missingTierDesc) > intOr(places[j].PriceTier, missingTierDesc)
		})
	default:
		type scored struct {
			place model.Place
			score float64
		}
		ss := make([]scored, len(places))
		for i, pl := range places {
			ss[i] = scored{place: pl, score: BestMatchScore(pl, profile)}
		}
		sort.SliceStable(ss, func(i, j int) bool {
			return ss[i].score > ss[j].score
		})
		for i := range ss {
			places[i] = ss[i].place
		}
	}
}

func (p Pipeline) nearer(a, b model.Place) bool {
	if p.MissingDistanceLast {
		switch {
		case a.DistanceMeters == nil:
			return false
		case b.DistanceMeters == nil:
			return true
		}
	}
	return floatOr(a.DistanceMeters, 0) < floatOr(b.DistanceMeters, 0)
}

// BestMatchScore is the composite used by SortBestMatch. The relevance term
// applies only when profile is non-nil.
func BestMatchScore(p model.Place, profile *mood.Profile) float64 {
	var s float64
	if profile != nil {
		s += relevanceWeight * float64(scorer.Score(p, *profile))
	}
	if p.Rating != nil {
		s += ratingWeight * *p.Rating / maxRating
	}
	if p.RatingCount != nil {
		s += math.Min(float64(*p.RatingCount)/popularityCap, 1) * popularityWeight
	}
	if p.DistanceMeters != nil {
		s += math.Max(0, proximityMax-*p.DistanceMeters/proximityStepM)
	}
	if p.OpenNow != nil && *p.OpenNow {
		s += openNowWeight
	}
	return s
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
