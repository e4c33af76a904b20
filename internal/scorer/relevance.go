// Package scorer computes how well a place fits a mood profile.
package scorer

import (
	"math"

	"github.com/sells-group/moodmap/internal/model"
	"github.com/sells-group/moodmap/internal/mood"
)

// Score adjustments. The base applies to every place; the rest are additive.
const (
	baseScore = 40

	primaryCategoryBonus   = 20
	secondaryCategoryBonus = 10

	preferredPriceBonus = 12
	otherPricePenalty   = -5

	openNowBonus = 8

	farPenalty = -5
	farMeters  = 3000.0
	nearBonus  = 5
	nearMeters = 500.0

	// ratingScale is the bonus for a perfect rating when rating is not prioritized.
	ratingScale = 10.0

	minScore = 0.0
	maxScore = 100.0
)

// Score returns the relevance of place for profile, clamped to [0, 100] and
// rounded. It is pure: identical inputs always yield the same score.
func Score(p model.Place, profile mood.Profile) int {
	score := float64(baseScore)

	score += categoryScore(p, profile)
	score += priceScore(p, profile)
	score += ratingScore(p, profile)
	score += popularityScore(p)

	if p.OpenNow != nil && *p.OpenNow {
		score += openNowBonus
	}

	if p.DistanceMeters != nil {
		switch d := *p.DistanceMeters; {
		case d > farMeters:
			score += farPenalty
		case d < nearMeters:
			score += nearBonus
		}
	}

	return int(math.Round(math.Max(minScore, math.Min(maxScore, score))))
}

func categoryScore(p model.Place, profile mood.Profile) float64 {
	var s float64
	for i, c := range profile.Categories {
		if !p.HasCategory(c) {
			continue
		}
		if i == 0 {
			s += primaryCategoryBonus
		} else {
			s += secondaryCategoryBonus
		}
	}
	return s
}

func priceScore(p model.Place, profile mood.Profile) float64 {
	if p.PriceTier == nil || len(profile.PreferredPriceTiers) == 0 {
		return 0
	}
	if profile.PrefersTier(*p.PriceTier) {
		return preferredPriceBonus
	}
	return otherPricePenalty
}

func ratingScore(p model.Place, profile mood.Profile) float64 {
	if p.Rating == nil {
		return 0
	}
	r := *p.Rating
	if !profile.PrioritizeRating {
		return r / 5 * ratingScale
	}
	switch {
	case r >= 4.5:
		return 20
	case r >= 4.0:
		return 15
	case r >= 3.5:
		return 10
	default:
		return 5
	}
}

func popularityScore(p model.Place) float64 {
	if p.RatingCount == nil {
		return 0
	}
	switch n := *p.RatingCount; {
	case n >= 500:
		return 12
	case n >= 100:
		return 8
	case n >= 50:
		return 5
	case n > 0:
		return 2
	default:
		return 0
	}
}

// Annotate writes the relevance score onto each place in the slice.
func Annotate(places []model.Place, profile mood.Profile) {
	for i := range places {
		s := Score(places[i], profile)
		places[i].RelevanceScore = &s
	}
}
