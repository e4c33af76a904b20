package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/moodmap/internal/model"
	"github.com/sells-group/moodmap/internal/mood"
)

var (
	coffeeProfile = mood.Profile{
		Key:                 "coffee",
		Categories:          []string{"cafe"},
		Keywords:            []string{"coffee", "espresso", "latte"},
		PreferredPriceTiers: []int{1, 2},
		PrioritizeRating:    true,
	}
	workProfile = mood.Profile{
		Key:                 "work",
		Categories:          []string{"cafe", "library"},
		PreferredPriceTiers: []int{1, 2},
		PrioritizeRating:    false,
	}
)

func TestScore_CoffeeExampleClampsTo100(t *testing.T) {
	t.Parallel()

	p := model.Place{
		ID:             "p1",
		Categories:     []string{"cafe"},
		Rating:         model.Float(4.6),
		RatingCount:    model.Int(600),
		OpenNow:        model.Bool(true),
		DistanceMeters: model.Float(200),
	}
	// 40 + 20 + 20 + 12 + 8 + 5 = 105.
	assert.Equal(t, 100, Score(p, coffeeProfile))
}

func TestScore_AllOptionalFieldsAbsent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 40, Score(model.Place{ID: "bare"}, coffeeProfile))
	assert.Equal(t, 40, Score(model.Place{ID: "bare"}, mood.Profile{}))
}

func TestScore_CategoryBonuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		categories []string
		want       int
	}{
		{"primary only", []string{"cafe"}, 60},
		{"primary and secondary", []string{"library", "cafe"}, 70},
		{"secondary only", []string{"library"}, 50},
		{"unrelated", []string{"gym"}, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Score(model.Place{Categories: tt.categories}, workProfile))
		})
	}
}

func TestScore_Price(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 52, Score(model.Place{PriceTier: model.Int(2)}, coffeeProfile))
	assert.Equal(t, 35, Score(model.Place{PriceTier: model.Int(4)}, coffeeProfile))

	noTiers := coffeeProfile
	noTiers.PreferredPriceTiers = nil
	assert.Equal(t, 40, Score(model.Place{PriceTier: model.Int(4)}, noTiers))
}

func TestScore_PrioritizedRatingTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rating float64
		want   int
	}{
		{5.0, 60},
		{4.5, 60},
		{4.2, 55},
		{3.5, 50},
		{2.0, 45},
		{0, 45},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(model.Place{Rating: model.Float(tt.rating)}, coffeeProfile), "rating %v", tt.rating)
	}
}

func TestScore_LinearRatingWhenNotPrioritized(t *testing.T) {
	t.Parallel()

	// 40 + 4.3/5*10 = 48.6 -> 49.
	assert.Equal(t, 49, Score(model.Place{Rating: model.Float(4.3)}, workProfile))
	assert.Equal(t, 50, Score(model.Place{Rating: model.Float(5)}, workProfile))
}

func TestScore_Popularity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		count int
		want  int
	}{
		{1000, 52},
		{500, 52},
		{100, 48},
		{50, 45},
		{1, 42},
		{0, 40},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(model.Place{RatingCount: model.Int(tt.count)}, coffeeProfile), "count %d", tt.count)
	}
}

func TestScore_OpenNowAndDistance(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 48, Score(model.Place{OpenNow: model.Bool(true)}, coffeeProfile))
	assert.Equal(t, 40, Score(model.Place{OpenNow: model.Bool(false)}, coffeeProfile))

	assert.Equal(t, 45, Score(model.Place{DistanceMeters: model.Float(499)}, coffeeProfile))
	assert.Equal(t, 40, Score(model.Place{DistanceMeters: model.Float(500)}, coffeeProfile))
	assert.Equal(t, 40, Score(model.Place{DistanceMeters: model.Float(3000)}, coffeeProfile))
	assert.Equal(t, 35, Score(model.Place{DistanceMeters: model.Float(3001)}, coffeeProfile))
}

func TestScore_Combined(t *testing.T) {
	t.Parallel()

	p := model.Place{
		Categories:     []string{"cafe", "library"},
		Rating:         model.Float(4.0),
		RatingCount:    model.Int(60),
		PriceTier:      model.Int(3),
		DistanceMeters: model.Float(4000),
	}
	// 40 + 20 + 10 - 5 + 8 + 5 - 5 = 73.
	assert.Equal(t, 73, Score(p, workProfile))
}

func TestScore_AlwaysInRange(t *testing.T) {
	t.Parallel()

	ratings := []*float64{nil, model.Float(0), model.Float(2.5), model.Float(5)}
	counts := []*int{nil, model.Int(0), model.Int(75), model.Int(5000)}
	tiers := []*int{nil, model.Int(0), model.Int(2), model.Int(4)}
	opens := []*bool{nil, model.Bool(true), model.Bool(false)}
	dists := []*float64{nil, model.Float(10), model.Float(1000), model.Float(50000)}

	for _, profile := range []mood.Profile{coffeeProfile, workProfile} {
		for _, r := range ratings {
			for _, c := range counts {
				for _, tier := range tiers {
					for _, o := range opens {
						for _, d := range dists {
							p := model.Place{
								Categories:     []string{"cafe", "library"},
								Rating:         r,
								RatingCount:    c,
								PriceTier:      tier,
								OpenNow:        o,
								DistanceMeters: d,
							}
							s := Score(p, profile)
							assert.GreaterOrEqual(t, s, 0)
							assert.LessOrEqual(t, s, 100)
							assert.Equal(t, s, Score(p, profile))
						}
					}
				}
			}
		}
	}
}

func TestAnnotate(t *testing.T) {
	t.Parallel()

	places := []model.Place{
		{ID: "a", Categories: []string{"cafe"}},
		{ID: "b"},
	}
	Annotate(places, coffeeProfile)

	if assert.NotNil(t, places[0].RelevanceScore) {
		assert.Equal(t, 60, *places[0].RelevanceScore)
	}
	if assert.NotNil(t, places[1].RelevanceScore) {
		assert.Equal(t, 40, *places[1].RelevanceScore)
	}
}
