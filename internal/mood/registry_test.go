package mood

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRegistryT(t *testing.T) *Registry {
	t.Helper()
	r, err := Default()
	require.NoError(t, err)
	return r
}

func TestDefault_LoadsEmbeddedTable(t *testing.T) {
	r := defaultRegistryT(t)
	assert.NotEmpty(t, r.Profiles())
	for _, p := range r.Profiles() {
		assert.NotEmpty(t, p.Categories, "mood %q has no categories", p.Key)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Coffee", "coffee"},
		{"  Date-Night ", "date night"},
		{"late   night--snack", "late night snack"},
		{"ÉCLAIR", "éclair"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestResolve_ExactKeyReturnsProfile(t *testing.T) {
	r := defaultRegistryT(t)

	for _, p := range r.Profiles() {
		got := r.Resolve(p.Key)
		assert.Equal(t, p, got, "exact key %q", p.Key)
	}
}

func TestResolve_Coffee(t *testing.T) {
	r := defaultRegistryT(t)

	p := r.Resolve("coffee")
	assert.Equal(t, "coffee", p.Key)
	assert.Equal(t, []string{"cafe"}, p.Categories)
	assert.Contains(t, p.Keywords, "coffee")
	assert.Contains(t, p.Keywords, "espresso")
	assert.Contains(t, p.Keywords, "latte")
}

func TestResolve_HyphenAndCaseInsensitive(t *testing.T) {
	r := defaultRegistryT(t)

	assert.Equal(t, "date-night", r.Resolve("Date Night").Key)
	assert.Equal(t, "date-night", r.Resolve("DATE-NIGHT").Key)
}

func TestResolve_PartialMatchUsesTableOrder(t *testing.T) {
	r := defaultRegistryT(t)

	// Key contained in the input.
	assert.Equal(t, "coffee", r.Resolve("coffee with friends").Key)
	// Both coffee and a later key appear; the first table entry wins.
	assert.Equal(t, "coffee", r.Resolve("coffee then drinks").Key)
	// Input contained in a key: "date night" precedes "nightlife".
	assert.Equal(t, "date-night", r.Resolve("night").Key)
}

func TestResolve_KeywordMatch(t *testing.T) {
	r := defaultRegistryT(t)

	assert.Equal(t, "date-night", r.Resolve("romantic dinner").Key)
	assert.Equal(t, "coffee", r.Resolve("espresso").Key)
	assert.Equal(t, "coffee", r.Resolve("cafe").Key)
	// Input contained in a keyword.
	assert.Equal(t, "dessert", r.Resolve("gelat").Key)
}

func TestResolve_Fallback(t *testing.T) {
	r := defaultRegistryT(t)

	p := r.Resolve("  Xyzzy Plugh ")
	assert.Equal(t, "xyzzy plugh", p.Key)
	assert.Equal(t, []string{"restaurant", "cafe"}, p.Categories)
	assert.Equal(t, []string{"xyzzy plugh"}, p.Keywords)
	assert.Equal(t, []int{1, 2, 3}, p.PreferredPriceTiers)
	assert.True(t, p.PrioritizeRating)
}

func TestResolve_EmptyInputFallsBackWithoutKeywords(t *testing.T) {
	r := defaultRegistryT(t)

	p := r.Resolve("   ")
	assert.Equal(t, []string{"restaurant", "cafe"}, p.Categories)
	assert.Empty(t, p.Keywords)
}

func TestResolve_AlwaysHasCategories(t *testing.T) {
	r := defaultRegistryT(t)

	inputs := []string{"", "a", "zz", "!!!", "coffee", "something completely different", "---", "日本料理"}
	for _, in := range inputs {
		p := r.Resolve(in)
		assert.NotEmpty(t, p.Categories, "input %q", in)
	}
}

func TestResolve_ReturnsCopies(t *testing.T) {
	r := defaultRegistryT(t)

	p := r.Resolve("coffee")
	p.Categories[0] = "mutated"
	p.Keywords = append(p.Keywords[:0], "mutated")

	again := r.Resolve("coffee")
	assert.Equal(t, "cafe", again.Primary())
	assert.Contains(t, again.Keywords, "espresso")
}

func TestSuggest_EmptyReturnsPopularInOrder(t *testing.T) {
	r := defaultRegistryT(t)

	got := r.Suggest("")
	keys := make([]string, 0, len(got))
	for _, p := range got {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"coffee", "date-night", "brunch", "work", "drinks", "outdoors"}, keys)
}

func TestSuggest_KeyMatchesBeforeKeywordMatches(t *testing.T) {
	r := defaultRegistryT(t)

	got := r.Suggest("night")
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, "date-night", got[0].Key)
	assert.Equal(t, "nightlife", got[1].Key)
}

func TestSuggest_KeywordOnlyMatch(t *testing.T) {
	r := defaultRegistryT(t)

	got := r.Suggest("latte")
	require.Len(t, got, 1)
	assert.Equal(t, "coffee", got[0].Key)
}

func TestSuggest_CappedAtSix(t *testing.T) {
	r := defaultRegistryT(t)

	// "e" appears in most keys and keywords.
	got := r.Suggest("e")
	assert.Len(t, got, maxSuggestions)

	seen := make(map[string]bool)
	for _, p := range got {
		assert.False(t, seen[p.Key], "duplicate suggestion %q", p.Key)
		seen[p.Key] = true
	}
}

func TestSuggest_NoMatch(t *testing.T) {
	r := defaultRegistryT(t)
	assert.Empty(t, r.Suggest("qqqq"))
}

func TestLookup(t *testing.T) {
	r := defaultRegistryT(t)

	p, ok := r.Lookup("Quick Bite")
	require.True(t, ok)
	assert.Equal(t, "quick-bite", p.Key)

	_, ok = r.Lookup("nope")
	assert.False(t, ok)
}

func TestNewRegistry_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "moods: []", "no moods"},
		{"missing key", "moods:\n  - categories: [cafe]", "key is required"},
		{"no categories", "moods:\n  - key: a", "at least one category"},
		{"duplicate category", "moods:\n  - key: a\n    categories: [cafe, cafe]", "duplicate category"},
		{"tier out of range", "moods:\n  - key: a\n    categories: [cafe]\n    price_tiers: [5]", "out of range"},
		{"duplicate key", "moods:\n  - key: a-b\n    categories: [cafe]\n  - key: a b\n    categories: [bar]", "duplicate key"},
		{"unknown popular", "popular: [zz]\nmoods:\n  - key: a\n    categories: [cafe]", "not in table"},
		{"bad yaml", "moods: [", "parse table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewRegistry([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := t.TempDir() + "/moods.yaml"
	data := []byte("moods:\n  - key: tea\n    categories: [cafe]\n    keywords: [Matcha]\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tea", r.Resolve("matcha latte").Key)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir() + "/missing.yaml")
	assert.Error(t, err)
}
