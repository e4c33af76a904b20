// Package mood maps free-text intents to place categories and search keywords
// using a static, ordered rule table.
package mood

import (
	_ "embed"
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const maxSuggestions = 6

//go:embed moods.yaml
var defaultTable []byte

// Fallback profile values used when nothing in the table matches.
var (
	fallbackCategories = []string{"restaurant", "cafe"}
	fallbackPriceTiers = []int{1, 2, 3}
)

// Profile describes what to search for when the user is in a given mood.
type Profile struct {
	Key                 string   `json:"key"`
	Categories          []string `json:"categories"`
	Keywords            []string `json:"keywords"`
	Description         string   `json:"description"`
	PreferredPriceTiers []int    `json:"preferred_price_tiers,omitempty"`
	PrioritizeRating    bool     `json:"prioritize_rating"`
}

// Primary returns the highest-priority category.
func (p Profile) Primary() string {
	if len(p.Categories) == 0 {
		return ""
	}
	return p.Categories[0]
}

// PrefersTier reports whether tier is among the preferred price tiers.
func (p Profile) PrefersTier(tier int) bool {
	for _, t := range p.PreferredPriceTiers {
		if t == tier {
			return true
		}
	}
	return false
}

func (p Profile) clone() Profile {
	out := p
	out.Categories = append([]string(nil), p.Categories...)
	out.Keywords = append([]string(nil), p.Keywords...)
	out.PreferredPriceTiers = append([]int(nil), p.PreferredPriceTiers...)
	return out
}

type tableFile struct {
	Popular []string     `yaml:"popular"`
	Moods   []tableEntry `yaml:"moods"`
}

type tableEntry struct {
	Key              string   `yaml:"key"`
	Description      string   `yaml:"description"`
	Categories       []string `yaml:"categories"`
	Keywords         []string `yaml:"keywords"`
	PriceTiers       []int    `yaml:"price_tiers"`
	PrioritizeRating bool     `yaml:"prioritize_rating"`
}

// Registry is an immutable, ordered mood table. Safe for concurrent use.
type Registry struct {
	profiles []Profile
	normKeys []string
	index    map[string]int
	popular  []int
}

// NewRegistry parses a YAML mood table.
func NewRegistry(data []byte) (*Registry, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, eris.Wrap(err, "mood: parse table")
	}
	if len(tf.Moods) == 0 {
		return nil, eris.New("mood: table has no moods")
	}

	r := &Registry{
		profiles: make([]Profile, 0, len(tf.Moods)),
		normKeys: make([]string, 0, len(tf.Moods)),
		index:    make(map[string]int, len(tf.Moods)),
	}

	for i, e := range tf.Moods {
		p, err := e.profile()
		if err != nil {
			return nil, eris.Wrapf(err, "mood: entry %d", i)
		}
		norm := Normalize(p.Key)
		if _, dup := r.index[norm]; dup {
			return nil, eris.Errorf("mood: duplicate key %q", p.Key)
		}
		r.index[norm] = len(r.profiles)
		r.profiles = append(r.profiles, p)
		r.normKeys = append(r.normKeys, norm)
	}

	for _, key := range tf.Popular {
		idx, ok := r.index[Normalize(key)]
		if !ok {
			return nil, eris.Errorf("mood: popular mood %q not in table", key)
		}
		r.popular = append(r.popular, idx)
	}

	return r, nil
}

func (e tableEntry) profile() (Profile, error) {
	if strings.TrimSpace(e.Key) == "" {
		return Profile{}, eris.New("key is required")
	}
	if len(e.Categories) == 0 {
		return Profile{}, eris.Errorf("%s: at least one category is required", e.Key)
	}

	seen := make(map[string]bool, len(e.Categories))
	for _, c := range e.Categories {
		if seen[c] {
			return Profile{}, eris.Errorf("%s: duplicate category %q", e.Key, c)
		}
		seen[c] = true
	}
	for _, t := range e.PriceTiers {
		if t < 0 || t > 4 {
			return Profile{}, eris.Errorf("%s: price tier %d out of range 0-4", e.Key, t)
		}
	}

	keywords := make([]string, 0, len(e.Keywords))
	for _, kw := range e.Keywords {
		keywords = append(keywords, Normalize(kw))
	}

	return Profile{
		Key:                 e.Key,
		Categories:          append([]string(nil), e.Categories...),
		Keywords:            keywords,
		Description:         e.Description,
		PreferredPriceTiers: append([]int(nil), e.PriceTiers...),
		PrioritizeRating:    e.PrioritizeRating,
	}, nil
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	return NewRegistry(defaultTable)
})

// Default returns the registry built from the embedded table.
func Default() (*Registry, error) {
	return defaultRegistry()
}

// Load returns the registry from the YAML file at path, or the embedded table
// when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "mood: read table %s", path)
	}
	r, err := NewRegistry(data)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("loaded mood table", zap.String("path", path), zap.Int("moods", len(r.profiles)))
	return r, nil
}

// Normalize lower-cases text, turns hyphens into spaces, and collapses runs of
// whitespace.
func Normalize(s string) string {
	s = cases.Lower(language.Und).String(s)
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Resolve maps free text to a profile. The first rule that matches wins:
// exact key, partial key, keyword, then a generic fallback.
func (r *Registry) Resolve(text string) Profile {
	input := Normalize(text)
	if input == "" {
		return fallback(input)
	}

	if idx, ok := r.index[input]; ok {
		return r.profiles[idx].clone()
	}

	for i, key := range r.normKeys {
		if strings.Contains(input, key) || strings.Contains(key, input) {
			return r.profiles[i].clone()
		}
	}

	for _, p := range r.profiles {
		for _, kw := range p.Keywords {
			if strings.Contains(input, kw) || strings.Contains(kw, input) {
				return p.clone()
			}
		}
	}

	return fallback(input)
}

func fallback(input string) Profile {
	p := Profile{
		Key:                 input,
		Categories:          append([]string(nil), fallbackCategories...),
		Description:         "Places matching your search",
		PreferredPriceTiers: append([]int(nil), fallbackPriceTiers...),
		PrioritizeRating:    true,
	}
	if input != "" {
		p.Keywords = []string{input}
		p.Description = `Places matching "` + input + `"`
	}
	return p
}

// Suggest returns autocomplete candidates. Empty input yields the curated
// popular list; otherwise key matches precede keyword matches, capped at 6.
func (r *Registry) Suggest(text string) []Profile {
	input := Normalize(text)
	if input == "" {
		out := make([]Profile, 0, len(r.popular))
		for _, idx := range r.popular {
			out = append(out, r.profiles[idx].clone())
		}
		return out
	}

	var out []Profile
	taken := make(map[int]bool)
	for i, key := range r.normKeys {
		if len(out) == maxSuggestions {
			return out
		}
		if strings.Contains(key, input) {
			out = append(out, r.profiles[i].clone())
			taken[i] = true
		}
	}
	for i, p := range r.profiles {
		if len(out) == maxSuggestions {
			break
		}
		if taken[i] {
			continue
		}
		for _, kw := range p.Keywords {
			if strings.Contains(kw, input) {
				out = append(out, p.clone())
				break
			}
		}
	}
	return out
}

// Profiles returns every profile in table order.
func (r *Registry) Profiles() []Profile {
	out := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p.clone())
	}
	return out
}

// Lookup returns the profile registered under key.
func (r *Registry) Lookup(key string) (Profile, bool) {
	idx, ok := r.index[Normalize(key)]
	if !ok {
		return Profile{}, false
	}
	return r.profiles[idx].clone(), true
}
