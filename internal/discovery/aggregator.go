// Package discovery fans a mood profile out into provider queries and merges
// the answers into one deduplicated candidate list.
package discovery

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/moodmap/internal/geo"
	"github.com/sells-group/moodmap/internal/metrics"
	"github.com/sells-group/moodmap/internal/model"
	"github.com/sells-group/moodmap/internal/mood"
	"github.com/sells-group/moodmap/internal/places"
)

const (
	// DefaultMaxResults caps the merged candidate list.
	DefaultMaxResults = 20
	// DefaultConcurrency bounds in-flight provider queries per search.
	DefaultConcurrency = 4
)

type queryKind string

const (
	kindCategory queryKind = "category"
	kindKeyword  queryKind = "keyword"
)

type query struct {
	kind queryKind
	term string
}

// Aggregator runs one search per profile category and keyword.
type Aggregator struct {
	provider    places.Provider
	maxResults  int
	concurrency int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithMaxResults caps the merged list. Non-positive values are ignored.
func WithMaxResults(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxResults = n
		}
	}
}

// WithConcurrency bounds parallel provider queries. Non-positive values are ignored.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// NewAggregator returns an Aggregator over provider.
func NewAggregator(provider places.Provider, opts ...Option) *Aggregator {
	a := &Aggregator{
		provider:    provider,
		maxResults:  DefaultMaxResults,
		concurrency: DefaultConcurrency,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Search queries the provider for every category and non-empty keyword of
// profile and merges the results in query order. The first occurrence of an
// id wins. Each place gets its distance from origin; nothing is scored or
// sorted.
//
// A failed sub-query contributes nothing. Only when every sub-query fails and
// at least one failure was an outage does Search return
// model.ErrProviderUnavailable; otherwise the result may be empty or partial.
func (a *Aggregator) Search(ctx context.Context, profile mood.Profile, origin model.LatLng, radiusMeters float64) ([]model.Place, error) {
	start := time.Now()
	log := zap.L().With(zap.String("mood", profile.Key))

	queries := buildQueries(profile)
	results := make([][]model.Place, len(queries))
	errs := make([]error, len(queries))

	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)

	for i, q := range queries {
		g.Go(func() error {
			var (
				found []model.Place
				err   error
			)
			switch q.kind {
			case kindCategory:
				found, err = a.provider.SearchByCategory(ctx, q.term, origin, radiusMeters)
			default:
				found, err = a.provider.SearchByKeyword(ctx, q.term, origin, radiusMeters)
			}
			if err != nil {
				metrics.SubqueryFailures.WithLabelValues(string(q.kind)).Inc()
				log.Warn("sub-query failed",
					zap.String("kind", string(q.kind)),
					zap.String("term", q.term),
					zap.Error(err),
				)
				errs[i] = err
				return nil // don't fail the group
			}
			results[i] = found
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "discovery: search")
	}
	if allFailed(errs) && anyOutage(errs) {
		return nil, eris.Wrapf(model.ErrProviderUnavailable, "discovery: all %d sub-queries failed", len(queries))
	}

	merged := a.merge(results, origin)

	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchResults.Observe(float64(len(merged)))
	log.Debug("search merged",
		zap.Int("queries", len(queries)),
		zap.Int("results", len(merged)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return merged, nil
}

func buildQueries(profile mood.Profile) []query {
	qs := make([]query, 0, len(profile.Categories)+len(profile.Keywords))
	for _, c := range profile.Categories {
		qs = append(qs, query{kind: kindCategory, term: c})
	}
	for _, kw := range profile.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			qs = append(qs, query{kind: kindKeyword, term: kw})
		}
	}
	return qs
}

func (a *Aggregator) merge(results [][]model.Place, origin model.LatLng) []model.Place {
	seen := make(map[string]bool)
	var out []model.Place
	for _, batch := range results {
		for _, p := range batch {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			d := geo.DistanceMeters(origin, p.Location)
			p.DistanceMeters = &d
			out = append(out, p)
			if len(out) == a.maxResults {
				return out
			}
		}
	}
	return out
}

func allFailed(errs []error) bool {
	if len(errs) == 0 {
		return false
	}
	for _, err := range errs {
		if err == nil {
			return false
		}
	}
	return true
}

// anyOutage reports whether a failure looks like the provider being down
// rather than a bad request. Timeouts count: a hung upstream is an outage.
func anyOutage(errs []error) bool {
	for _, err := range errs {
		if errors.Is(err, model.ErrProviderUnavailable) || errors.Is(err, model.ErrTimeout) {
			return true
		}
	}
	return false
}
