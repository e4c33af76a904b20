package session

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/moodmap/internal/locate"
	"github.com/sells-group/moodmap/internal/metrics"
	"github.com/sells-group/moodmap/internal/model"
	"github.com/sells-group/moodmap/internal/mood"
	"github.com/sells-group/moodmap/internal/ranking"
	"github.com/sells-group/moodmap/internal/scorer"
)

// DefaultRadiusMeters is the search radius when none is configured.
const DefaultRadiusMeters = 5000.0

// ErrNothingToRefresh is returned by Refresh before any search has run.
var ErrNothingToRefresh = eris.New("session: nothing to refresh")

// Resolver maps mood text to a profile.
type Resolver interface {
	Resolve(text string) mood.Profile
}

// Searcher runs an aggregated place search.
type Searcher interface {
	Search(ctx context.Context, profile mood.Profile, origin model.LatLng, radiusMeters float64) ([]model.Place, error)
}

// Snapshot is the published view of the controller.
type Snapshot struct {
	// Seq increases with every publication.
	Seq       uint64
	SessionID string
	State     State
	Mood      string
	Profile   *mood.Profile

	Origin         *model.LatLng
	OriginFallback bool
	LocationErr    error

	Criteria model.FilterCriteria
	Sort     model.SortMode
	Results  []model.Place
	// Total is the number of places before filtering.
	Total int
	Err   error
}

// Controller owns the single active search slot. All methods are safe for
// concurrent use.
type Controller struct {
	resolver Resolver
	searcher Searcher
	pipeline ranking.Pipeline
	radius   float64

	mu        sync.Mutex
	seq       uint64
	current   *Session
	state     State
	profile   *mood.Profile
	moodText  string
	origin    *model.LatLng
	fallback  bool
	locErr    error
	criteria  model.FilterCriteria
	sort      model.SortMode
	raw       []model.Place
	results   []model.Place
	err       error
	listeners []func(Snapshot)
}

// Option configures a Controller.
type Option func(*Controller)

// WithPipeline sets the filter/sort pipeline.
func WithPipeline(p ranking.Pipeline) Option {
	return func(c *Controller) { c.pipeline = p }
}

// WithRadius sets the search radius in meters.
func WithRadius(meters float64) Option {
	return func(c *Controller) {
		if meters > 0 {
			c.radius = meters
		}
	}
}

// WithCriteria sets the initial filter criteria.
func WithCriteria(fc model.FilterCriteria) Option {
	return func(c *Controller) { c.criteria = fc.Clone() }
}

// WithSortMode sets the initial sort mode.
func WithSortMode(m model.SortMode) Option {
	return func(c *Controller) { c.sort = m }
}

// New returns an idle controller with no origin.
func New(resolver Resolver, searcher Searcher, opts ...Option) *Controller {
	c := &Controller{
		resolver: resolver,
		searcher: searcher,
		radius:   DefaultRadiusMeters,
		criteria: model.DefaultFilter(),
		sort:     model.SortBestMatch,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// OnPublish registers fn to receive every snapshot. Listeners run outside the
// controller lock, possibly on a search goroutine; use Seq to drop stale ones.
func (c *Controller) OnPublish(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// SetOrigin sets the search origin. fallback marks a default coordinate
// used in place of a real fix.
func (c *Controller) SetOrigin(loc model.LatLng, fallback bool) {
	c.mu.Lock()
	c.origin = &loc
	c.fallback = fallback
	if !fallback {
		c.locErr = nil
	}
	c.publishAndUnlock()
}

// Locate resolves the origin through g, substituting fallback on failure.
func (c *Controller) Locate(ctx context.Context, g locate.Geolocator, fallback model.LatLng) locate.Fix {
	fix := locate.Resolve(ctx, g, fallback)

	c.mu.Lock()
	loc := fix.Location
	c.origin = &loc
	c.fallback = fix.Fallback
	c.locErr = fix.Err
	c.publishAndUnlock()
	return fix
}

// Start supersedes any in-flight search, clears published results and
// searches for moodText. Without an origin the session fails immediately
// with model.ErrNoLocation and no provider call is made.
func (c *Controller) Start(ctx context.Context, moodText string) *Session {
	profile := c.resolver.Resolve(moodText)
	return c.begin(ctx, moodText, profile, true)
}

// Refresh re-runs the current mood without clearing published results. If
// it fails the previous results stay published alongside the error.
func (c *Controller) Refresh(ctx context.Context) *Session {
	c.mu.Lock()
	if c.profile == nil {
		s := newSession("")
		s.finish(Failed, nil, ErrNothingToRefresh)
		c.mu.Unlock()
		return s
	}
	profile, text := *c.profile, c.moodText
	c.mu.Unlock()

	return c.begin(ctx, text, profile, false)
}

func (c *Controller) begin(ctx context.Context, moodText string, profile mood.Profile, clear bool) *Session {
	s := newSession(moodText)

	c.mu.Lock()
	if prev := c.current; prev != nil && prev.State() == Searching {
		prev.cancel()
		metrics.Sessions.WithLabelValues(Cancelled.String()).Inc()
		zap.L().Debug("session: superseded", zap.String("session", prev.id))
	}

	c.current = s
	c.profile = &profile
	c.moodText = moodText
	c.err = nil
	if clear {
		c.raw = nil
		c.results = nil
	}

	if c.origin == nil {
		c.state = Failed
		c.err = model.ErrNoLocation
		s.finish(Failed, nil, model.ErrNoLocation)
		metrics.Sessions.WithLabelValues(Failed.String()).Inc()
		c.publishAndUnlock()
		return s
	}

	c.state = Searching
	origin := *c.origin
	radius := c.radius
	c.publishAndUnlock()

	go c.run(ctx, s, profile, origin, radius)
	return s
}

func (c *Controller) run(ctx context.Context, s *Session, profile mood.Profile, origin model.LatLng, radius float64) {
	log := zap.L().With(zap.String("session", s.id), zap.String("mood", profile.Key))

	found, err := c.searcher.Search(ctx, profile, origin, radius)
	if err == nil {
		scorer.Annotate(found, profile)
	}

	c.mu.Lock()
	if s.Cancelled() {
		c.mu.Unlock()
		log.Debug("session: discarding superseded results", zap.Int("results", len(found)))
		return
	}

	if err != nil {
		c.state = Failed
		c.err = err
		s.finish(Failed, nil, err)
		metrics.Sessions.WithLabelValues(Failed.String()).Inc()
		log.Warn("session: search failed", zap.Error(err))
		c.publishAndUnlock()
		return
	}

	c.raw = found
	c.results = c.pipeline.Apply(found, c.criteria, c.sort, &profile)
	c.state = Completed
	c.err = nil
	s.finish(Completed, clonePlaces(c.results), nil)
	metrics.Sessions.WithLabelValues(Completed.String()).Inc()
	log.Debug("session: completed", zap.Int("raw", len(found)), zap.Int("published", len(c.results)))
	c.publishAndUnlock()
}

// SetCriteria replaces the filters and re-ranks the last results in place.
// It never searches.
func (c *Controller) SetCriteria(fc model.FilterCriteria) Snapshot {
	c.mu.Lock()
	c.criteria = fc.Clone()
	c.rerankLocked()
	return c.publishAndUnlock()
}

// UpdateCriteria applies a partial filter change.
func (c *Controller) UpdateCriteria(patch model.FilterPatch) Snapshot {
	c.mu.Lock()
	c.criteria = c.criteria.Merge(patch)
	c.rerankLocked()
	return c.publishAndUnlock()
}

// SetSortMode changes the ordering of the published results.
func (c *Controller) SetSortMode(m model.SortMode) Snapshot {
	c.mu.Lock()
	c.sort = m
	c.rerankLocked()
	return c.publishAndUnlock()
}

func (c *Controller) rerankLocked() {
	if c.raw == nil {
		return
	}
	c.results = c.pipeline.Apply(c.raw, c.criteria, c.sort, c.profile)
}

// Snapshot returns the current published view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Seq:            c.seq,
		State:          c.state,
		OriginFallback: c.fallback,
		LocationErr:    c.locErr,
		Criteria:       c.criteria.Clone(),
		Sort:           c.sort,
		Results:        clonePlaces(c.results),
		Total:          len(c.raw),
		Err:            c.err,
	}
	if c.current != nil {
		snap.SessionID = c.current.id
		snap.Mood = c.current.mood
	}
	if c.profile != nil {
		p := *c.profile
		snap.Profile = &p
	}
	if c.origin != nil {
		o := *c.origin
		snap.Origin = &o
	}
	return snap
}

// publishAndUnlock must be called with c.mu held. It bumps the sequence,
// releases the lock, then notifies listeners.
func (c *Controller) publishAndUnlock() Snapshot {
	c.seq++
	snap := c.snapshotLocked()
	listeners := append([]func(Snapshot){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	return snap
}

func clonePlaces(in []model.Place) []model.Place {
	if in == nil {
		return nil
	}
	return append([]model.Place(nil), in...)
}
