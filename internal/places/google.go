package places

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/moodmap/internal/cache"
	"github.com/sells-group/moodmap/internal/metrics"
	"github.com/sells-group/moodmap/internal/model"
	"github.com/sells-group/moodmap/internal/resilience"
	"github.com/sells-group/moodmap/pkg/google"
)

const (
	// maxRadiusMeters is the largest search circle the Places API accepts.
	maxRadiusMeters = 50000.0
	// maxPageSize is the most results one Places API search returns.
	maxPageSize = 20
)

// ErrNotFound is returned by Details for an unknown place id.
var ErrNotFound = eris.New("places: place not found")

// GoogleProvider implements Provider on the Google Places API.
type GoogleProvider struct {
	client     google.Client
	limiter    *rate.Limiter
	policy     *resilience.Policy
	details    *cache.TTL[string, model.Place]
	pageSize   int
	timeout    time.Duration
	rankByDist bool
}

// Option configures a GoogleProvider.
type Option func(*GoogleProvider)

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(p *GoogleProvider) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithPolicy sets the retry and circuit breaker policy.
func WithPolicy(policy *resilience.Policy) Option {
	return func(p *GoogleProvider) {
		p.policy = policy
	}
}

// WithDetailCache caches Details lookups by place id.
func WithDetailCache(c *cache.TTL[string, model.Place]) Option {
	return func(p *GoogleProvider) {
		p.details = c
	}
}

// WithPageSize sets how many results each search requests, at most 20.
func WithPageSize(n int) Option {
	return func(p *GoogleProvider) {
		if n > 0 && n <= maxPageSize {
			p.pageSize = n
		}
	}
}

// WithTimeout bounds each provider call, retries included.
func WithTimeout(d time.Duration) Option {
	return func(p *GoogleProvider) {
		p.timeout = d
	}
}

// WithDistanceRanking asks category searches for nearest-first results
// instead of popularity.
func WithDistanceRanking() Option {
	return func(p *GoogleProvider) {
		p.rankByDist = true
	}
}

// NewGoogleProvider wraps client.
func NewGoogleProvider(client google.Client, opts ...Option) *GoogleProvider {
	p := &GoogleProvider{
		client:   client,
		limiter:  rate.NewLimiter(10, 10),
		policy:   resilience.NewPolicy("places", 0, 0, 0, 0, 0),
		pageSize: maxPageSize,
		timeout:  10 * time.Second,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// SearchByCategory returns places of the given type within radius of origin.
func (p *GoogleProvider) SearchByCategory(ctx context.Context, category string, origin model.LatLng, radiusMeters float64) ([]model.Place, error) {
	req := google.NearbyRequest{
		IncludedTypes:       []string{category},
		MaxResultCount:      p.pageSize,
		LocationRestriction: area(origin, radiusMeters),
		RankPreference:      "POPULARITY",
	}
	if p.rankByDist {
		req.RankPreference = "DISTANCE"
	}

	resp, err := call(ctx, p, "search_category", func(ctx context.Context) (*google.SearchResponse, error) {
		return p.client.SearchNearby(ctx, req)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "places: category %q", category)
	}
	return toPlaces(resp.Places), nil
}

// SearchByKeyword runs a free-text search biased toward origin.
func (p *GoogleProvider) SearchByKeyword(ctx context.Context, keyword string, origin model.LatLng, radiusMeters float64) ([]model.Place, error) {
	bias := area(origin, radiusMeters)
	req := google.TextRequest{
		TextQuery:    keyword,
		PageSize:     p.pageSize,
		LocationBias: &bias,
	}

	resp, err := call(ctx, p, "search_keyword", func(ctx context.Context) (*google.SearchResponse, error) {
		return p.client.SearchText(ctx, req)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "places: keyword %q", keyword)
	}
	return toPlaces(resp.Places), nil
}

// Details fetches one place, consulting the detail cache first.
func (p *GoogleProvider) Details(ctx context.Context, id string) (*model.Place, error) {
	if p.details != nil {
		if cached, ok := p.details.Get(id); ok {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return &cached, nil
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	gp, err := call(ctx, p, "details", func(ctx context.Context) (*google.Place, error) {
		return p.client.GetPlace(ctx, id)
	})
	if err != nil {
		var apiErr *google.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, eris.Wrapf(ErrNotFound, "places: details %s", id)
		}
		return nil, eris.Wrapf(err, "places: details %s", id)
	}

	place, ok := toPlace(*gp)
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "places: details %s", id)
	}
	if p.details != nil {
		p.details.Put(id, place)
	}
	return &place, nil
}

// Autocomplete predicts places for partial input, biased toward origin when known.
func (p *GoogleProvider) Autocomplete(ctx context.Context, input string, origin *model.LatLng) ([]model.Suggestion, error) {
	req := google.AutocompleteRequest{Input: input}
	if origin != nil {
		bias := area(*origin, maxRadiusMeters)
		req.LocationBias = &bias
	}

	resp, err := call(ctx, p, "autocomplete", func(ctx context.Context) (*google.AutocompleteResponse, error) {
		return p.client.Autocomplete(ctx, req)
	})
	if err != nil {
		return nil, eris.Wrap(err, "places: autocomplete")
	}
	return toSuggestions(resp.Suggestions), nil
}

// call applies the timeout, rate limit and resilience policy to fn, then
// maps the failure onto the model error taxonomy.
func call[T any](ctx context.Context, p *GoogleProvider, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.limiter.Wait(ctx); err != nil {
		metrics.ProviderCalls.WithLabelValues(op, "rate_limited").Inc()
		return zero, classify(ctx, err)
	}

	v, err := resilience.Call(ctx, p.policy, op, fn)
	if err != nil {
		err = classify(ctx, err)
		outcome := "error"
		if errors.Is(err, model.ErrProviderUnavailable) {
			outcome = "unavailable"
		}
		metrics.ProviderCalls.WithLabelValues(op, outcome).Inc()
		zap.L().Debug("places: call failed", zap.String("op", op), zap.Error(err))
		return zero, err
	}
	metrics.ProviderCalls.WithLabelValues(op, "ok").Inc()
	return v, nil
}

func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return eris.Wrap(model.ErrTimeout, err.Error())
	case errors.Is(err, resilience.ErrOpen), resilience.IsTransient(err), resilience.IsUnreachable(err):
		return eris.Wrap(model.ErrProviderUnavailable, err.Error())
	default:
		return err
	}
}

func area(origin model.LatLng, radiusMeters float64) google.Area {
	if radiusMeters <= 0 || radiusMeters > maxRadiusMeters {
		radiusMeters = maxRadiusMeters
	}
	return google.Area{Circle: google.Circle{
		Center: google.LatLng{Latitude: origin.Lat, Longitude: origin.Lng},
		Radius: radiusMeters,
	}}
}
