package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/moodmap/internal/cache"
	"github.com/sells-group/moodmap/internal/discovery"
	"github.com/sells-group/moodmap/internal/model"
	"github.com/sells-group/moodmap/internal/mood"
	"github.com/sells-group/moodmap/internal/places"
	"github.com/sells-group/moodmap/internal/ranking"
	"github.com/sells-group/moodmap/internal/resilience"
	"github.com/sells-group/moodmap/internal/session"
	"github.com/sells-group/moodmap/pkg/geocode"
	"github.com/sells-group/moodmap/pkg/google"
)

func loadMoods() (*mood.Registry, error) {
	reg, err := mood.Load(cfg.Moods.File)
	if err != nil {
		return nil, eris.Wrap(err, "load moods")
	}
	return reg, nil
}

// initProvider builds the Google Places adapter with rate limiting, retries,
// a circuit breaker, and a details cache from config.
func initProvider() (*places.GoogleProvider, error) {
	if err := cfg.Validate("search"); err != nil {
		return nil, err
	}

	client := google.NewClient(cfg.Google.Key,
		google.WithBaseURL(cfg.Google.PlacesBaseURL),
		google.WithLanguage(cfg.Google.Language),
	)

	policy := resilience.NewPolicy("places",
		cfg.Resilience.MaxAttempts,
		cfg.Resilience.InitialBackoffMs,
		cfg.Resilience.MaxBackoffMs,
		cfg.Resilience.FailureThreshold,
		cfg.Resilience.ResetTimeoutSecs,
	)

	details := cache.New[string, model.Place](
		cfg.Places.DetailCacheSize,
		time.Duration(cfg.Places.DetailCacheTTLSecs)*time.Second,
	)

	opts := []places.Option{
		places.WithRateLimit(cfg.Places.RateLimit),
		places.WithPolicy(policy),
		places.WithDetailCache(details),
		places.WithPageSize(cfg.Places.PageSize),
		places.WithTimeout(time.Duration(cfg.Places.TimeoutSecs) * time.Second),
	}
	if cfg.Places.RankByDistance {
		opts = append(opts, places.WithDistanceRanking())
	}
	return places.NewGoogleProvider(client, opts...), nil
}

func initGeocoder() geocode.Client {
	return geocode.NewClient(cfg.Google.Key, geocode.WithRateLimit(cfg.Google.GeocodeRateLimit))
}

func initController(reg *mood.Registry, provider places.Provider, opts ...session.Option) *session.Controller {
	agg := discovery.NewAggregator(provider,
		discovery.WithMaxResults(cfg.Places.MaxResults),
		discovery.WithConcurrency(cfg.Places.Concurrency),
	)
	base := []session.Option{
		session.WithPipeline(ranking.Pipeline{MissingDistanceLast: cfg.Ranking.MissingDistanceLast}),
		session.WithRadius(cfg.Places.RadiusMeters),
	}
	return session.New(reg, agg, append(base, opts...)...)
}

func fallbackOrigin() model.LatLng {
	return model.LatLng{Lat: cfg.Geo.DefaultLat, Lng: cfg.Geo.DefaultLng}
}

// originLabel reverse-geocodes origin for display. Failures only cost the
// label, so they are logged and an empty string is returned.
func originLabel(ctx context.Context, gc geocode.Client, origin model.LatLng) string {
	if gc == nil {
		return ""
	}
	addr, err := gc.ReverseGeocode(ctx, origin.Lat, origin.Lng)
	if err != nil {
		zap.L().Debug("reverse geocode failed", zap.Error(err))
		return ""
	}
	if addr.Medium != "" {
		return addr.Medium
	}
	if addr.Short != "" {
		return addr.Short
	}
	return addr.Formatted
}
