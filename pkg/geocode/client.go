// Package geocode resolves coordinates to display labels and estimates the
// caller's position using Google's Geocoding and Geolocation APIs.
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	googleGeocodeURL     = "https://maps.googleapis.com/maps/api/geocode/json"
	googleGeolocationURL = "https://www.googleapis.com/geolocation/v1/geolocate"
)

// Client looks up locations.
type Client interface {
	// ReverseGeocode labels a coordinate. A point with no match returns an
	// empty Address, not an error.
	ReverseGeocode(ctx context.Context, lat, lng float64) (*Address, error)

	// Geolocate estimates the caller's position from its network.
	Geolocate(ctx context.Context) (*Position, error)
}

// Address is a human-readable description of a coordinate.
type Address struct {
	Formatted string `json:"formatted"`
	// Short is the most specific useful label, e.g. a neighborhood or city.
	Short string `json:"short"`
	// Medium is Short plus the region, e.g. "Hyde Park, Austin".
	Medium   string `json:"medium"`
	Locality string `json:"locality"`
	Region   string `json:"region"`
	Country  string `json:"country"`
}

// Position is a geolocation fix.
type Position struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit across both APIs.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type geocoder struct {
	httpClient *http.Client
	apiKey     string
	limiter    *rate.Limiter
}

// NewClient creates a geocoding Client for the given Google API key.
func NewClient(apiKey string, opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(10, 10),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}
