// Package locate finds the search origin, falling back to a configured
// coordinate when no real fix is available.
package locate

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/moodmap/internal/model"
	"github.com/sells-group/moodmap/pkg/geocode"
)

// Geolocator reports the current position.
type Geolocator interface {
	Current(ctx context.Context) (model.LatLng, error)
}

// Static always reports the same answer. Useful for fixed origins and tests.
type Static struct {
	Location model.LatLng
	Err      error
}

// Current returns s.Location or s.Err.
func (s Static) Current(context.Context) (model.LatLng, error) {
	if s.Err != nil {
		return model.LatLng{}, s.Err
	}
	return s.Location, nil
}

// GoogleGeolocator estimates position with the Google Geolocation API.
type GoogleGeolocator struct {
	client geocode.Client
}

// NewGoogleGeolocator wraps client.
func NewGoogleGeolocator(client geocode.Client) *GoogleGeolocator {
	return &GoogleGeolocator{client: client}
}

// Current asks the Geolocation API for a network-based fix.
func (g *GoogleGeolocator) Current(ctx context.Context) (model.LatLng, error) {
	if g == nil || g.client == nil {
		return model.LatLng{}, model.ErrUnsupportedEnvironment
	}
	pos, err := g.client.Geolocate(ctx)
	if err != nil {
		return model.LatLng{}, classify(err)
	}
	return model.LatLng{Lat: pos.Latitude, Lng: pos.Longitude}, nil
}

func classify(err error) error {
	var se *geocode.StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return eris.Wrap(model.ErrTimeout, err.Error())
	case errors.As(err, &se) && (se.StatusCode == http.StatusForbidden || se.StatusCode == http.StatusUnauthorized):
		return eris.Wrap(model.ErrPermissionDenied, err.Error())
	default:
		return err
	}
}

// Fix is the outcome of Resolve. When Fallback is set, Location is the
// configured default and Err says why the real position was not used.
type Fix struct {
	Location model.LatLng
	Fallback bool
	Err      error
}

// Resolve asks g for the current position and substitutes fallback on any
// failure. A nil g counts as an unsupported environment.
func Resolve(ctx context.Context, g Geolocator, fallback model.LatLng) Fix {
	if g == nil {
		return Fix{Location: fallback, Fallback: true, Err: model.ErrUnsupportedEnvironment}
	}
	loc, err := g.Current(ctx)
	if err != nil {
		err = classify(err)
		zap.L().Info("locate: using fallback origin",
			zap.Float64("lat", fallback.Lat),
			zap.Float64("lng", fallback.Lng),
			zap.Error(err),
		)
		return Fix{Location: fallback, Fallback: true, Err: err}
	}
	return Fix{Location: loc}
}

// Handle controls a running Watch.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop ends the watch and waits for the poller to exit. Safe to call twice.
func (h *Handle) Stop() {
	h.once.Do(func() {
		h.cancel()
		<-h.done
	})
}

// Watch polls g every interval, starting immediately, until ctx ends or the
// handle is stopped. Callbacks run on the polling goroutine.
func Watch(ctx context.Context, g Geolocator, interval time.Duration, onUpdate func(model.LatLng), onError func(error)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			poll(ctx, g, onUpdate, onError)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return h
}

func poll(ctx context.Context, g Geolocator, onUpdate func(model.LatLng), onError func(error)) {
	if g == nil {
		if onError != nil {
			onError(model.ErrUnsupportedEnvironment)
		}
		return
	}
	loc, err := g.Current(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		if onError != nil {
			onError(classify(err))
		}
		return
	}
	if onUpdate != nil {
		onUpdate(loc)
	}
}
