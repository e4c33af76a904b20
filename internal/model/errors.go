package model

import "github.com/rotisserie/eris"

// Error taxonomy shared across the engine. Callers wrap these with eris and
// classify with errors.Is. An empty result set is not an error.
var (
	// ErrUnsupportedEnvironment means no geolocation source is available.
	ErrUnsupportedEnvironment = eris.New("geolocation unsupported")
	// ErrPermissionDenied means the location source refused the request.
	ErrPermissionDenied = eris.New("location permission denied")
	// ErrTimeout means a location or provider call ran out of time.
	ErrTimeout = eris.New("timed out")
	// ErrProviderUnavailable means the place search infrastructure is unreachable.
	ErrProviderUnavailable = eris.New("place provider unavailable")
	// ErrCancelled means a search session was superseded. Never shown to users.
	ErrCancelled = eris.New("search cancelled")
	// ErrNoLocation means a search was started without an origin.
	ErrNoLocation = eris.New("no search origin")
)
