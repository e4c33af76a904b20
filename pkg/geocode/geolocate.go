package geocode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rotisserie/eris"
)

// StatusError is a non-200 response from a Google location API.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("geocode: geolocation returned status %d", e.StatusCode)
}

type geolocateRequest struct {
	ConsiderIP bool `json:"considerIp"`
}

type geolocateResponse struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
	Accuracy float64 `json:"accuracy"`
}

// Geolocate estimates the caller's position from its IP address.
func (g *geocoder) Geolocate(ctx context.Context) (*Position, error) {
	if g.apiKey == "" {
		return nil, eris.New("geocode: google api key not configured")
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: geolocate rate limit")
	}

	body, err := json.Marshal(geolocateRequest{ConsiderIP: true})
	if err != nil {
		return nil, eris.Wrap(err, "geocode: geolocate marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleGeolocationURL+"?key="+g.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "geocode: geolocate build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: geolocate request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: geolocate read body")
	}

	var gr geolocateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return nil, eris.Wrap(err, "geocode: geolocate parse response")
	}

	return &Position{
		Latitude:       gr.Location.Lat,
		Longitude:      gr.Location.Lng,
		AccuracyMeters: gr.Accuracy,
	}, nil
}
