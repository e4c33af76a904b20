package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type googleGeocodeResponse struct {
	Results      []googleResult `json:"results"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
}

type googleResult struct {
	FormattedAddress  string            `json:"formatted_address"`
	AddressComponents []googleComponent `json:"address_components"`
}

type googleComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

func (c googleComponent) is(kind string) bool {
	for _, t := range c.Types {
		if t == kind {
			return true
		}
	}
	return false
}

// ReverseGeocode labels lat/lng using the Google Geocoding API.
func (g *geocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*Address, error) {
	if g.apiKey == "" {
		return nil, eris.New("geocode: google api key not configured")
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: reverse rate limit")
	}

	params := url.Values{
		"latlng": {strconv.FormatFloat(lat, 'f', 6, 64) + "," + strconv.FormatFloat(lng, 'f', 6, 64)},
		"key":    {g.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleGeocodeURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: reverse build request")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: reverse request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: reverse returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: reverse read body")
	}

	var gr googleGeocodeResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, eris.Wrap(err, "geocode: reverse parse response")
	}

	switch gr.Status {
	case "OK":
	case "ZERO_RESULTS":
		return &Address{}, nil
	default:
		return nil, eris.Errorf("geocode: reverse status %s: %s", gr.Status, gr.ErrorMessage)
	}
	if len(gr.Results) == 0 {
		return &Address{}, nil
	}

	addr := addressFromResult(gr.Results[0])
	zap.L().Debug("reverse geocoded",
		zap.Float64("lat", lat),
		zap.Float64("lng", lng),
		zap.String("label", addr.Medium),
	)
	return addr, nil
}

func addressFromResult(r googleResult) *Address {
	var neighborhood, sublocality string
	addr := &Address{Formatted: r.FormattedAddress}

	for _, c := range r.AddressComponents {
		switch {
		case c.is("neighborhood"):
			neighborhood = c.LongName
		case c.is("sublocality"), c.is("sublocality_level_1"):
			sublocality = c.LongName
		case c.is("locality"):
			addr.Locality = c.LongName
		case c.is("administrative_area_level_1"):
			addr.Region = c.ShortName
		case c.is("country"):
			addr.Country = c.LongName
		}
	}

	addr.Short = firstNonEmpty(neighborhood, sublocality, addr.Locality, addr.Region, addr.Country, addr.Formatted)
	switch {
	case addr.Short != addr.Locality && addr.Locality != "":
		addr.Medium = addr.Short + ", " + addr.Locality
	case addr.Region != "" && addr.Short != addr.Region:
		addr.Medium = addr.Short + ", " + addr.Region
	default:
		addr.Medium = addr.Short
	}
	return addr
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
