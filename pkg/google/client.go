// Package google is a thin client for the Google Places API (New).
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/moodmap/internal/resilience"
)

const defaultBaseURL = "https://places.googleapis.com/v1"

// placeFields are requested for every place record.
var placeFields = []string{
	"id",
	"displayName",
	"formattedAddress",
	"shortFormattedAddress",
	"types",
	"location",
	"rating",
	"userRatingCount",
	"priceLevel",
	"currentOpeningHours.openNow",
	"photos",
}

// Client performs Google Places API operations.
type Client interface {
	SearchNearby(ctx context.Context, req NearbyRequest) (*SearchResponse, error)
	SearchText(ctx context.Context, req TextRequest) (*SearchResponse, error)
	GetPlace(ctx context.Context, id string) (*Place, error)
	Autocomplete(ctx context.Context, req AutocompleteRequest) (*AutocompleteResponse, error)
}

// APIError is a non-200 response from the Places API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithLanguage sets the languageCode sent with every request.
func WithLanguage(code string) Option {
	return func(c *httpClient) {
		c.language = code
	}
}

type httpClient struct {
	apiKey   string
	baseURL  string
	language string
	http     *http.Client
}

// NewClient creates a Google Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func searchMask() string {
	out := make([]string, len(placeFields))
	for i, f := range placeFields {
		out[i] = "places." + f
	}
	return strings.Join(out, ",")
}

func (c *httpClient) SearchNearby(ctx context.Context, req NearbyRequest) (*SearchResponse, error) {
	if req.LanguageCode == "" {
		req.LanguageCode = c.language
	}
	var out SearchResponse
	if err := c.do(ctx, http.MethodPost, "/places:searchNearby", searchMask(), req, &out); err != nil {
		return nil, eris.Wrap(err, "google: search nearby")
	}
	return &out, nil
}

func (c *httpClient) SearchText(ctx context.Context, req TextRequest) (*SearchResponse, error) {
	if req.LanguageCode == "" {
		req.LanguageCode = c.language
	}
	var out SearchResponse
	if err := c.do(ctx, http.MethodPost, "/places:searchText", searchMask(), req, &out); err != nil {
		return nil, eris.Wrap(err, "google: search text")
	}
	return &out, nil
}

func (c *httpClient) GetPlace(ctx context.Context, id string) (*Place, error) {
	if id == "" {
		return nil, eris.New("google: place id is required")
	}
	path := "/places/" + url.PathEscape(id)
	if c.language != "" {
		path += "?languageCode=" + url.QueryEscape(c.language)
	}
	var out Place
	if err := c.do(ctx, http.MethodGet, path, strings.Join(placeFields, ","), nil, &out); err != nil {
		return nil, eris.Wrapf(err, "google: get place %s", id)
	}
	return &out, nil
}

func (c *httpClient) Autocomplete(ctx context.Context, req AutocompleteRequest) (*AutocompleteResponse, error) {
	if req.LanguageCode == "" {
		req.LanguageCode = c.language
	}
	var out AutocompleteResponse
	if err := c.do(ctx, http.MethodPost, "/places:autocomplete", "", req, &out); err != nil {
		return nil, eris.Wrap(err, "google: autocomplete")
	}
	return &out, nil
}

// do sends a request and decodes a 200 response into out. Retryable statuses
// come back as *resilience.TransientError wrapping *APIError.
func (c *httpClient) do(ctx context.Context, method, path, fieldMask string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return eris.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	if fieldMask != "" {
		req.Header.Set("X-Goog-FieldMask", fieldMask)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		if resilience.RetryableStatus(resp.StatusCode) {
			return resilience.NewTransientError(apiErr, resp.StatusCode)
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
