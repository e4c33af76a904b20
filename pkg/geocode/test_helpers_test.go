package geocode

import (
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// newRewriteClient sends requests aimed at target to the test server instead.
func newRewriteClient(srvURL, target string) *http.Client {
	return &http.Client{Transport: redirectTransport{srv: srvURL, target: target}}
}

type redirectTransport struct {
	srv    string
	target string
}

func (t redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	orig := req.URL.String()
	if !strings.HasPrefix(orig, t.target) {
		return http.DefaultTransport.RoundTrip(req)
	}
	u, err := req.URL.Parse(t.srv + strings.TrimPrefix(orig, t.target))
	if err != nil {
		return nil, err
	}
	out := req.Clone(req.Context())
	out.URL = u
	out.Host = u.Host
	return http.DefaultTransport.RoundTrip(out)
}
