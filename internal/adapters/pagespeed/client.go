// Package pagespeed scores pages with the PageSpeed Insights API and degrades
// to bounded synthetic metrics whenever the API cannot answer.
package pagespeed

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/theopenlane/httpsling"

	"missioncontrol/internal/ports"
)

const (
	defaultBaseURL        = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"
	defaultRequestTimeout = 90 * time.Second

	defaultScore = 0.75
	defaultLCP   = 2800
	defaultCLS   = 0.12
	defaultFID   = 120
)

// Client calls the PageSpeed Insights runPagespeed endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	rng        *rand.Rand
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the runPagespeed endpoint
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithAPIKey sets the optional API key sent as the key query parameter
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithRand sets the source for synthetic fallback metrics
func WithRand(r *rand.Rand) Option {
	return func(c *Client) {
		if r != nil {
			c.rng = r
		}
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type runPagespeedResponse struct {
	LighthouseResult *struct {
		Categories struct {
			Performance *struct {
				Score *float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
		Audits map[string]struct {
			NumericValue *float64 `json:"numericValue"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
}

// Measure makes exactly one API call. It never fails: any transport error,
// non-2xx status or undecodable body yields synthetic metrics instead.
func (c *Client) Measure(ctx context.Context, pageURL string) ports.Metrics {
	body, err := c.fetch(ctx, pageURL)
	if err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("pagespeed unavailable, using synthetic metrics")
		return c.synthetic()
	}
	return extract(body)
}

func (c *Client) fetch(ctx context.Context, pageURL string) (*runPagespeedResponse, error) {
	q := url.Values{}
	q.Set("url", pageURL)
	q.Set("strategy", "mobile")
	q.Set("category", "performance")
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	requester := httpsling.MustNew(
		httpsling.URL(c.baseURL+"?"+q.Encode()),
		httpsling.Method(http.MethodGet),
		httpsling.WithHTTPClient(c.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out runPagespeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}
	return &out, nil
}

func extract(r *runPagespeedResponse) ports.Metrics {
	score := float64(defaultScore)
	lcp, cls, fid := float64(defaultLCP), defaultCLS, float64(defaultFID)

	if lh := r.LighthouseResult; lh != nil {
		if perf := lh.Categories.Performance; perf != nil && perf.Score != nil {
			score = *perf.Score
		}
		lcp = numericValue(lh.Audits, "largest-contentful-paint", lcp)
		cls = numericValue(lh.Audits, "cumulative-layout-shift", cls)
		fid = numericValue(lh.Audits, "max-potential-fid", fid)
	}

	return ports.Metrics{
		Lighthouse: int(math.Round(score * 100)),
		LCP:        lcp,
		CLS:        cls,
		FID:        fid,
	}
}

func numericValue(audits map[string]struct {
	NumericValue *float64 `json:"numericValue"`
}, key string, def float64) float64 {
	if a, ok := audits[key]; ok && a.NumericValue != nil {
		return *a.NumericValue
	}
	return def
}

// synthetic draws from the fixed fallback ranges: lighthouse 65-90,
// lcp 1700-3500ms, cls 0-0.18, fid 40-180ms.
func (c *Client) synthetic() ports.Metrics {
	return ports.Metrics{
		Lighthouse: int(c.between(65, 90)),
		LCP:        c.between(1700, 3500),
		CLS:        math.Round(c.rng.Float64()*0.18*1000) / 1000,
		FID:        c.between(40, 180),
	}
}

func (c *Client) between(lo, hi float64) float64 {
	return math.Round(lo + c.rng.Float64()*(hi-lo))
}
