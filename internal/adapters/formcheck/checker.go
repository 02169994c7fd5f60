// Package formcheck verifies that a landing page still renders a form.
package formcheck

import (
	"context"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/theopenlane/httpsling"

	"missioncontrol/internal/ports"
)

const (
	defaultRequestTimeout = 15 * time.Second

	IssueNoForm      = "No form detected on landing page"
	IssueUnreachable = "Site unreachable during form check"
)

type Checker struct {
	httpClient *http.Client
}

// Option configures the Checker
type Option func(*Checker)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func New(opts ...Option) *Checker {
	c := &Checker{httpClient: &http.Client{Timeout: defaultRequestTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check performs one GET and looks for a form element in whatever markup
// comes back, regardless of status code. It never returns an error.
func (c *Checker) Check(ctx context.Context, url string) ports.FormHealth {
	if _, err := neturl.ParseRequestURI(url); err != nil {
		return unreachable(url, err)
	}

	requester := httpsling.MustNew(
		httpsling.URL(url),
		httpsling.Method(http.MethodGet),
		httpsling.WithHTTPClient(c.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return unreachable(url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return unreachable(url, err)
	}

	if doc.Find("form").Length() > 0 {
		return ports.FormHealth{HasForm: true}
	}
	issue := IssueNoForm
	return ports.FormHealth{HasForm: false, Issue: &issue}
}

func unreachable(url string, err error) ports.FormHealth {
	log.Warn().Err(err).Str("url", url).Msg("form check could not reach site")
	issue := IssueUnreachable
	return ports.FormHealth{HasForm: false, Issue: &issue}
}
