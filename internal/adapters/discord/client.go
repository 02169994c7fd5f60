// Package discord is a minimal Discord REST v10 client for a bot account.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/theopenlane/httpsling"
)

const (
	// DefaultBaseURL is the Discord REST API root
	DefaultBaseURL = "https://discord.com/api/v10"

	defaultRequestTimeout = 10 * time.Second
)

// Client talks to the Discord REST API with a bot token
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
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

// WithBaseURL overrides the API root
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// New creates a Discord client authenticating as the bot identified by token
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		token:      token,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// authorization is the header value Discord expects for bot accounts
func (c *Client) authorization() string {
	return "Bot " + c.token
}

// SendMessage posts a message to a channel. Discord answers 200 or 201.
func (c *Client) SendMessage(ctx context.Context, channelID string, payload MessagePayload) error {
	requester := httpsling.MustNew(
		httpsling.URL(c.baseURL+"/channels/"+url.PathEscape(channelID)+"/messages"),
		httpsling.Post(),
		httpsling.Header("Authorization", c.authorization()),
		httpsling.JSONBody(payload),
		httpsling.WithHTTPClient(c.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}

// Messages returns the most recent messages of a channel, newest first, as
// Discord orders them.
func (c *Client) Messages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	endpoint := c.baseURL + "/channels/" + url.PathEscape(channelID) + "/messages?limit=" + strconv.Itoa(limit)

	var out []Message
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Me returns the user the token authenticates as
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.getJSON(ctx, c.baseURL+"/users/@me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// HealthCheck reports whether GET /users/@me answers 200
func (c *Client) HealthCheck(ctx context.Context) bool {
	_, err := c.Me(ctx)
	return err == nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	requester := httpsling.MustNew(
		httpsling.URL(endpoint),
		httpsling.Method(http.MethodGet),
		httpsling.Header("Authorization", c.authorization()),
		httpsling.WithHTTPClient(c.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}
	return nil
}
