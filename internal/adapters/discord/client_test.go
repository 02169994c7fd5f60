package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New("secret-token", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return c
}

func TestNew_MissingToken(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestNew_Defaults(t *testing.T) {
	c, err := New("tok")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	require.NotNil(t, c.httpClient)
	assert.Equal(t, "Bot tok", c.authorization())
}

func TestNew_UsesCallerClient(t *testing.T) {
	custom := &http.Client{}
	c, err := New("tok", WithHTTPClient(custom))
	require.NoError(t, err)
	assert.Same(t, custom, c.httpClient)
	assert.Nil(t, custom.Transport)
}

func TestSendMessage(t *testing.T) {
	var got MessagePayload
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/channels/123/messages", r.URL.Path)
		assert.Equal(t, "Bot secret-token", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	})

	err := c.SendMessage(context.Background(), "123", MessagePayload{
		Content: "hello",
		Embeds:  []Embed{{Title: "t", Color: 3447003}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, 3447003, got.Embeds[0].Color)
}

func TestSendMessage_Created(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	assert.NoError(t, c.SendMessage(context.Background(), "1", MessagePayload{Content: "x"}))
}

func TestSendMessage_UnexpectedStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	err := c.SendMessage(context.Background(), "1", MessagePayload{Content: "x"})
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestSendMessage_TransportError(t *testing.T) {
	c, err := New("tok", WithBaseURL("http://localhost:1"))
	require.NoError(t, err)
	err = c.SendMessage(context.Background(), "1", MessagePayload{Content: "x"})
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/channels/42/messages", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bot secret-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"id":"101","channel_id":"42","author":{"id":"u1","username":"ann"},"content":"!help","mentions":[]},
			{"id":"100","channel_id":"42","author":{"id":"u2","username":"bob"},"content":"hi","mentions":[{"id":"b"}]}
		]`))
	})

	msgs, err := c.Messages(context.Background(), "42", 5)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "101", msgs[0].ID)
	assert.Equal(t, "ann", msgs[0].Author.Username)
	assert.Equal(t, "b", msgs[1].Mentions[0].ID)
}

func TestMessages_BadBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	_, err := c.Messages(context.Background(), "42", 5)
	assert.ErrorIs(t, err, ErrDecodeResponse)
}

func TestHealthCheck(t *testing.T) {
	healthy := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/@me", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"bot","username":"Open Claw","bot":true}`))
	})
	assert.True(t, healthy.HealthCheck(context.Background()))

	me, err := healthy.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bot", me.ID)
	assert.True(t, me.Bot)

	unauthorized := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	assert.False(t, unauthorized.HealthCheck(context.Background()))
}
