package formcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func TestCheck(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		hasForm bool
		issue   string
	}{
		{
			name:    "lowercase form",
			status:  http.StatusOK,
			body:    `<html><body><form action="/quote"><input name="email"></form></body></html>`,
			hasForm: true,
		},
		{
			name:    "uppercase form tag",
			status:  http.StatusOK,
			body:    `<HTML><BODY><FORM METHOD="post"></FORM></BODY></HTML>`,
			hasForm: true,
		},
		{
			name:    "no form",
			status:  http.StatusOK,
			body:    `<html><body><p>formatting is not a form</p></body></html>`,
			hasForm: false,
			issue:   IssueNoForm,
		},
		{
			name:    "error page still scanned",
			status:  http.StatusInternalServerError,
			body:    `<html><body><form></form></body></html>`,
			hasForm: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			checker := New()
			got := checker.Check(context.Background(), serve(t, tc.status, tc.body))

			assert.Equal(t, tc.hasForm, got.HasForm)
			if tc.issue == "" {
				assert.Nil(t, got.Issue)
				return
			}
			require.NotNil(t, got.Issue)
			assert.Equal(t, tc.issue, *got.Issue)
		})
	}
}

func TestCheck_Unreachable(t *testing.T) {
	checker := New(WithHTTPClient(&http.Client{}))

	got := checker.Check(context.Background(), "http://localhost:1/invalid")

	assert.False(t, got.HasForm)
	require.NotNil(t, got.Issue)
	assert.Equal(t, IssueUnreachable, *got.Issue)
}

func TestCheck_MalformedURL(t *testing.T) {
	got := New().Check(context.Background(), "://bad")

	assert.False(t, got.HasForm)
	require.NotNil(t, got.Issue)
	assert.Equal(t, IssueUnreachable, *got.Issue)
}
