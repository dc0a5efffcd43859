package news

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv
}

func TestClient_Fetch(t *testing.T) {
	var gotQuery map[string]string

	var gotKey string

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q":        q.Get("q"),
			"language": q.Get("language"),
			"sortBy":   q.Get("sortBy"),
			"pageSize": q.Get("pageSize"),
		}
		gotKey = r.Header.Get("X-Api-Key")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"totalResults": 2,
			"articles": [
				{
					"source": {"id": null, "name": "Reuters"},
					"title": "Bitcoin surges past $50k",
					"description": "crypto markets rally",
					"content": null,
					"url": "https://example.com/btc",
					"publishedAt": "2026-10-19T08:00:00Z"
				},
				{"title": "Second"}
			]
		}`))
	})

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0))

	articles := c.Fetch(context.Background(), "bitcoin", "en", 5)

	require.Len(t, articles, 2)
	assert.Equal(t, map[string]string{"q": "bitcoin", "language": "en", "sortBy": "publishedAt", "pageSize": "5"}, gotQuery)
	assert.Equal(t, "test-key", gotKey)

	a := articles[0]
	assert.Equal(t, "Bitcoin surges past $50k", a.DisplayTitle())
	assert.Equal(t, "Reuters", a.DisplaySource())
	assert.Equal(t, "https://example.com/btc", a.DisplayURL())
	assert.Equal(t, "2026-10-19T08:00:00Z", a.DisplayPublishedAt())
	assert.Nil(t, a.Content)

	assert.Equal(t, "N/A", articles[1].DisplaySource())

	attempts := c.Attempts().Attempts()
	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].Success)
	assert.Equal(t, 2, attempts[0].Articles)
	assert.Equal(t, http.StatusOK, attempts[0].StatusCode)
}

func TestClient_Fetch_TrimsToPageSize(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"articles": []map[string]string{{"title": "a"}, {"title": "b"}, {"title": "c"}},
		})
	})

	c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))

	assert.Len(t, c.Fetch(context.Background(), "crypto", "en", 2), 2)
}

func TestClient_Fetch_DefaultLanguage(t *testing.T) {
	var language string

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		language = r.URL.Query().Get("language")
		_, _ = w.Write([]byte(`{"status":"ok","articles":[]}`))
	})

	c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))
	c.Fetch(context.Background(), "crypto", "", 5)

	assert.Equal(t, DefaultLanguage, language)
}

func TestClient_FetchArticles_ProviderError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`))
	})

	c := NewClient("bad", WithBaseURL(srv.URL), WithRateLimit(0))

	articles, status, err := c.FetchArticles(context.Background(), "crypto", "en", 5)

	require.Error(t, err)
	assert.Nil(t, articles)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "apiKeyInvalid", apiErr.Code)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestClient_Fetch_FailuresReturnEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error without json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status": "ok", "articles": [`))
			},
		},
		{
			name: "error status with 200",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status":"error","code":"rateLimited","message":"slow down"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.handler)
			c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))

			assert.Empty(t, c.Fetch(context.Background(), "crypto", "en", 5))

			stats := c.Attempts().Stats()
			assert.Equal(t, 1, stats.Failed)
			assert.Equal(t, 0, stats.Successful)
		})
	}
}

func TestClient_Fetch_MissingAPIKey(t *testing.T) {
	called := false
	srv := newTestServer(t, func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	})

	c := NewClient("", WithBaseURL(srv.URL))

	_, _, err := c.FetchArticles(context.Background(), "crypto", "en", 5)

	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.False(t, called)
	assert.Empty(t, c.Fetch(context.Background(), "crypto", "en", 5))
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient("k", WithBaseURL(url), WithRateLimit(0))

	assert.Empty(t, c.Fetch(context.Background(), "crypto", "en", 5))
}

func TestClient_Fetch_CancelledContext(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","articles":[{"title":"x"}]}`))
	})

	c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := c.FetchArticles(ctx, "crypto", "en", 5)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestClient_Fetch_NonPositivePageSize(t *testing.T) {
	var calls atomic.Int32

	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"status":"ok","articles":[{"title":"x"}]}`))
	})

	c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))

	for _, size := range []int{0, -1} {
		assert.NotPanics(t, func() {
			assert.Empty(t, c.Fetch(context.Background(), "crypto", "en", size))
		})
	}

	assert.Zero(t, calls.Load(), "no request is made for an invalid page size")
	assert.Equal(t, 2, c.Attempts().Stats().Failed)
}

func TestWithHTTPClient_LeavesCallerClientUntouched(t *testing.T) {
	hc := &http.Client{}

	c := NewClient("k", WithTimeout(7*time.Second), WithHTTPClient(hc))

	assert.Zero(t, hc.Timeout)
	assert.Equal(t, 7*time.Second, c.httpClient.Timeout)
	assert.NotSame(t, hc, c.httpClient)
}
