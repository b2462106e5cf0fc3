package jaeger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestSearch(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/traces", r.URL.Path)
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []Trace{{TraceID: "t1"}, {TraceID: "t2"}},
		})
	})

	traces, err := c.Search(context.Background(), "checkout", SearchOptions{
		Limit:       5,
		Lookback:    30 * time.Minute,
		MinDuration: 100 * time.Millisecond,
		OnlyErrors:  true,
	})
	require.NoError(t, err)

	assert.Len(t, traces, 2)
	assert.Equal(t, "checkout", gotQuery["service"])
	assert.Equal(t, "5", gotQuery["limit"])
	assert.Equal(t, "30m", gotQuery["lookback"])
	assert.Equal(t, "100ms", gotQuery["minDuration"])
	assert.Equal(t, `{"error":"true"}`, gotQuery["tags"])
}

func TestSearchDefaults(t *testing.T) {
	var gotQuery map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"data": []Trace{}})
	})

	_, err := c.Search(context.Background(), "checkout", SearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, "20", gotQuery["limit"][0])
	assert.Equal(t, "15m", gotQuery["lookback"][0])
	assert.NotContains(t, gotQuery, "minDuration")
	assert.NotContains(t, gotQuery, "tags")
}

func TestGetTrace(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/traces/abc123", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"data": []Trace{{TraceID: "abc123"}}})
	})

	trace, err := c.GetTrace(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", trace.TraceID)
}

func TestGetTraceNotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"backend 404",
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "trace not found", http.StatusNotFound)
			},
		},
		{
			"empty data",
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"data": []Trace{}})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.GetTrace(context.Background(), "missing")
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		})
	}
}

func TestServiceSequences(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []Trace{*sampleTrace()}})
	})

	sequences, err := c.ServiceSequences(context.Background(), "frontend")
	require.NoError(t, err)
	require.Len(t, sequences, 1)
	assert.Equal(t, []string{"frontend", "checkout", "payments"}, sequences[0])
}

func TestSearchServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "query service overloaded", http.StatusServiceUnavailable)
	})

	_, err := c.Search(context.Background(), "checkout", SearchOptions{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "overloaded")
}

func TestFormatLookback(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{15 * time.Minute, "15m"},
		{90 * time.Minute, "90m"},
		{2 * time.Hour, "2h"},
		{30 * time.Second, "1m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatLookback(tt.in))
	}
}
