package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMux returns a mux pre-wired with the /user endpoint the client
// hits while resolving the authenticated login.
func newTestMux(login string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"login": login})
	})
	return mux
}

// testClient creates a RealClient backed by a test HTTP server. The
// post-mutation throttle is disabled and backoff sleeps are captured
// instead of slept.
func testClient(t *testing.T, handler http.Handler) (*RealClient, *[]time.Duration) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	var slept []time.Duration
	client, err := NewRealClient(context.Background(), "test-token",
		WithHTTPClient(server.Client()),
		WithBaseURL(server.URL+"/"),
		WithThrottle(0),
	)
	require.NoError(t, err)
	client.sleep = func(d time.Duration) { slept = append(slept, d) }
	return client, &slept
}

func TestNewRealClientResolvesLogin(t *testing.T) {
	t.Parallel()
	client, _ := testClient(t, newTestMux("octo"))
	assert.Equal(t, "octo", client.Login())
}

func TestNewRealClientAuthFailure(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"message":"Bad credentials"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	_, err := NewRealClient(context.Background(), "bad-token",
		WithHTTPClient(server.Client()),
		WithBaseURL(server.URL+"/"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
	assert.Contains(t, err.Error(), "Bad credentials")
}

func TestTestConnection(t *testing.T) {
	t.Parallel()
	client, _ := testClient(t, newTestMux("octo"))

	msg, err := client.TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "connected as octo", msg)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	mux := newTestMux("octo")
	mux.HandleFunc("GET /rate_limit", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"resources":{"core":{"limit":5000,"remaining":4321,"reset":1735689600}}}`)
	})

	client, _ := testClient(t, mux)
	info, err := client.RateLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5000, info.Limit)
	assert.Equal(t, 4321, info.Remaining)
	assert.Equal(t, int64(1735689600), info.Reset.Unix())
}
