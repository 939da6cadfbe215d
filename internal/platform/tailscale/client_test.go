package tailscale

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("tskey-api-test", "example.com", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return client
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	_, err := NewClient("", "example.com")
	assert.ErrorContains(t, err, "API key")

	_, err = NewClient("tskey-api-test", "")
	assert.ErrorContains(t, err, "tailnet")
}

func TestCreateAuthKey(t *testing.T) {
	t.Parallel()

	var got createKeyRequest
	var auth string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tailnet/example.com/keys", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"k1","key":"tskey-auth-abc"}`))
	})

	client := testClient(t, mux)
	key, err := client.CreateAuthKey(context.Background(), KeyOptions{
		ExpiryDays:    30,
		Reusable:      true,
		Preauthorized: true,
		Tags:          []string{"tag:ci"},
	})
	require.NoError(t, err)

	assert.Equal(t, "tskey-auth-abc", key.Key)
	assert.Equal(t, "Bearer tskey-api-test", auth)
	assert.Equal(t, 30*24*3600, got.ExpirySecs)
	assert.True(t, got.Capabilities.Devices.Create.Reusable)
	assert.False(t, got.Capabilities.Devices.Create.Ephemeral)
	assert.True(t, got.Capabilities.Devices.Create.Preauthorized)
	assert.Equal(t, []string{"tag:ci"}, got.Capabilities.Devices.Create.Tags)
}

func TestCreateAuthKeyDefaultExpiry(t *testing.T) {
	t.Parallel()

	var got createKeyRequest
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tailnet/example.com/keys", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":"k1","key":"tskey-auth-abc"}`))
	})

	client := testClient(t, mux)
	_, err := client.CreateAuthKey(context.Background(), KeyOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultKeyExpiryDays*24*3600, got.ExpirySecs)
}

func TestCreateAuthKeyAPIError(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tailnet/example.com/keys", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"invalid tag"}`))
	})

	client := testClient(t, mux)
	_, err := client.CreateAuthKey(context.Background(), KeyOptions{})
	require.Error(t, err)
	assert.True(t, IsAPIError(err))
	assert.ErrorContains(t, err, "status 403")
	assert.ErrorContains(t, err, "invalid tag")
}

func TestCreateAuthKeyEmptyResponse(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tailnet/example.com/keys", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	client := testClient(t, mux)
	_, err := client.CreateAuthKey(context.Background(), KeyOptions{})
	assert.ErrorContains(t, err, "no key")
}

func TestCreateAuthKeysBestEffort(t *testing.T) {
	t.Parallel()

	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tailnet/example.com/keys", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id":"k1","key":"tskey-auth-abc"}`))
	})

	client := testClient(t, mux)
	var messages []string
	keys, err := client.CreateAuthKeys(context.Background(), 3, KeyOptions{}, func(current, total int, message string) {
		messages = append(messages, message)
	})
	require.NoError(t, err)

	assert.Len(t, keys, 2)
	require.Len(t, messages, 3)
	assert.Contains(t, messages[1], "failed")
}

func TestCreateAuthKeysAllFail(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tailnet/example.com/keys", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := testClient(t, mux)
	_, err := client.CreateAuthKeys(context.Background(), 2, KeyOptions{}, nil)
	assert.ErrorContains(t, err, "no auth keys could be issued")
}

func TestCreateAuthKeysCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := testClient(t, http.NewServeMux())
	keys, err := client.CreateAuthKeys(ctx, 3, KeyOptions{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, keys)
}

func TestListKeys(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tailnet/example.com/keys", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"keys":[{"id":"k1"},{"id":"k2"}]}`))
	})

	client := testClient(t, mux)
	keys, err := client.ListKeys(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "k1", keys[0].ID)
}

func TestDeleteKey(t *testing.T) {
	t.Parallel()

	var deleted string
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /tailnet/example.com/keys/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
	})

	client := testClient(t, mux)
	require.NoError(t, client.DeleteKey(context.Background(), "k1"))
	assert.Equal(t, "k1", deleted)

	assert.ErrorContains(t, client.DeleteKey(context.Background(), ""), "required")
}

func TestTestConnection(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tailnet/example.com/keys", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid API key"}`))
	})

	client := testClient(t, mux)
	err := client.TestConnection(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection check failed")
	assert.ErrorContains(t, err, "invalid API key")
}
