package deviceinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRegistersToken(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/token/newToken", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotToken = r.PostFormValue("ApiToken")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	client := NewFonoClient(srv.URL, 2*time.Second)
	require.NoError(t, client.Connect(context.Background()))
	assert.NotEmpty(t, gotToken)
	assert.Equal(t, gotToken, client.token)
}

func TestConnectRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"error"}`))
	}))
	defer srv.Close()

	client := NewFonoClient(srv.URL, 2*time.Second)
	err := client.Connect(context.Background())
	var upstream UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "newToken", upstream.Op)
}

func TestDeviceLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/getdevice", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		assert.Equal(t, "iPhone 7", r.URL.Query().Get("device"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"DeviceName":"iPhone 7","cpu":"A10 Fusion"}]`))
	}))
	defer srv.Close()

	client := NewFonoClient(srv.URL, 2*time.Second)
	client.token = "test-token"

	specs, err := client.Device(context.Background(), "iPhone 7")
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "iPhone 7", specs[0].Name())
	assert.Equal(t, "A10 Fusion", specs[0]["cpu"])
}

func TestDeviceLookupNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewFonoClient(srv.URL, 2*time.Second)
	_, err := client.Device(context.Background(), "iPhone 7")
	var upstream UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
}

func TestDeviceLookupTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewFonoClient(srv.URL, 20*time.Millisecond)
	_, err := client.Device(context.Background(), "iPhone 7")
	var upstream UpstreamError
	require.ErrorAs(t, err, &upstream)
}

func TestLatestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/getlatest", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"DeviceName":"Pixel 2"},{"DeviceName":"Galaxy S8"}]`))
	}))
	defer srv.Close()

	client := NewFonoClient(srv.URL, 2*time.Second)
	client.token = "test-token"

	specs, err := client.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, specs, 2)
}
