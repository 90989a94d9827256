package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ishitag04/price-comparison-app/internal/types"
)

func testConfig() *types.Config {
	config := types.DefaultConfig()
	config.UpstreamRatePerSec = 0
	return config
}

func TestNewHTTPClient(t *testing.T) {
	config := testConfig()
	logger := logrus.New()

	client := NewHTTPClient(config, logger)

	assert.NotNil(t, client)
	assert.Equal(t, config, client.config)
	assert.Equal(t, logger, client.logger)
	assert.NotNil(t, client.client)
	assert.NotNil(t, client.limiter)
	assert.Equal(t, config.Timeout, client.client.Timeout)

	client.Close()
}

func TestHTTPClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"organic_results": []}`))
	}))
	defer server.Close()

	client := NewHTTPClient(testConfig(), logrus.New())
	defer client.Close()

	body, err := client.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.JSONEq(t, `{"organic_results": []}`, string(body))
}

func TestHTTPClient_Get_NotFound(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(testConfig(), logrus.New())
	defer client.Close()

	_, err := client.Get(context.Background(), server.URL)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 404")
	assert.Equal(t, 1, calls, "failed requests are not retried")
}

func TestHTTPClient_Get_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	config := testConfig()
	config.Timeout = 50 * time.Millisecond
	client := NewHTTPClient(config, logrus.New())
	defer client.Close()

	start := time.Now()
	_, err := client.Get(context.Background(), server.URL)

	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestHTTPClient_Get_LimiterWaitBoundedByTimeout(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	config := testConfig()
	config.Timeout = 200 * time.Millisecond
	config.UpstreamRatePerSec = 0.5
	config.UpstreamBurst = 1
	client := NewHTTPClient(config, logrus.New())
	defer client.Close()

	_, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)

	start := time.Now()
	_, err = client.Get(context.Background(), server.URL)

	assert.Error(t, err)
	assert.Less(t, time.Since(start), config.Timeout)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "the throttled query never reaches the server")
}

func TestHTTPClient_Get_ContextCancelled(t *testing.T) {
	client := NewHTTPClient(testConfig(), logrus.New())
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "http://example.com")

	assert.Error(t, err)
}

func TestHTTPClient_GetWithParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "amazon", r.URL.Query().Get("engine"))
		assert.Equal(t, "usb c cable", r.URL.Query().Get("k"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewHTTPClient(testConfig(), logrus.New())
	defer client.Close()

	params := url.Values{}
	params.Set("engine", "amazon")
	params.Set("k", "usb c cable")
	_, err := client.GetWithParams(context.Background(), server.URL, params)

	require.NoError(t, err)
}

func TestRedact(t *testing.T) {
	got := redact("https://serpapi.com/search.json?engine=walmart&api_key=secret")
	assert.NotContains(t, got, "secret")
	assert.Contains(t, got, "engine=walmart")
}
