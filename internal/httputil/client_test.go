// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/fund-matcher/pkg/types"
)

func echoUserAgent(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.Header.Get("User-Agent")))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, c *http.Client, req *http.Request) string {
	t.Helper()
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewClient_SetsUserAgent(t *testing.T) {
	ts := echoUserAgent(t)
	c := NewClient(types.HTTPConfig{UserAgent: "fund-matcher/test"})

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	assert.Equal(t, "fund-matcher/test", get(t, c, req))
	assert.Empty(t, req.Header.Get("User-Agent"), "caller's request must not be modified")
}

func TestNewClient_KeepsExplicitUserAgent(t *testing.T) {
	ts := echoUserAgent(t)
	c := NewClient(types.HTTPConfig{UserAgent: "fund-matcher/test"})

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom")

	assert.Equal(t, "custom", get(t, c, req))
}

func TestNewClient_Timeout(t *testing.T) {
	c := NewClient(types.HTTPConfig{Timeout: 3 * time.Second})
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.Equal(t, http.DefaultTransport, c.Transport)
}

func TestNewClient_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = NewClient(types.HTTPConfig{UserAgent: "x"}).Do(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
