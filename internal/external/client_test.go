package external

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hosteldesk/internal/types"
)

func TestBaseClientReturnsErrorResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewBaseClient(server.Client(), "test")
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Status handling belongs to the caller, not the transport layer.
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBaseClientOpensBreakerAfterConsecutiveServerErrors(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewBaseClient(server.Client(), "test")

	// Six consecutive 5xx responses trip the breaker. Each still reaches the
	// caller with its real status.
	for i := 0; i < 6; i++ {
		req, err := http.NewRequest(http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		resp.Body.Close()
	}

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.Error(t, err)
	require.Nil(t, resp)
	assert.Equal(t, types.ErrCodeUpstreamUnavailable, types.CodeOf(err))

	// The open breaker short-circuits before the request leaves the process.
	assert.Equal(t, 6, hits)
}

func TestBaseClientMapsTransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewBaseClient(&http.Client{}, "test")
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.Error(t, err)
	require.Nil(t, resp)
	assert.Equal(t, types.ErrCodeUpstreamUnavailable, types.CodeOf(err))
}
