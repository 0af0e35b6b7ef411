package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSetsAuthHeader(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get(AuthHeader)
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := New("secret-key").Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "secret-key", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestGetWithoutKeyOmitsHeader(t *testing.T) {
	var hasAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasAuth = r.Header.Get(AuthHeader) != ""
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := New("").Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.False(t, hasAuth)
}

func TestGetConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close() // refuse connections

	_, err := New("k").Get(context.Background(), server.URL)
	assert.Error(t, err)
}
