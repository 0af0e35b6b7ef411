package pbs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPerDayRequests(t *testing.T) {
	var urls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urls = append(urls, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"feeds":[]}`))
	}))
	defer server.Close()

	f := NewFetcher(server.URL+"/tvss/", "klrn", "key")
	start := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

	result, err := f.Fetch(context.Background(), start, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/tvss/klrn/day/20250317",
		"/tvss/klrn/day/20250318",
		"/tvss/klrn/day/20250319",
	}, urls)

	assert.JSONEq(t, `"20250317"`, string(result["start_date"]))
	assert.JSONEq(t, `{"feeds":[]}`, string(result["20250318"]))
}

func TestFetchFailedDayRecordedAsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "20250318") {
			http.Error(w, "upstream exploded", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"feeds":[]}`))
	}))
	defer server.Close()

	f := NewFetcher(server.URL+"/tvss/", "klrn", "key")
	start := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

	result, err := f.Fetch(context.Background(), start, 3)
	require.NoError(t, err, "a failed day must not fail the batch")

	assert.JSONEq(t, `{"feeds":[]}`, string(result["20250317"]))
	assert.JSONEq(t, `null`, string(result["20250318"]))
	assert.JSONEq(t, `{"feeds":[]}`, string(result["20250319"]))
}

func TestFetchCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(server.URL+"/tvss/", "klrn", "key")
	_, err := f.Fetch(ctx, time.Now(), 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchToFileRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"feeds":[{"digital_channel":"9.1","listings":[]}]}`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "pbs.json")
	f := NewFetcher(server.URL+"/tvss/", "klrn", "key")
	start := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

	require.NoError(t, f.FetchToFile(context.Background(), path, start, 1))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "start_date")
	assert.Contains(t, doc, "20250317")

	// The written file is valid parser input.
	src := New(acceptedChannels())
	_, err = src.ParseFile(context.Background(), path)
	assert.NoError(t, err)
}

func TestFetchNonJSONBodyRecordedAsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>gateway timeout page</html>"))
	}))
	defer server.Close()

	f := NewFetcher(server.URL+"/tvss/", "klrn", "key")
	result, err := f.Fetch(context.Background(), time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), 1)
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(result["20250317"]))
}
