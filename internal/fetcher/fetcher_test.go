package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "SiteScoutBot")
		w.Write([]byte("<html><title>ok</title></html>"))
	}))
	defer srv.Close()

	f := New(Options{})
	res, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.HTML, "<title>ok</title>")
	assert.GreaterOrEqual(t, res.LoadTimeMs, int64(0))
}

func TestFetchNonSuccessStatusIsStillAResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(Options{})
	res, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestFetchOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 2048)))
	}))
	defer srv.Close()

	f := New(Options{MaxBodyBytes: 1024})
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestFetchBodyExactlyAtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 1024)))
	}))
	defer srv.Close()

	f := New(Options{MaxBodyBytes: 1024})
	res, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, res.HTML, 1024)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	f := New(Options{Timeout: 50 * time.Millisecond})
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetchConnectionRefused(t *testing.T) {
	f := New(Options{Timeout: time.Second})
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/nope")
	assert.Error(t, err)
}
