package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageFetcher_SavesWithInferredExtension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("not-really-webp"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewImageFetcher(dir, 5*time.Second)

	path := f.Fetch(context.Background(), srv.URL+"/cover", 0)
	require.Equal(t, filepath.Join(dir, "article_1_cover.webp"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not-really-webp", string(data))
}

func TestImageFetcher_DefaultExtensionIsJPG(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte{0xFF, 0xD8})
	}))
	defer srv.Close()

	f := NewImageFetcher(t.TempDir(), 5*time.Second)
	path := f.Fetch(context.Background(), srv.URL+"/cover", 2)
	assert.Equal(t, "article_3_cover.jpg", filepath.Base(path))
}

func TestImageFetcher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewImageFetcher(dir, 5*time.Second)

	assert.Empty(t, f.Fetch(context.Background(), srv.URL+"/cover", 0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial file on failure")
}

func TestImageFetcher_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	f := NewImageFetcher(t.TempDir(), time.Second)
	assert.Empty(t, f.Fetch(context.Background(), srv.URL+"/cover", 0))
}

func TestImageFetcher_OversizedBodyDiscarded(t *testing.T) {
	old := maxImageBytes
	maxImageBytes = 16
	t.Cleanup(func() { maxImageBytes = old })

	// The handler flushes early so no Content-Length header is sent; the
	// cap has to trip on the bytes actually read.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewImageFetcher(dir, 5*time.Second)

	assert.Empty(t, f.Fetch(context.Background(), srv.URL+"/cover", 0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no truncated file on disk")
}

func TestImageFetcher_OversizedContentLengthRejected(t *testing.T) {
	old := maxImageBytes
	maxImageBytes = 16
	t.Cleanup(func() { maxImageBytes = old })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	f := NewImageFetcher(t.TempDir(), 5*time.Second)
	assert.Empty(t, f.Fetch(context.Background(), srv.URL+"/cover", 0))
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/png", "png"},
		{"image/webp", "webp"},
		{"image/jpeg", "jpg"},
		{"", "jpg"},
		{"text/html; charset=utf-8", "jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extensionFor(tt.contentType), "content type %q", tt.contentType)
	}
}
