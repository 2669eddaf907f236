package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tls2 "github.com/refraction-networking/utls"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxImageBytes caps a single cover-image download. A response exceeding it
// is discarded whole rather than truncated to a corrupt file.
var maxImageBytes int64 = 20 * 1024 * 1024

// ImageFetcher downloads cover images over HTTP with a Chrome TLS
// fingerprint, so the CDN treats it like the browser session that found the
// image. Failures are logged and absorbed: an article without its cover
// image is still a complete record.
type ImageFetcher struct {
	dir     string
	timeout time.Duration
	client  *http.Client
}

// NewImageFetcher creates a fetcher writing into dir. The directory is
// created lazily on first successful download.
func NewImageFetcher(dir string, timeout time.Duration) *ImageFetcher {
	return &ImageFetcher{
		dir:     dir,
		timeout: timeout,
		client: &http.Client{
			Transport: &http.Transport{
				DialTLSContext: dialTLSChrome,
			},
		},
	}
}

// Fetch downloads imageURL and returns the local path, or "" on any failure
// (network, non-2xx, I/O). The filename is keyed by the article index so a
// re-run overwrites deterministically.
func (f *ImageFetcher) Fetch(ctx context.Context, imageURL string, idx int) string {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		slog.Warn("image request build failed", "url", imageURL, "error", err)
		return ""
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		slog.Warn("image download failed", "url", imageURL, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("image download rejected", "url", imageURL, "status", resp.StatusCode)
		return ""
	}

	if resp.ContentLength > maxImageBytes {
		slog.Warn("image too large", "url", imageURL, "contentLength", resp.ContentLength)
		return ""
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		slog.Warn("image dir creation failed", "dir", f.dir, "error", err)
		return ""
	}

	name := fmt.Sprintf("article_%d_cover.%s", idx+1, extensionFor(resp.Header.Get("Content-Type")))
	path := filepath.Join(f.dir, name)

	out, err := os.Create(path)
	if err != nil {
		slog.Warn("image file creation failed", "path", path, "error", err)
		return ""
	}

	// Read one byte past the cap so a chunked response with no
	// Content-Length still gets caught instead of silently truncated.
	n, err := io.Copy(out, io.LimitReader(resp.Body, maxImageBytes+1))
	closeErr := out.Close()
	if err != nil || closeErr != nil {
		slog.Warn("image write failed", "path", path, "error", err)
		_ = os.Remove(path)
		return ""
	}
	if n > maxImageBytes {
		slog.Warn("image too large, discarding", "url", imageURL, "path", path)
		_ = os.Remove(path)
		return ""
	}

	slog.Info("cover image saved", "path", path)
	return path
}

// extensionFor infers a file extension from the response content type.
// PNG and WebP are recognised explicitly; anything else lands on jpg, the
// dominant raster format on news CDNs.
func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return "jpg"
	}
}

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint via utls.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls2.UClient(rawConn, &tls2.Config{
		ServerName: host,
	}, tls2.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}
