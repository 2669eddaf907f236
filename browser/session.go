// Package browser owns browser sessions: launching a local Chromium or
// negotiating a remote hub session, and the small driving surface the
// scraper needs (navigate, query, wait, eval, close).
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/umbral-dev/gaceta/models"
)

// domSettle is the window used to decide the DOM has stopped mutating after
// a navigation.
const domSettle = 300 * time.Millisecond

// Session is a live connection to one browser instance, local or remote.
// It is bound to exactly one target for the lifetime of one run, owned by a
// single goroutine, and must be closed exactly once. Close is idempotent.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	launch  *launcher.Launcher // nil for remote sessions
	target  models.TargetDescriptor
	remote  bool

	closeOnce sync.Once
}

// Target returns the descriptor this session was created for.
func (s *Session) Target() models.TargetDescriptor {
	return s.target
}

// IsRemote reports whether the session runs on the remote hub.
func (s *Session) IsRemote() bool {
	return s.remote
}

// Navigate loads url and waits for the DOM to settle. A page that keeps
// mutating past the context deadline is not an error: scraping proceeds on
// whatever DOM is there.
func (s *Session) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return models.NewScrapeError(models.ErrCodeNavigation,
			fmt.Sprintf("navigation to %s failed", url), err)
	}
	if err := p.WaitDOMStable(domSettle, 0.1); err != nil {
		slog.Debug("DOM did not settle, proceeding with current state",
			"url", url, "error", err)
	}
	return nil
}

// HTML returns the rendered HTML of the current page.
func (s *Session) HTML(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeExtraction,
			"failed to read page HTML", err)
	}
	return html, nil
}

// ClickFirst waits up to timeout for an element matching selector and clicks
// it. Used for consent banners, where absence is a normal outcome.
func (s *Session) ClickFirst(ctx context.Context, selector string, timeout time.Duration) error {
	el, err := s.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// WaitFor waits up to timeout for an element matching selector to exist.
// Returns false on timeout; callers treat a miss as degradable.
func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) bool {
	_, err := s.page.Context(ctx).Timeout(timeout).Element(selector)
	return err == nil
}

// EvalString evaluates a JS function and returns its string result,
// swallowing any error. Used for optional metadata like the page language.
func (s *Session) EvalString(ctx context.Context, js string) string {
	res, err := s.page.Context(ctx).Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// PageLang reads the root element's lang attribute.
func (s *Session) PageLang(ctx context.Context) string {
	return s.EvalString(ctx, `() => document.documentElement.lang || ""`)
}

// SetStatus reports the final pass/fail verdict to the remote hub through
// its executor protocol: a no-op evaluation whose argument is a magic
// instruction string the hub intercepts. On local sessions it is a no-op.
func (s *Session) SetStatus(ctx context.Context, status models.RunStatus, reason string) error {
	if !s.remote {
		return nil
	}

	args, err := json.Marshal(map[string]string{
		"status": string(status),
		"reason": reason,
	})
	if err != nil {
		return err
	}
	instruction := fmt.Sprintf(
		`browserstack_executor: {"action": "setSessionStatus", "arguments": %s}`, args)

	_, err = s.page.Context(ctx).Eval(`s => {}`, instruction)
	return err
}

// Close releases the session exactly once: disconnects from the browser and,
// for local sessions, kills the launched Chromium and removes its user data
// dir. Safe to call from a defer on every exit path.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if err := s.browser.Close(); err != nil {
			slog.Warn("browser close failed", "target", s.target.DisplayName, "error", err)
		}
		if s.launch != nil {
			s.launch.Kill()
			s.launch.Cleanup()
		}
		slog.Debug("session closed", "target", s.target.DisplayName)
	})
}

// setExtraHeaders installs extra HTTP headers (Accept-Language) on the page
// so the site serves the expected locale.
func setExtraHeaders(page *rod.Page, headers map[string]string) {
	if len(headers) == 0 {
		return
	}
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(headers),
	}.Call(page)
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
