package browser

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/umbral-dev/gaceta/config"
	"github.com/umbral-dev/gaceta/models"
)

// Factory creates sessions from target descriptors. It holds only immutable
// configuration and is safe for concurrent use.
type Factory struct {
	browserCfg config.BrowserConfig
	remoteCfg  config.RemoteConfig
}

// NewFactory creates a session factory.
func NewFactory(browserCfg config.BrowserConfig, remoteCfg config.RemoteConfig) *Factory {
	return &Factory{browserCfg: browserCfg, remoteCfg: remoteCfg}
}

// NewLocal launches a local Chromium and returns a session bound to the
// given descriptor (normally the synthetic "local" target).
func (f *Factory) NewLocal(ctx context.Context, target models.TargetDescriptor) (*Session, error) {
	l := launcher.New().
		Headless(f.browserCfg.Headless).
		NoSandbox(f.browserCfg.NoSandbox)

	if f.browserCfg.BrowserBin != "" {
		l = l.Bin(f.browserCfg.BrowserBin)
	}

	// Mask the automation fingerprint and pin the browser locale.
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("lang"), primaryLang(f.browserCfg.AcceptLanguage))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("disable-dev-shm-usage"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeSessionCreate,
			"failed to launch local browser", err)
	}
	slog.Info("local browser launched", "controlURL", controlURL)

	b := rod.New().Context(ctx).ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, models.NewScrapeError(models.ErrCodeSessionCreate,
			"failed to connect to local browser", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Kill()
		l.Cleanup()
		return nil, models.NewScrapeError(models.ErrCodeSessionCreate,
			"failed to open page on local browser", err)
	}

	// Stealth must be installed before any navigation to take effect.
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		slog.Warn("stealth injection failed, proceeding without it", "error", err)
	}
	setExtraHeaders(page, map[string]string{
		"Accept-Language": f.browserCfg.AcceptLanguage,
	})

	return &Session{browser: b, page: page, launch: l, target: target}, nil
}

// NewRemote negotiates a session on the remote hub for the given target.
// The capability payload travels in the websocket query string; the hub
// rejects malformed payloads during the handshake, which surfaces here as a
// connect error.
func (f *Factory) NewRemote(ctx context.Context, target models.TargetDescriptor) (*Session, error) {
	caps := BuildCapabilities(f.remoteCfg, target)
	payload, err := json.Marshal(caps)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeSessionCreate,
			"failed to encode capabilities", err)
	}

	q := url.Values{}
	q.Set("caps", string(payload))
	wsURL := f.remoteCfg.HubURL + "?" + q.Encode()

	b := rod.New().Context(ctx).ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeSessionCreate,
			"remote hub refused session for "+target.DisplayName, err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		return nil, models.NewScrapeError(models.ErrCodeSessionCreate,
			"failed to open page on remote session", err)
	}

	slog.Info("remote session created", "target", target.DisplayName)
	return &Session{browser: b, page: page, target: target, remote: true}, nil
}

// BuildCapabilities maps a target descriptor onto the hub capability
// payload. Desktop and mobile targets populate disjoint field subsets:
// desktop gets platform + browserVersion, mobile gets deviceName. The hub
// rejects payloads mixing the two, so the branch below never cross-fills.
func BuildCapabilities(cfg config.RemoteConfig, target models.TargetDescriptor) models.Capabilities {
	caps := models.Capabilities{
		UserName:        cfg.Username,
		AccessKey:       cfg.AccessKey,
		BrowserName:     target.Option(models.OptBrowserName),
		PlatformVersion: target.Option(models.OptPlatformVersion),
		SessionLabel:    target.Option(models.OptSessionLabel),
		BuildLabel:      cfg.BuildLabel,
	}
	if caps.SessionLabel == "" {
		caps.SessionLabel = target.DisplayName
	}

	if target.IsMobile {
		caps.DeviceName = target.Option(models.OptDeviceName)
	} else {
		caps.Platform = target.Option(models.OptPlatform)
		caps.BrowserVersion = target.Option(models.OptBrowserVersion)
		if caps.BrowserVersion == "" {
			caps.BrowserVersion = "latest"
		}
	}
	return caps
}

// primaryLang reduces an Accept-Language header to its first language tag.
func primaryLang(acceptLanguage string) string {
	first, _, _ := strings.Cut(acceptLanguage, ",")
	tag, _, _ := strings.Cut(strings.TrimSpace(first), ";")
	if tag == "" {
		return "en-US"
	}
	return tag
}
