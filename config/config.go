package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Scrape    ScrapeConfig
	Browser   BrowserConfig
	Remote    RemoteConfig
	Translate TranslateConfig
	Output    OutputConfig
	Webhook   WebhookConfig
	Server    ServerConfig
	Auth      AuthConfig
	Log       LogConfig
}

// ScrapeConfig controls what gets scraped and how patiently.
type ScrapeConfig struct {
	// ListingURL is the section listing page to pull articles from.
	ListingURL string // default: "https://elpais.com/opinion/"

	// ArticleCount is how many articles to extract from the listing.
	ArticleCount int // default: 5

	// SourceLang is the expected page language; a mismatch on the root
	// lang attribute is logged but never blocks the run.
	SourceLang string // default: "es"

	// NavigationTimeout bounds a single page navigation + settle.
	NavigationTimeout time.Duration // default: 30s

	// ConsentTimeout bounds the wait for the cookie consent button.
	ConsentTimeout time.Duration // default: 5s

	// ImageTimeout bounds a single cover-image download.
	ImageTimeout time.Duration // default: 15s
}

// BrowserConfig controls the local Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// AcceptLanguage is sent as the Accept-Language header so the site
	// serves the expected locale.
	AcceptLanguage string // default: "es-ES,es;q=0.9"
}

// RemoteConfig controls remote hub session negotiation.
type RemoteConfig struct {
	// HubURL is the websocket endpoint of the remote browser hub.
	HubURL string // default: "wss://cdp.browserstack.com/puppeteer"

	// Username and AccessKey authenticate against the hub.
	Username  string
	AccessKey string

	// BuildLabel groups sessions on the hub dashboard.
	BuildLabel string // default: "Gaceta Opinion Scraper"

	// TargetsFile optionally points to a YAML target matrix; when empty
	// the built-in five-target matrix is used.
	TargetsFile string
}

// TranslateConfig controls the headline translation client.
type TranslateConfig struct {
	// APIKey is the RapidAPI key; with an empty key the client degrades
	// to returning originals.
	APIKey string

	// APIHost is the RapidAPI host of the translation endpoint.
	APIHost string // default: "google-translate113.p.rapidapi.com"

	// SourceLang and DestLang are ISO language codes.
	SourceLang string // default: "es"
	DestLang   string // default: "en"

	// RequestsPerSecond and Burst bound the request rate; the free tier
	// throttles aggressively.
	RequestsPerSecond float64 // default: 2
	Burst             int     // default: 1

	// Timeout bounds one translation request.
	Timeout time.Duration // default: 15s
}

// OutputConfig controls where artifacts land.
type OutputConfig struct {
	Dir       string // default: "output"
	ImagesDir string // default: "images"
}

// WebhookConfig controls the optional run-summary webhook.
type WebhookConfig struct {
	// URL is the endpoint to notify after a run; empty disables delivery.
	URL string

	// Secret, when set, signs the payload with HMAC-SHA256.
	Secret string
}

// ServerConfig controls the report HTTP server (--serve mode).
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// AuthConfig controls API key authentication on the report server.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			ListingURL:        envOr("GACETA_LISTING_URL", "https://elpais.com/opinion/"),
			ArticleCount:      envIntOr("GACETA_ARTICLE_COUNT", 5),
			SourceLang:        envOr("GACETA_SOURCE_LANG", "es"),
			NavigationTimeout: envDurationOr("GACETA_NAV_TIMEOUT", 30*time.Second),
			ConsentTimeout:    envDurationOr("GACETA_CONSENT_TIMEOUT", 5*time.Second),
			ImageTimeout:      envDurationOr("GACETA_IMAGE_TIMEOUT", 15*time.Second),
		},
		Browser: BrowserConfig{
			Headless:       envBoolOr("GACETA_HEADLESS", true),
			NoSandbox:      envBoolOr("GACETA_NO_SANDBOX", false),
			BrowserBin:     os.Getenv("GACETA_BROWSER_BIN"),
			AcceptLanguage: envOr("GACETA_ACCEPT_LANGUAGE", "es-ES,es;q=0.9"),
		},
		Remote: RemoteConfig{
			HubURL:      envOr("GACETA_HUB_URL", "wss://cdp.browserstack.com/puppeteer"),
			Username:    os.Getenv("BROWSERSTACK_USERNAME"),
			AccessKey:   os.Getenv("BROWSERSTACK_ACCESS_KEY"),
			BuildLabel:  envOr("GACETA_BUILD_LABEL", "Gaceta Opinion Scraper"),
			TargetsFile: os.Getenv("GACETA_TARGETS_FILE"),
		},
		Translate: TranslateConfig{
			APIKey:            os.Getenv("RAPIDAPI_KEY"),
			APIHost:           envOr("GACETA_TRANSLATE_HOST", "google-translate113.p.rapidapi.com"),
			SourceLang:        envOr("GACETA_TRANSLATE_FROM", "es"),
			DestLang:          envOr("GACETA_TRANSLATE_TO", "en"),
			RequestsPerSecond: envFloatOr("GACETA_TRANSLATE_RPS", 2.0),
			Burst:             envIntOr("GACETA_TRANSLATE_BURST", 1),
			Timeout:           envDurationOr("GACETA_TRANSLATE_TIMEOUT", 15*time.Second),
		},
		Output: OutputConfig{
			Dir:       envOr("GACETA_OUTPUT_DIR", "output"),
			ImagesDir: envOr("GACETA_IMAGES_DIR", "images"),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("GACETA_WEBHOOK_URL"),
			Secret: os.Getenv("GACETA_WEBHOOK_SECRET"),
		},
		Server: ServerConfig{
			Host: envOr("GACETA_HOST", "0.0.0.0"),
			Port: envIntOr("GACETA_PORT", 8080),
			Mode: envOr("GACETA_MODE", "release"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("GACETA_AUTH_ENABLED", false),
			APIKeys: envSliceOr("GACETA_API_KEYS", nil),
		},
		Log: LogConfig{
			Level:  envOr("GACETA_LOG_LEVEL", "info"),
			Format: envOr("GACETA_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
