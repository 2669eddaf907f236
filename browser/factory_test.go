package browser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umbral-dev/gaceta/config"
	"github.com/umbral-dev/gaceta/models"
)

var testRemoteCfg = config.RemoteConfig{
	Username:   "alice",
	AccessKey:  "s3cret",
	BuildLabel: "Gaceta Opinion Scraper",
}

func TestBuildCapabilities_Desktop(t *testing.T) {
	target := models.TargetDescriptor{
		DisplayName: "Firefox on Windows 10",
		PlatformOptions: map[string]string{
			models.OptPlatform:        "Windows",
			models.OptPlatformVersion: "10",
			models.OptBrowserName:     "Firefox",
			models.OptBrowserVersion:  "latest",
			models.OptSessionLabel:    "Gaceta_Firefox_Win10",
		},
	}

	caps := BuildCapabilities(testRemoteCfg, target)

	assert.Equal(t, "Windows", caps.Platform)
	assert.Equal(t, "10", caps.PlatformVersion)
	assert.Equal(t, "Firefox", caps.BrowserName)
	assert.Equal(t, "latest", caps.BrowserVersion)
	assert.Equal(t, "Gaceta_Firefox_Win10", caps.SessionLabel)
	assert.Equal(t, "Gaceta Opinion Scraper", caps.BuildLabel)

	// Desktop payloads must never carry mobile-only fields.
	assert.Empty(t, caps.DeviceName)
}

func TestBuildCapabilities_Mobile(t *testing.T) {
	target := models.TargetDescriptor{
		DisplayName: "iPhone 15 (Safari)",
		IsMobile:    true,
		PlatformOptions: map[string]string{
			models.OptDeviceName:      "iPhone 15",
			models.OptPlatformVersion: "17",
			models.OptBrowserName:     "Safari",
		},
	}

	caps := BuildCapabilities(testRemoteCfg, target)

	assert.Equal(t, "iPhone 15", caps.DeviceName)
	assert.Equal(t, "17", caps.PlatformVersion)
	assert.Equal(t, "Safari", caps.BrowserName)

	// Mobile payloads must never carry desktop-only fields: the hub
	// rejects mixed payloads instead of degrading gracefully.
	assert.Empty(t, caps.Platform)
	assert.Empty(t, caps.BrowserVersion)
}

func TestBuildCapabilities_SessionLabelFallsBackToDisplayName(t *testing.T) {
	target := models.TargetDescriptor{
		DisplayName: "Chrome on Windows 11",
		PlatformOptions: map[string]string{
			models.OptPlatform:    "Windows",
			models.OptBrowserName: "Chrome",
		},
	}

	caps := BuildCapabilities(testRemoteCfg, target)
	assert.Equal(t, "Chrome on Windows 11", caps.SessionLabel)
	assert.Equal(t, "latest", caps.BrowserVersion, "desktop browserVersion defaults to latest")
}

func TestBuildCapabilities_MobileJSONOmitsDesktopKeys(t *testing.T) {
	target := models.TargetDescriptor{
		DisplayName: "Samsung Galaxy S23 (Chrome)",
		IsMobile:    true,
		PlatformOptions: map[string]string{
			models.OptDeviceName:      "Samsung Galaxy S23",
			models.OptPlatformVersion: "13.0",
			models.OptBrowserName:     "Chrome",
		},
	}

	raw, err := json.Marshal(BuildCapabilities(testRemoteCfg, target))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "platform")
	assert.NotContains(t, decoded, "browserVersion")
	assert.Contains(t, decoded, "deviceName")
}

func TestPrimaryLang(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"es-ES,es;q=0.9", "es-ES"},
		{"es", "es"},
		{"en-US,en;q=0.9,es;q=0.8", "en-US"},
		{"", "en-US"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, primaryLang(tt.in), "input %q", tt.in)
	}
}
