package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umbral-dev/gaceta/models"
)

func TestDefaultTargets(t *testing.T) {
	targets := DefaultTargets()
	require.Len(t, targets, 5)

	mobile := 0
	for _, tgt := range targets {
		assert.NotEmpty(t, tgt.DisplayName)
		assert.NotEmpty(t, tgt.Option(models.OptBrowserName))
		if tgt.IsMobile {
			mobile++
			assert.NotEmpty(t, tgt.Option(models.OptDeviceName))
		} else {
			assert.NotEmpty(t, tgt.Option(models.OptPlatform))
		}
	}
	assert.Equal(t, 2, mobile, "matrix should carry two device targets")
}

func TestLoadTargets_EmptyPathUsesDefaults(t *testing.T) {
	targets, err := LoadTargets("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTargets(), targets)
}

func TestLoadTargets_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	doc := `targets:
  - displayName: "Edge on Windows 11"
    platformOptions:
      platform: "Windows"
      platformVersion: "11"
      browserName: "Edge"
      browserVersion: "latest"
  - displayName: "Pixel 8 (Chrome)"
    isMobile: true
    platformOptions:
      deviceName: "Google Pixel 8"
      platformVersion: "14.0"
      browserName: "Chrome"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	targets, err := LoadTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 2)

	assert.Equal(t, "Edge on Windows 11", targets[0].DisplayName)
	assert.False(t, targets[0].IsMobile)
	assert.Equal(t, "Edge", targets[0].Option(models.OptBrowserName))

	assert.True(t, targets[1].IsMobile)
	assert.Equal(t, "Google Pixel 8", targets[1].Option(models.OptDeviceName))
}

func TestLoadTargets_Invalid(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("targets: []\n"), 0o644))
	_, err := LoadTargets(empty)
	assert.Error(t, err)

	unnamed := filepath.Join(dir, "unnamed.yaml")
	require.NoError(t, os.WriteFile(unnamed, []byte("targets:\n  - isMobile: true\n"), 0o644))
	_, err = LoadTargets(unnamed)
	assert.Error(t, err)

	_, err = LoadTargets(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
