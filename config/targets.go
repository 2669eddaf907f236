package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/umbral-dev/gaceta/models"
)

// DefaultTargets is the built-in five-target matrix: three desktop browsers
// and two real devices, the mix the remote runs are expected to cover.
func DefaultTargets() []models.TargetDescriptor {
	return []models.TargetDescriptor{
		{
			DisplayName: "Chrome on Windows 11",
			PlatformOptions: map[string]string{
				models.OptPlatform:        "Windows",
				models.OptPlatformVersion: "11",
				models.OptBrowserName:     "Chrome",
				models.OptBrowserVersion:  "latest",
				models.OptSessionLabel:    "Gaceta_Chrome_Win11",
			},
		},
		{
			DisplayName: "Safari on macOS Ventura",
			PlatformOptions: map[string]string{
				models.OptPlatform:        "OS X",
				models.OptPlatformVersion: "Ventura",
				models.OptBrowserName:     "Safari",
				models.OptBrowserVersion:  "latest",
				models.OptSessionLabel:    "Gaceta_Safari_macOS",
			},
		},
		{
			DisplayName: "Firefox on Windows 10",
			PlatformOptions: map[string]string{
				models.OptPlatform:        "Windows",
				models.OptPlatformVersion: "10",
				models.OptBrowserName:     "Firefox",
				models.OptBrowserVersion:  "latest",
				models.OptSessionLabel:    "Gaceta_Firefox_Win10",
			},
		},
		{
			DisplayName: "Samsung Galaxy S23 (Chrome)",
			IsMobile:    true,
			PlatformOptions: map[string]string{
				models.OptDeviceName:      "Samsung Galaxy S23",
				models.OptPlatformVersion: "13.0",
				models.OptBrowserName:     "Chrome",
				models.OptSessionLabel:    "Gaceta_Chrome_GalaxyS23",
			},
		},
		{
			DisplayName: "iPhone 15 (Safari)",
			IsMobile:    true,
			PlatformOptions: map[string]string{
				models.OptDeviceName:      "iPhone 15",
				models.OptPlatformVersion: "17",
				models.OptBrowserName:     "Safari",
				models.OptSessionLabel:    "Gaceta_Safari_iPhone15",
			},
		},
	}
}

// targetsFile is the YAML shape of a target matrix file.
type targetsFile struct {
	Targets []models.TargetDescriptor `yaml:"targets"`
}

// LoadTargets reads a target matrix from a YAML file. An empty path returns
// the built-in matrix.
func LoadTargets(path string) ([]models.TargetDescriptor, error) {
	if path == "" {
		return DefaultTargets(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("targets: read %s: %w", path, err)
	}

	var tf targetsFile
	if err := yaml.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("targets: parse %s: %w", path, err)
	}
	if len(tf.Targets) == 0 {
		return nil, fmt.Errorf("targets: %s declares no targets", path)
	}

	for i, t := range tf.Targets {
		if t.DisplayName == "" {
			return nil, fmt.Errorf("targets: entry %d has no displayName", i)
		}
	}
	return tf.Targets, nil
}
