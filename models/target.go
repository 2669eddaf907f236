package models

// Platform option keys recognised in TargetDescriptor.PlatformOptions.
const (
	OptPlatform        = "platform"
	OptPlatformVersion = "platformVersion"
	OptBrowserName     = "browserName"
	OptBrowserVersion  = "browserVersion"
	OptDeviceName      = "deviceName"
	OptSessionLabel    = "sessionLabel"
)

// TargetDescriptor describes one browser/OS/device combination to run
// against. It is static configuration: read-only and copied by value into
// each concurrent run.
type TargetDescriptor struct {
	// DisplayName is the human-readable target name used in logs,
	// RunResults and the session label fallback.
	DisplayName string `yaml:"displayName" json:"display_name"`

	// IsMobile selects the mobile capability shape (deviceName +
	// platformVersion) over the desktop one (platform + browserVersion).
	IsMobile bool `yaml:"isMobile" json:"is_mobile"`

	// PlatformOptions holds the raw option values keyed by the Opt*
	// constants. Which keys are consumed depends on IsMobile.
	PlatformOptions map[string]string `yaml:"platformOptions" json:"platform_options"`
}

// Option returns the named platform option or "" when absent.
func (t TargetDescriptor) Option(key string) string {
	return t.PlatformOptions[key]
}

// Capabilities is the payload handed to the remote hub when negotiating a
// session. Desktop and mobile targets populate disjoint subsets: the hub
// rejects malformed payloads outright rather than degrading, so fields that
// do not apply must stay unset.
type Capabilities struct {
	UserName  string `json:"userName,omitempty"`
	AccessKey string `json:"accessKey,omitempty"`

	// Desktop-only.
	Platform       string `json:"platform,omitempty"`
	BrowserVersion string `json:"browserVersion,omitempty"`

	// Mobile-only.
	DeviceName string `json:"deviceName,omitempty"`

	// Shared.
	PlatformVersion string `json:"platformVersion,omitempty"`
	BrowserName     string `json:"browserName,omitempty"`
	SessionLabel    string `json:"sessionLabel,omitempty"`
	BuildLabel      string `json:"buildLabel,omitempty"`
}
