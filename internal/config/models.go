package config

// Settings represents the entire user configuration file.
type Settings struct {
	Version int `yaml:"version"`

	// APIBaseURL is the base URL of the profile records API
	// (e.g., "http://192.168.1.20:5000"). When empty, the CLI attempts
	// mDNS discovery of the service on the local network.
	APIBaseURL string `yaml:"api_base_url,omitempty"`

	// CaptureCommand is the external command used to grab one camera frame.
	// A "%s" placeholder is replaced with the output image path.
	CaptureCommand string `yaml:"capture_command,omitempty"`

	// DiscoverTimeout is the mDNS discovery timeout in seconds.
	DiscoverTimeout int `yaml:"discover_timeout,omitempty"`
}

// DefaultCaptureCommand grabs a single frame from the default video device.
const DefaultCaptureCommand = "fswebcam --no-banner --png 9 --save %s"

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:         1,
		CaptureCommand:  DefaultCaptureCommand,
		DiscoverTimeout: 5,
	}
}
