// Package branding provides compile-time identity values for the CLI.
//
// Forkers (for example an arkenfox-flavored build) edit branding.yaml in
// this package before compiling. Go's //go:embed bakes it into the binary,
// so the upstream URL and recognition token are fixed process-wide at
// startup and never mutated afterwards.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName          string `yaml:"cli_name"`
	DisplayName      string `yaml:"display_name"`
	Description      string `yaml:"description"`
	HomeDir          string `yaml:"home_dir"`
	EnvPrefix        string `yaml:"env_prefix"`
	GoModule         string `yaml:"go_module"`
	UpstreamURL      string `yaml:"upstream_url"`
	RecognitionToken string `yaml:"recognition_token"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:          "prefsync",
			DisplayName:      "Prefsync",
			Description:      "Keeps a Firefox user.js in sync with upstream while preserving your overrides",
			HomeDir:          ".prefsync",
			EnvPrefix:        "PREFSYNC",
			GoModule:         "github.com/prefsync-dev/prefsync",
			UpstreamURL:      "https://raw.githubusercontent.com/ghacksuserjs/ghacks-user.js/master/user.js",
			RecognitionToken: "ghacks",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "prefsync").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Prefsync").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".prefsync").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "PREFSYNC").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Used by build scripts, not at runtime.
func GoModule() string { load(); return defaults.GoModule }

// UpstreamURL returns the canonical user.js download URL.
func UpstreamURL() string { load(); return defaults.UpstreamURL }

// RecognitionToken returns the substring a user.js header name must contain
// to be accepted as a member of the expected file family.
func RecognitionToken() string { load(); return defaults.RecognitionToken }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("URL") → "PREFSYNC_URL".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
