package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/prefsync-dev/prefsync/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the config file and the PREFSYNC_* environment.
const (
	KeyUpstreamURL      = "upstream_url"
	KeyProfileDir       = "profile_dir"
	KeyRecognitionToken = "recognition_token"
	KeyUnattended       = "unattended"
	KeyMinify           = "minify"
	KeySingleBackup     = "single_backup"
)

// Dir returns the path to the config directory (~/.prefsync/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.prefsync/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Defaults come from the embedded branding; the profile directory defaults
// to the working directory, matching the classic updater scripts which are
// run from inside the Firefox profile.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyUpstreamURL, branding.UpstreamURL())
	viper.SetDefault(KeyProfileDir, ".")
	viper.SetDefault(KeyRecognitionToken, branding.RecognitionToken())
	viper.SetDefault(KeyUnattended, false)
	viper.SetDefault(KeyMinify, false)
	viper.SetDefault(KeySingleBackup, false)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// GetBool returns a boolean config value by key.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Set writes a config key-value pair and saves the config file. Values for
// the boolean keys are stored as booleans so the saved file still passes
// schema validation.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	switch key {
	case KeyUnattended, KeyMinify, KeySingleBackup:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("key %q takes true or false, got %q", key, value)
		}
		viper.Set(key, b)
	default:
		viper.Set(key, value)
	}

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
