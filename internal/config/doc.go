// Package config manages user-level settings stored at ~/.prefsync/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the upstream user.js URL and the profile directory, and validates the file
// against an embedded JSON schema.
package config
