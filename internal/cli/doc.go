// Package cli defines the Cobra command tree for the prefsync CLI. Each
// file in this package registers one top-level command (update, version,
// doctor) with the root command. Command implementations delegate to the
// internal packages for business logic and only handle flag parsing, I/O
// formatting, and user interaction.
package cli
