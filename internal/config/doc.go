// Package config loads gdocs settings.
//
// Settings are layered: built-in defaults, then the TOML config file, then
// environment variables (optionally read from a .env file), then command
// line flags. The service-account environment variable is not part of this
// chain; it stays the lowest credential fallback and is read by the google
// package when nothing else names a key file.
package config
