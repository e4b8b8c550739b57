// Package config handles loading and parsing the huum configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/huum/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// Missing config files are NOT an error. huum should work out of the box
// against the vendor cloud without any local configuration.
//
// # TOML Format
//
// Example config.toml:
//
//	api_url = "https://sauna.huum.eu"
//	legacy_api_url = "https://api.huum.eu"
//	timeout_seconds = 10
//	log_level = "warn"
//
// api_url and legacy_api_url are the candidate base addresses tried in order
// during login; every other call uses only the address that produced a
// successful login. timeout_seconds bounds each request round trip.
//
// The package is read-only and stateless: configuration is loaded once at
// startup into an immutable Config value.
package config
