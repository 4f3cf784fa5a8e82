// Package config loads, normalizes, and validates the subvox TOML
// configuration. Defaults cover every field so the tool runs without a config
// file; CLI flags override the loaded values.
package config
