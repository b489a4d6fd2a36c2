// Package config loads, normalizes, and validates the TOML configuration
// that drives ytdlx: directory layout, tool path overrides, extractor
// behaviour, output containers, history retention, and logging.
package config
