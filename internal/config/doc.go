// Package config loads, normalizes, and validates ineta configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// INETA_LIBRARY_FILE. The Config type enumerates every tolerance the pipeline
// uses with its unit and valid range, so stages receive typed values instead
// of loose parameter maps.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear field-qualified
// validation errors.
package config
