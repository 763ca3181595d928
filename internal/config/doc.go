// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/gh-release-dl/config.cue (or the XDG equivalent
// on Linux, ~/Library/Application Support/gh-release-dl/config.cue on macOS,
// %APPDATA%\gh-release-dl\config.cue on Windows), falling back to ./config.cue.
// GH_RELEASE_DL_* environment variables override file values.
//
// Files are validated against an embedded CUE schema (config_schema.cue) before they
// reach Viper, so type and range errors name the offending field.
package config
