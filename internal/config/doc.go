// SPDX-License-Identifier: MPL-2.0

// Package config handles boo configuration using Viper with CUE as the file format.
//
// Configuration is loaded from an explicit --config file when given, otherwise from
// config.cue in the user config directory ($XDG_CONFIG_HOME/boo on Linux,
// ~/Library/Application Support/boo on macOS, %APPDATA%\boo on Windows), otherwise
// from boo.config.cue in the project directory. Missing files are not an error:
// built-in defaults apply. Environment variables prefixed with BOO_ override file
// values; BOO_API_URL points the client at another registry.
//
// Files are validated against an embedded CUE schema (config_schema.cue) before they
// are merged, so typos in keys and wrongly typed values are reported with their path.
package config
