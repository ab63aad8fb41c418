// SPDX-License-Identifier: MPL-2.0

// Package config handles pipeconf configuration using Viper with CUE as the
// file format.
//
// Configuration is loaded from config.cue in the pipeconf configuration
// directory ($XDG_CONFIG_HOME/pipeconf or ~/.config/pipeconf on Linux,
// ~/Library/Application Support/pipeconf on macOS, %APPDATA%\pipeconf on
// Windows), from ./config.cue when no user file exists, or from an explicit
// --config path. The file is validated against the embedded #Config schema
// before it is merged over the defaults. PIPECONF_* environment variables
// override file values (PIPECONF_PIPELINE_PATTERN, PIPECONF_UI_VERBOSE, ...).
package config
