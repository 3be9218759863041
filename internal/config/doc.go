// SPDX-License-Identifier: MPL-2.0

// Package config handles fgmod configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the platform configuration
// directory ($XDG_CONFIG_HOME/fgmod on Linux, ~/Library/Application Support/fgmod
// on macOS, %APPDATA%\fgmod on Windows), or from an explicit path. The file is
// validated against the embedded config_schema.cue before it is merged over the
// defaults, and FGMOD_<SECTION>_<KEY> environment variables override both.
package config
