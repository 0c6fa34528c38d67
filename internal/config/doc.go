// Package config loads tally's settings.
//
// # Resolution Order
//
//  1. Defaults (unbounded history, log file under ~/.local/state/tally)
//  2. The TOML file given with -config, else ~/.config/tally/config.toml;
//     a missing file is not an error
//  3. TALLY_* environment variables
//
// # TOML Format
//
//	history_limit = 500
//	log_file = "~/.local/state/tally/tally.log"
//	script = "~/todos.json"
//
// All fields are optional. Tilde expansion is applied to log_file and
// script.
//
// # Environment
//
//   - TALLY_HISTORY_LIMIT
//   - TALLY_LOG_FILE
//   - TALLY_SCRIPT
//
// # Error Handling
//
// Load returns errors for unreadable or malformed files, unparsable
// environment values and a negative history_limit.
package config
