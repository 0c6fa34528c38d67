// Package app is tally's composition root.
//
// Run wires configuration, the log file, the todo store, the startup
// script and one of the two front ends:
//
//	Run()
//	  ├─> config.Load()       TOML file plus TALLY_* overrides
//	  ├─> prefs.Load()        theme and last view
//	  ├─> openLog()           log.Logger on the configured file
//	  ├─> store.New()         todo.Handlers(), retention, logger
//	  ├─> ReplayFile()        optional JSON action script
//	  └─> report.Write()      with -print or when stdout is not a terminal
//	      or ui.Run()         otherwise (blocks)
//
// # Error Handling
//
// Fatal (returned from Run):
//   - Invalid configuration or environment values
//   - Log file cannot be created
//   - Script cannot be opened or is not a JSON action array
//
// Recoverable (logged, execution continues):
//   - A script action whose dispatch fails, such as an index out of range
//     or an unknown action name
//   - Subscriber failures reported by the store
//
// # Script Format
//
//	[
//	  {"name": "ADD_TODO", "payload": "Buy milk"},
//	  {"name": "COMPLETE_TODO", "payload": {"index": 0}}
//	]
//
// Scripts ending in .yaml or .yml use the same shape in YAML:
//
//	- name: ADD_TODO
//	  payload: Buy milk
package app
