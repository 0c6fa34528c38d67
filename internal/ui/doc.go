// Package ui provides the interactive terminal front end for tally.
//
// The UI is a Bubble Tea program built on bubbles (textinput, viewport,
// key) and lipgloss. It never owns todo state: the Model subscribes to the
// store, turns every committed state into a stateMsg and sends user intent
// back as actions through Store.Dispatch.
//
// # Views
//
//   - Todos: the visible todos with a cursor, an add prompt and a filter
//   - History: every retained entry, newest first, with its action and counts
//   - Logs: the tail of the log file, optionally only failure lines
//
// # Update Flow
//
//  1. New subscribes a non-blocking forwarder to the store
//  2. Init waits on the forwarder channel and schedules the log tick
//  3. Key messages dispatch actions; errors land in the footer and the log
//  4. Each commit arrives as a stateMsg and re-arms the wait
//  5. Run unsubscribes when the program exits or the context ends
//
// # Key Bindings
//
//   - a: Add todo (enter to confirm, esc to cancel)
//   - x, space or enter: Toggle the selected todo
//   - d: Remove the selected todo
//   - f: Cycle filter (all, in progress, complete)
//   - C: Drop all history but the current entry
//   - F: Show only failure lines in the log view
//   - tab / shift+tab: Cycle views
//   - T: Cycle theme (saved to prefs)
//   - h or ?: Help
//   - q or ctrl+c: Quit
package ui
