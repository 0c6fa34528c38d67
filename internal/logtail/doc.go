// Package logtail reads the last lines of tally's log file for the UI's log
// view.
//
// Read keeps a ring buffer of the newest lines while scanning the file once,
// so memory is bounded by maxLines rather than the file size:
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// ReadMatching applies a substring filter before lines enter the ring. The
// UI uses it to show only failure lines:
//
//	failures, err := logtail.ReadMatching(cfg.LogFile, 200, "failed")
//
// A log file that does not exist yet is treated as empty.
package logtail
