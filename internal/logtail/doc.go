// Package logtail reads the tail of auragen log files for `auragen logs`.
//
// Read keeps a ring buffer of the last N lines so large files are never held
// in memory. Highlighter colors the level column of zap console entries when
// the output is a terminal.
package logtail
