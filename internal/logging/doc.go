// Package logging builds the zap loggers used by auragen.
//
// The server logs to stdout and to its log file. The terminal client owns the
// screen, so it logs to file only. Level colors are used on terminals and never
// in files.
package logging
