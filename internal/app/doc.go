// Package app is the composition root for auragen.
//
// Run wires the terminal client: config, prefs, a file logger, the aura HTTP
// client, the health poller and the Bubble Tea UI. Serve wires the script
// service: the llm provider, the SQLite script cache and the chi server.
// PrintScript backs `auragen script`.
//
// The poller checks /healthz on the configured interval and doubles the wait
// after each consecutive failure, up to 30 seconds. ScriptSource reads the
// poller's snapshot to decide whether a session asks the service for a script
// or goes straight to the built-in ones.
package app
