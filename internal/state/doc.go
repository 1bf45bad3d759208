// Package state shares service health between the background poller and the
// terminal UI.
//
// The poller calls Store.Update after every health check; the UI reads a copy
// with Store.Snapshot on each frame. Two consecutive failures mark the service
// offline, at which point the client stops calling it and serves the built-in
// scripts instead.
package state
