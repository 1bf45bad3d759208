// Package ui is the Bubble Tea terminal client for auragen.
//
// The screen follows the session phases from the meditation package:
//
//   - input: location field and the "Generate Sanctuary" action
//   - loading: spinner while the ScriptProvider fetches a script
//   - meditating: countdown, breathing cue, progress bar and the current sentence
//   - finished: closing message and "New Session"
//
// Timer ticks carry the session generation; ticks from a session that was
// ended early are dropped. The palette follows the session theme, so the named
// sanctuaries (pine-forest, misty-mountains, peaceful-lake) each get their own
// colors. The header shows service health read from the state store.
package ui
