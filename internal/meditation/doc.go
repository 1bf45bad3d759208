// Package meditation holds the session model for a guided breathing exercise.
//
// A session walks through four phases in a fixed order:
//
//	input ──Start──> loading ──Begin──> meditating ──Tick…──> finished
//	  ^                                                          │
//	  └────────────────────────── Reset ─────────────────────────┘
//
// The countdown runs for Duration seconds (60 by default). The sentence shown
// at any moment is derived from the remaining time by ScriptIndex, so each of
// the six sentences gets an equal share of the session.
//
// Curated scripts for a handful of sanctuaries live in this package and double
// as the offline fallback when no generated script is available.
package meditation
