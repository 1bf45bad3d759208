package ui

import "time"

// Copy shown in the input phase.
const (
	InputTitle       = "Nature Meditation"
	InputSubtitle    = "Enter a location to generate a customized 60-second breathing exercise."
	InputPlaceholder = "e.g. Pine Forest, Peaceful Lake..."
)

// Widget sizes.
const (
	InputWidth        = 40
	MaxLocationLength = 200
	ProgressMaxWidth  = 48
	CardMaxWidth      = 72
)

// DefaultStatusInterval is how often the header re-reads service health.
const DefaultStatusInterval = 2 * time.Second
