package meditation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ScriptLength is the number of sentences in every guided script.
const ScriptLength = 6

// DefaultTheme is used for locations without a dedicated preset.
const DefaultTheme = "default"

var (
	// ErrScriptLength reports a script that does not hold exactly ScriptLength sentences.
	ErrScriptLength = errors.New("script must contain exactly 6 sentences")
	// ErrBlankSentence reports a script with an empty sentence.
	ErrBlankSentence = errors.New("script contains a blank sentence")
)

// Script is an ordered list of guided breathing sentences.
type Script []string

// Validate checks the script shape.
func (s Script) Validate() error {
	if len(s) != ScriptLength {
		return fmt.Errorf("%w: got %d", ErrScriptLength, len(s))
	}
	for i, line := range s {
		if strings.TrimSpace(line) == "" {
			return fmt.Errorf("%w at position %d", ErrBlankSentence, i+1)
		}
	}
	return nil
}

// Clone returns an independent copy.
func (s Script) Clone() Script {
	if s == nil {
		return nil
	}
	dup := make(Script, len(s))
	copy(dup, s)
	return dup
}

// Source records where a script came from.
type Source string

const (
	SourceAI       Source = "ai"
	SourcePreset   Source = "preset"
	SourceFallback Source = "fallback"
)

// Label returns a short human-readable label.
func (s Source) Label() string {
	switch s {
	case SourceAI:
		return "AI guided"
	case SourcePreset:
		return "Curated"
	case SourceFallback:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Delivery is a script ready to play together with its origin. Notice carries
// a short user-facing reason when the service could not be used.
type Delivery struct {
	Script Script
	Source Source
	Notice string
}

// OfflineDelivery returns the built-in script for location. Named sanctuaries
// are marked as presets, everything else as fallback.
func OfflineDelivery(location, notice string) Delivery {
	if script, _, ok := Preset(location); ok {
		return Delivery{Script: script, Source: SourcePreset, Notice: notice}
	}
	script, _ := Fallback(location)
	return Delivery{Script: script, Source: SourceFallback, Notice: notice}
}

const genericKey = "generic"

var presets = map[string]Script{
	"pine-forest": {
		"Close your eyes and imagine the scent of fresh pine needles...",
		"Take a deep breath in, feeling the crisp, cool forest air fill your lungs.",
		"Exhale slowly, letting go of any tension as you hear the gentle sway of the trees.",
		"Notice the soft moss beneath your feet, grounding you in this peaceful sanctuary.",
		"Inhale the stillness of the deep woods...",
		"Exhale, becoming one with the quiet rhythm of the earth.",
	},
	"misty-mountains": {
		"Visualize yourself standing on a high peak, surrounded by soft, white clouds.",
		"Inhale deeply, drawing in the pure, thin mountain air.",
		"Exhale, feeling as light as the mist drifting across the valley.",
		"The world below is silent; here, there is only peace and perspective.",
		"Breathe in the ancient strength of the peaks...",
		"Exhale, letting your worries dissolve back into the vast sky.",
	},
	"peaceful-lake": {
		"Picture a lake as clear and still as glass, reflecting the morning sun.",
		"Inhale, slowly ripple the surface of your awareness with a gentle breath.",
		"Exhale, watching the ripples fade until everything is perfectly still again.",
		"The water is calm, and so are you. Feel the gentle warmth on your skin.",
		"Inhale the clarity of the crystalline water...",
		"Exhale, sinking into a state of profound, deep relaxation.",
	},
	genericKey: {
		"Find a comfortable position and gently close your eyes.",
		"Inhale deeply through your nose, counting to four...",
		"Hold for a moment, feeling the serenity within you.",
		"Exhale slowly through your mouth, releasing all that no longer serves you.",
		"Keep your breath steady, natural, and rhythmic...",
		"You are safe, you are calm, and you are exactly where you need to be.",
	},
}

// presetOrder lists the named sanctuaries in display order.
var presetOrder = []string{"pine-forest", "misty-mountains", "peaceful-lake"}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeLocation lower-cases the location, trims it and joins words with dashes.
func NormalizeLocation(location string) string {
	trimmed := strings.TrimSpace(strings.ToLower(location))
	return whitespaceRun.ReplaceAllString(trimmed, "-")
}

// Preset returns the curated script for a location when one exists.
// The theme is the normalized key on a hit and DefaultTheme otherwise.
func Preset(location string) (Script, string, bool) {
	key := NormalizeLocation(location)
	if key == genericKey {
		return nil, DefaultTheme, false
	}
	script, ok := presets[key]
	if !ok {
		return nil, DefaultTheme, false
	}
	return script.Clone(), key, true
}

// Fallback returns the preset for a location or the generic script.
func Fallback(location string) (Script, string) {
	if script, theme, ok := Preset(location); ok {
		return script, theme
	}
	return presets[genericKey].Clone(), DefaultTheme
}

// ThemeFor returns the theme key used to style a location.
func ThemeFor(location string) string {
	_, theme, _ := Preset(location)
	return theme
}

// PresetNames returns the curated sanctuary keys.
func PresetNames() []string {
	out := make([]string, len(presetOrder))
	copy(out, presetOrder)
	return out
}
