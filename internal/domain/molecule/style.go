package molecule

import (
	"encoding/json"
	"strings"
)

// Style is a 3D display style. It only parameterises the viewer; coordinates
// and descriptors never depend on it.
type Style string

const (
	StyleBallAndStick Style = "ball_and_stick"
	StyleStick        Style = "stick"
	StyleSpacefill    Style = "spacefill"
)

// DefaultStyle is used when no or an unknown style is requested.
const DefaultStyle = StyleBallAndStick

// Styles lists the display styles in selector order.
var Styles = []Style{StyleBallAndStick, StyleStick, StyleSpacefill}

var styleLabels = map[Style]string{
	StyleBallAndStick: "Ball and Stick",
	StyleStick:        "Stick",
	StyleSpacefill:    "Spacefill",
}

// Viewer style specifications in the 3Dmol.js setStyle format.
var styleSpecs = map[Style]string{
	StyleBallAndStick: `{"stick":{},"sphere":{"radius":0.5}}`,
	StyleStick:        `{"stick":{}}`,
	StyleSpacefill:    `{"sphere":{}}`,
}

// Label returns the human-readable name shown in the selector.
func (s Style) Label() string {
	if l, ok := styleLabels[s]; ok {
		return l
	}
	return styleLabels[DefaultStyle]
}

// Spec returns the viewer style specification as JSON.
func (s Style) Spec() json.RawMessage {
	if spec, ok := styleSpecs[s]; ok {
		return json.RawMessage(spec)
	}
	return json.RawMessage(styleSpecs[DefaultStyle])
}

// Valid reports whether s is one of the three display styles.
func (s Style) Valid() bool {
	_, ok := styleLabels[s]
	return ok
}

// ParseStyle accepts a style key ("stick") or its label ("Ball and Stick"),
// case-insensitively. Anything else yields DefaultStyle and false.
func ParseStyle(raw string) (Style, bool) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	if norm == "" {
		return DefaultStyle, false
	}
	for _, s := range Styles {
		if norm == string(s) || norm == strings.ToLower(s.Label()) {
			return s, true
		}
	}
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for _, s := range Styles {
		if norm == string(s) {
			return s, true
		}
	}
	return DefaultStyle, false
}

//Personal.AI order the ending
