package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultColorHex is used when the extractor found no colour in the utterance.
const DefaultColorHex = "#008080"

// RGB is a colour in 8-bit-per-channel RGB space.
type RGB struct {
	R, G, B uint8
}

// SlotColor pairs a calendar colour slot with its canonical RGB value.
type SlotColor struct {
	ID    string
	Color RGB
}

// Palette lists the 11 colour slots the calendar backend recognises, in slot
// order. Equal-distance ties in NearestSlot resolve to the earlier entry.
var Palette = []SlotColor{
	{ID: "1", Color: RGB{0xa4, 0xbd, 0xfc}},
	{ID: "2", Color: RGB{0x7a, 0xe7, 0xbf}},
	{ID: "3", Color: RGB{0xdb, 0xad, 0xff}},
	{ID: "4", Color: RGB{0xff, 0x88, 0x7c}},
	{ID: "5", Color: RGB{0xfb, 0xd7, 0x5b}},
	{ID: "6", Color: RGB{0xff, 0xb8, 0x78}},
	{ID: "7", Color: RGB{0x46, 0xd6, 0xdb}},
	{ID: "8", Color: RGB{0xe1, 0xe1, 0xe1}},
	{ID: "9", Color: RGB{0x54, 0x84, 0xed}},
	{ID: "10", Color: RGB{0x51, 0xb7, 0x49}},
	{ID: "11", Color: RGB{0xdc, 0x21, 0x27}},
}

// NamedColors maps human colour names, including light/dark variants, to hex
// values. It is handed to the extraction collaborator so spoken colour names
// resolve to hex before the pipeline ever sees them.
var NamedColors = map[string]string{
	"red":      "#ff0000",
	"lightred": "#ff6666",
	"darkred":  "#8b0000",

	"blue":      "#0000ff",
	"lightblue": "#add8e6",
	"darkblue":  "#00008b",

	"green":      "#008000",
	"lightgreen": "#90ee90",
	"darkgreen":  "#006400",

	"yellow":      "#ffff00",
	"lightyellow": "#ffffe0",
	"darkyellow":  "#bdb76b",

	"orange":      "#ffa500",
	"lightorange": "#ffb347",
	"darkorange":  "#ff8c00",

	"purple":      "#800080",
	"lightpurple": "#dab5d3",
	"darkpurple":  "#4b0082",

	"pink":      "#ffc0cb",
	"lightpink": "#ffb6c1",
	"darkpink":  "#ff69b4",

	"gray":      "#808080",
	"lightgray": "#d3d3d3",
	"darkgray":  "#a9a9a9",

	"black": "#000000",
	"white": "#ffffff",
	"teal":  "#008080",
}

// ParseHex parses a 6-hex-digit RGB colour string. A leading '#' is optional.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, s)
	}
	return RGB{R: b[0], G: b[1], B: b[2]}, nil
}

// NearestSlot returns the id of the palette slot closest to colorHex by
// Euclidean distance in RGB space. An empty colorHex falls back to
// DefaultColorHex. The result is deterministic: identical input always yields
// the same slot.
func NearestSlot(colorHex string) (string, error) {
	if colorHex == "" {
		colorHex = DefaultColorHex
	}
	target, err := ParseHex(colorHex)
	if err != nil {
		return "", err
	}

	bestID := Palette[0].ID
	bestDist := distanceSq(target, Palette[0].Color)
	for _, slot := range Palette[1:] {
		if d := distanceSq(target, slot.Color); d < bestDist {
			bestDist = d
			bestID = slot.ID
		}
	}
	return bestID, nil
}

// distanceSq is the squared Euclidean distance between two colours. Squaring
// preserves the ordering of the true distances, so no square root is needed.
func distanceSq(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
