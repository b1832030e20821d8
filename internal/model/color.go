package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is one of the fixed palette entries. The zero value is the first
// palette color.
type Color int

const (
	Violet Color = iota
	Pink
	Orange
	Blue
)

// PaletteEntry carries a color's display name and presentation tokens.
type PaletteEntry struct {
	Color  Color  `json:"color"`
	Name   string `json:"name"`
	Solid  string `json:"solid"`
	Tinted string `json:"tinted"`
	Border string `json:"border"`
}

// Palette is the static set of event colors in display order.
var Palette = []PaletteEntry{
	newPaletteEntry(Violet, "Violet", 0x8B, 0x5C, 0xF6),
	newPaletteEntry(Pink, "Pink", 0xD9, 0x46, 0xEF),
	newPaletteEntry(Orange, "Orange", 0xF9, 0x73, 0x16),
	newPaletteEntry(Blue, "Blue", 0x0E, 0xA5, 0xE9),
}

var colorKeys = [...]string{"violet", "pink", "orange", "blue"}

func newPaletteEntry(c Color, name string, r, g, b uint8) PaletteEntry {
	return PaletteEntry{
		Color:  c,
		Name:   name,
		Solid:  fmt.Sprintf("#%02X%02X%02X", r, g, b),
		Tinted: fmt.Sprintf("rgba(%d, %d, %d, 0.2)", r, g, b),
		Border: fmt.Sprintf("#%02X%02X%02X", r, g, b),
	}
}

// Valid reports whether c is a palette member.
func (c Color) Valid() bool {
	return c >= Violet && c <= Blue
}

// Key is the stable text form used on the wire and in storage.
func (c Color) Key() string {
	if !c.Valid() {
		return "color(" + strconv.Itoa(int(c)) + ")"
	}
	return colorKeys[c]
}

func (c Color) String() string { return c.Key() }

// Entry returns the palette entry for c, falling back to the first entry.
func (c Color) Entry() PaletteEntry {
	if !c.Valid() {
		return Palette[0]
	}
	return Palette[c]
}

// ParseColor accepts a palette key ("violet") or display name, case-insensitive.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, k := range colorKeys {
		if s == k || s == strings.ToLower(Palette[i].Name) {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(c.Key()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
