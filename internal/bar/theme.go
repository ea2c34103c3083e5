package bar

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// ColorPair is the foreground and background of one tab state.
type ColorPair struct {
	FG color.RGBA
	BG color.RGBA
}

// Theme is everything that decides how the bar looks.
type Theme struct {
	Face font.Face

	Norm ColorPair
	Sel  ColorPair
	Urg  ColorPair

	// Before and After mark tabs scrolled off either end.
	Before string
	After  string
	// TitleTrim replaces the tail of titles too long for their tab.
	TitleTrim string

	// Separator is the width of the line drawn at each tab's left edge.
	Separator    int
	Center       bool
	ClientNumber bool
}

// DefaultTheme returns the built-in look with the fixed font.
func DefaultTheme() Theme {
	return Theme{
		Face:      basicfont.Face7x13,
		Norm:      ColorPair{FG: mustColor("#cccccc"), BG: mustColor("#222222")},
		Sel:       ColorPair{FG: mustColor("#ffffff"), BG: mustColor("#555555")},
		Urg:       ColorPair{FG: mustColor("#cc0000"), BG: mustColor("#111111")},
		Before:    "<",
		After:     ">",
		TitleTrim: "...",
	}
}

func mustColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseColor accepts "#rgb", "#rrggbb" or an SVG/X11 color name such as
// "steel blue".
func ParseColor(s string) (color.RGBA, error) {
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		switch len(hex) {
		case 3:
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		case 6:
		default:
			return color.RGBA{}, fmt.Errorf("cannot allocate color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("cannot allocate color %q: %w", s, err)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}

	name := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("cannot allocate color %q", s)
}
