package bar

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/bryanchriswhite/FocusTabs/internal/logger"
)

const (
	defaultPointSize = 9
	screenDPI        = 96
)

var builtinFonts = map[string][]byte{
	"monospace":  gomono.TTF,
	"mono":       gomono.TTF,
	"go mono":    gomono.TTF,
	"sans":       goregular.TTF,
	"sans-serif": goregular.TTF,
	"go":         goregular.TTF,
}

// OpenFace opens a font described as "<family or file>[:size=<pt>|:pixelsize=<px>]".
// Families are the built-in Go fonts; "fixed" is the 7x13 bitmap font.
// Anything containing a slash is read as an OpenType or TrueType file.
func OpenFace(spec string) (font.Face, error) {
	parts := strings.Split(spec, ":")
	family := strings.TrimSpace(parts[0])

	opts := &opentype.FaceOptions{
		Size:    defaultPointSize,
		DPI:     screenDPI,
		Hinting: font.HintingFull,
	}
	for _, attr := range parts[1:] {
		key, value, ok := strings.Cut(attr, "=")
		if !ok {
			continue
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("font %q: invalid %s %q", spec, key, value)
		}
		switch key {
		case "size":
			opts.Size = n
		case "pixelsize":
			opts.Size, opts.DPI = n, 72
		}
	}

	var data []byte
	switch {
	case family == "" || strings.EqualFold(family, "fixed"):
		return basicfont.Face7x13, nil
	case strings.Contains(family, "/"):
		b, err := os.ReadFile(family)
		if err != nil {
			return nil, fmt.Errorf("font %q: %w", spec, err)
		}
		data = b
	default:
		b, ok := builtinFonts[strings.ToLower(family)]
		if !ok {
			return nil, fmt.Errorf("font %q: unknown family %q", spec, family)
		}
		data = b
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", spec, err)
	}
	face, err := opentype.NewFace(f, opts)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", spec, err)
	}
	return face, nil
}

// LoadFace opens spec, falling back to the fixed font when it is unusable.
func LoadFace(spec string) font.Face {
	face, err := OpenFace(spec)
	if err != nil {
		logger.WithComponent("bar").Warn().
			Err(err).
			Msg("Cannot load font, using fixed")
		return basicfont.Face7x13
	}
	return face
}
