package config

import "fmt"

// Geometry is a parsed X geometry string,
// "[=][<width>{xX}<height>][{+-}<xoffset>{+-}<yoffset>]".
type Geometry struct {
	X, Y          int
	Width, Height int

	HasX, HasY          bool
	HasWidth, HasHeight bool
	// XNegative and YNegative are set for "-" offsets, measured from the
	// right and bottom screen edges.
	XNegative, YNegative bool
}

// ParseGeometry parses an X geometry string.
func ParseGeometry(s string) (Geometry, error) {
	var g Geometry
	p := &geometryParser{s: s}
	if p.peek() == '=' {
		p.i++
	}

	if c := p.peek(); c != '+' && c != '-' && c != 'x' && c != 'X' && c != 0 {
		n, ok := p.unsigned()
		if !ok {
			return Geometry{}, fmt.Errorf("invalid geometry %q", s)
		}
		g.Width, g.HasWidth = n, true
	}
	if c := p.peek(); c == 'x' || c == 'X' {
		p.i++
		n, ok := p.unsigned()
		if !ok {
			return Geometry{}, fmt.Errorf("invalid geometry %q: missing height", s)
		}
		g.Height, g.HasHeight = n, true
	}

	if c := p.peek(); c == '+' || c == '-' {
		x, neg, ok := p.offset()
		if !ok {
			return Geometry{}, fmt.Errorf("invalid geometry %q: bad x offset", s)
		}
		g.X, g.XNegative, g.HasX = x, neg, true

		y, neg, ok := p.offset()
		if !ok {
			return Geometry{}, fmt.Errorf("invalid geometry %q: missing y offset", s)
		}
		g.Y, g.YNegative, g.HasY = y, neg, true
	}

	if p.i != len(s) {
		return Geometry{}, fmt.Errorf("invalid geometry %q: trailing %q", s, s[p.i:])
	}
	return g, nil
}

// Resolve applies g to a default-sized window at the origin. Negative
// offsets are kept negative, "-0" becoming -1, for the window system to
// resolve against the screen size. fixed is set when a size was given.
func (g Geometry) Resolve(defWidth, defHeight int) (x, y, width, height int, fixed bool) {
	width, height = defWidth, defHeight
	if g.HasX {
		x = g.X
	}
	if g.HasY {
		y = g.Y
	}
	if g.HasWidth {
		width = g.Width
	}
	if g.HasHeight {
		height = g.Height
	}
	if g.XNegative && x == 0 {
		x = -1
	}
	if g.YNegative && y == 0 {
		y = -1
	}
	return x, y, width, height, g.HasWidth || g.HasHeight
}

type geometryParser struct {
	s string
	i int
}

func (p *geometryParser) peek() byte {
	if p.i < len(p.s) {
		return p.s[p.i]
	}
	return 0
}

func (p *geometryParser) unsigned() (int, bool) {
	start := p.i
	n := 0
	for p.i < len(p.s) && p.s[p.i] >= '0' && p.s[p.i] <= '9' {
		n = n*10 + int(p.s[p.i]-'0')
		if n > 1<<16 {
			return 0, false
		}
		p.i++
	}
	return n, p.i > start
}

// offset reads "{+-}N", where N may carry its own sign.
func (p *geometryParser) offset() (n int, negative bool, ok bool) {
	switch p.peek() {
	case '+':
	case '-':
		negative = true
	default:
		return 0, false, false
	}
	p.i++

	sign := 1
	switch p.peek() {
	case '+':
		p.i++
	case '-':
		sign = -1
		p.i++
	}
	v, ok := p.unsigned()
	if !ok {
		return 0, false, false
	}
	v *= sign
	if negative {
		v = -v
	}
	return v, negative, true
}
