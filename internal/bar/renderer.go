package bar

import (
	"image"
	"image/draw"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/bryanchriswhite/FocusTabs/internal/logger"
	"github.com/bryanchriswhite/FocusTabs/internal/tabs"
)

// Surface receives finished frames.
type Surface interface {
	// Draw copies img to the window at (x, y).
	Draw(img *image.RGBA, x, y int) error
}

// Renderer draws the tab bar into an RGBA canvas and hands it to a Surface.
type Renderer struct {
	theme    Theme
	strategy Strategy
	surface  Surface
	log      *zerolog.Logger

	ascent int
	height int // ascent + descent
	canvas *image.RGBA
}

// NewRenderer creates a renderer. A nil theme face means the fixed font.
func NewRenderer(th Theme, s Strategy, surface Surface) *Renderer {
	if th.Face == nil {
		th.Face = DefaultTheme().Face
	}
	m := th.Face.Metrics()
	return &Renderer{
		theme:    th,
		strategy: s,
		surface:  surface,
		log:      logger.WithComponent("bar"),
		ascent:   m.Ascent.Ceil(),
		height:   m.Ascent.Ceil() + m.Descent.Ceil(),
	}
}

// Height is the font height plus a pixel of padding above and below.
func (r *Renderer) Height() int {
	return r.height + 2
}

// TextWidth is the width a tab needs to show s in full.
func (r *Renderer) TextWidth(s string) int {
	return font.MeasureString(r.theme.Face, s).Ceil() + r.height
}

// Render draws v and records each visible client's right edge.
func (r *Renderer) Render(v tabs.BarView) tabs.BarLayout {
	if v.Width <= 0 || v.Height <= 0 {
		return tabs.BarLayout{}
	}
	img := r.frame(v.Width, v.Height)

	plan := Layout(v, r.strategy, &r.theme, r.TextWidth)
	for _, cell := range plan.Cells {
		r.drawCell(img, cell)
	}
	for i, x := range plan.TabX {
		v.Clients[plan.First+i].TabX = x
	}

	if r.surface != nil {
		if err := r.surface.Draw(img, 0, v.Y); err != nil {
			r.log.Debug().Err(err).Msg("Failed to draw bar")
		}
	}
	return tabs.BarLayout{First: plan.First, LeadIn: plan.LeadIn}
}

func (r *Renderer) frame(w, h int) *image.RGBA {
	if r.canvas == nil || r.canvas.Rect.Dx() != w || r.canvas.Rect.Dy() != h {
		r.canvas = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return r.canvas
}

func (r *Renderer) drawCell(img *image.RGBA, c Cell) {
	bounds := img.Bounds()
	cell := image.Rect(c.X, 0, c.X+c.Width, bounds.Dy()).Intersect(bounds)
	if cell.Empty() {
		return
	}

	fill := cell
	if sep := r.theme.Separator; sep > 0 {
		line := image.Rect(cell.Min.X, cell.Min.Y, cell.Min.X+sep, cell.Max.Y).Intersect(cell)
		draw.Draw(img, line, image.NewUniform(c.Colors.FG), image.Point{}, draw.Src)
		fill.Min.X = line.Max.X
	}
	draw.Draw(img, fill, image.NewUniform(c.Colors.BG), image.Point{}, draw.Src)

	text, trimmed := r.fit(c.Text, c.Width-r.height)
	if text == "" {
		return
	}
	x := c.X + r.height/2
	if r.theme.Center && !trimmed {
		x += (c.Width - r.TextWidth(text)) / 2
	}
	y := bounds.Dy()/2 - r.height/2 + r.ascent

	d := &font.Drawer{
		Dst:  img.SubImage(cell).(*image.RGBA),
		Src:  image.NewUniform(c.Colors.FG),
		Face: r.theme.Face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// fit shortens text until it is at most room pixels wide, replacing the
// tail with the theme's TitleTrim. It reports whether text was shortened.
func (r *Renderer) fit(text string, room int) (string, bool) {
	n := len(text)
	for n > 0 && font.MeasureString(r.theme.Face, text[:n]).Ceil() > room {
		_, size := utf8.DecodeLastRuneInString(text[:n])
		n -= size
	}
	if n == len(text) {
		return text, false
	}
	return trimTail(text[:n], r.theme.TitleTrim), true
}

// trimTail overwrites the last runes of s with trim, keeping s's length
// in runes. When s is shorter than trim only trim's tail fits.
func trimTail(s, trim string) string {
	kept := []rune(s)
	t := []rune(trim)
	if len(t) > len(kept) {
		t = t[len(t)-len(kept):]
	}
	copy(kept[len(kept)-len(t):], t)
	return string(kept)
}
