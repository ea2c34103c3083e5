package bar

import (
	"fmt"

	"github.com/bryanchriswhite/FocusTabs/internal/tabs"
)

// Strategy decides the nominal tab width, which in turn decides how many
// tabs fit on the bar.
type Strategy interface {
	TabWidth(barWidth, clients int) int
}

// Fixed gives every tab the same nominal width in pixels.
type Fixed int

func (f Fixed) TabWidth(barWidth, clients int) int {
	return int(f)
}

// Even splits the bar evenly between all clients, so none scroll off.
type Even struct{}

func (Even) TabWidth(barWidth, clients int) int {
	if clients == 0 {
		return barWidth
	}
	return barWidth / clients
}

// Cell is one filled rectangle of the bar with its text.
type Cell struct {
	X, Width int
	Text     string
	Colors   ColorPair
}

// Plan is a laid-out frame.
type Plan struct {
	Cells []Cell
	// First is the leftmost visible client.
	First int
	// LeadIn is the width of the Before marker, or 0 when not shown.
	LeadIn int
	// TabX holds the right edge of each visible tab, starting at First.
	TabX []int
}

// Layout places the tabs of v on the bar. textw returns the width a string
// needs including padding.
func Layout(v tabs.BarView, s Strategy, th *Theme, textw func(string) int) Plan {
	n := len(v.Clients)
	if n == 0 {
		return Plan{Cells: []Cell{{X: 0, Width: v.Width, Text: v.Title, Colors: th.Norm}}}
	}

	cc := visibleTabs(v.Width, n, s, textw(th.Before), textw(th.After))
	fc := FirstTab(v.Selected, n, cc)

	var p Plan
	p.First = fc
	width := v.Width
	if fc+cc < n {
		w := textw(th.After)
		p.Cells = append(p.Cells, Cell{X: width - w, Width: w, Text: th.After, Colors: th.Sel})
		width -= w
	}
	x := 0
	if fc > 0 {
		w := textw(th.Before)
		p.Cells = append(p.Cells, Cell{X: 0, Width: w, Text: th.Before, Colors: th.Sel})
		p.LeadIn = w
		x += w
		width -= w
	}

	if cc > n {
		cc = n
	}
	for c := fc; c < fc+cc; c++ {
		w := width / cc
		colors := th.Norm
		if c == v.Selected {
			colors = th.Sel
			w += width % cc
		} else if v.Clients[c].Urgent {
			colors = th.Urg
		}
		p.Cells = append(p.Cells, Cell{X: x, Width: w, Text: label(th, v.Clients[c], c), Colors: colors})
		x += w
		p.TabX = append(p.TabX, x)
	}
	return p
}

// visibleTabs is how many tabs fit; room for the scroll markers is taken
// off once the clients overflow the bar.
func visibleTabs(barWidth, clients int, s Strategy, before, after int) int {
	tw := s.TabWidth(barWidth, clients)
	if tw <= 0 {
		tw = 1
	}
	cc := barWidth / tw
	if clients > cc {
		cc = (barWidth - before - after) / tw
	}
	if cc < 1 {
		cc = 1
	}
	return cc
}

// FirstTab returns the leftmost visible tab that keeps the selection
// centred on a bar with room for cc tabs.
func FirstTab(sel, clients, cc int) int {
	if sel < 0 {
		return 0
	}
	first := sel - cc/2 + (cc+1)%2
	switch {
	case first < 0:
		return 0
	case first+cc > clients:
		if clients-cc > 0 {
			return clients - cc
		}
		return 0
	}
	return first
}

func label(th *Theme, c *tabs.Client, i int) string {
	if th.ClientNumber {
		return fmt.Sprintf("%d: %s", i+1, c.DisplayName)
	}
	return c.DisplayName
}
