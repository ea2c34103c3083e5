package tabs

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

const (
	testRoot      Window = 0x1
	testContainer Window = 0x400001
)

var errNoHints = errors.New("no hints")

type grab struct {
	w    Window
	mods uint16
	code Keycode
}

// fakeWS records requests and answers queries from maps.
type fakeWS struct {
	numLock   uint16
	calls     []string
	grabs     []grab
	titles    map[Window]string
	urgent    map[Window]bool
	noHints   map[Window]bool
	deletable map[Window]bool
	props     map[string]string
	focused   Window
	geometry  map[Window]Geometry
	events    chan Event
}

// newFakeWS answers like a server where the container has no WM_HINTS yet.
func newFakeWS() *fakeWS {
	f := &fakeWS{
		numLock:   Mod2Mask,
		titles:    make(map[Window]string),
		urgent:    make(map[Window]bool),
		noHints:   make(map[Window]bool),
		deletable: make(map[Window]bool),
		props:     make(map[string]string),
		geometry:  make(map[Window]Geometry),
		events:    make(chan Event),
	}
	f.noHints[testContainer] = true
	return f
}

func (f *fakeWS) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeWS) called(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeWS) reset() { f.calls = nil }

func (f *fakeWS) Root() Window        { return testRoot }
func (f *fakeWS) Container() Window   { return testContainer }
func (f *fakeWS) NumLockMask() uint16 { return f.numLock }

// Keycodes maps every keysym to a single code derived from its value.
func (f *fakeWS) Keycodes(sym Keysym) []Keycode {
	return []Keycode{Keycode(sym%200 + 8)}
}

func (f *fakeWS) Withdraw(w Window) error {
	f.record("Withdraw %#x", w)
	return nil
}

func (f *fakeWS) Reparent(w, parent Window, x, y int) error {
	f.record("Reparent %#x %#x %d %d", w, parent, x, y)
	return nil
}

func (f *fakeWS) SelectClientInput(w Window) error {
	f.record("SelectClientInput %#x", w)
	return nil
}

func (f *fakeWS) GrabKey(w Window, mods uint16, code Keycode) error {
	f.grabs = append(f.grabs, grab{w, mods, code})
	return nil
}

func (f *fakeWS) Map(w Window) error {
	f.record("Map %#x", w)
	return nil
}

func (f *fakeWS) Raise(w Window) error {
	f.record("Raise %#x", w)
	return nil
}

func (f *fakeWS) Lower(w Window) error {
	f.record("Lower %#x", w)
	return nil
}

func (f *fakeWS) Destroy(w Window) error {
	f.record("Destroy %#x", w)
	return nil
}

func (f *fakeWS) Resize(w Window, g Geometry) error {
	f.geometry[w] = g
	f.record("Resize %#x", w)
	return nil
}

func (f *fakeWS) MoveResize(w Window, g Geometry) error {
	f.geometry[w] = g
	f.record("MoveResize %#x", w)
	return nil
}

func (f *fakeWS) ConfigureClient(w Window, g Geometry, req ConfigureRequest) error {
	f.geometry[w] = g
	f.record("ConfigureClient %#x", w)
	return nil
}

func (f *fakeWS) SetInputFocus(w Window) error {
	f.focused = w
	f.record("SetInputFocus %#x", w)
	return nil
}

func (f *fakeWS) InputFocus() (Window, error) {
	return f.focused, nil
}

func (f *fakeWS) SendXEmbed(w Window, msg, detail, data1, data2 uint32) error {
	f.record("SendXEmbed %#x %d %d", w, msg, detail)
	return nil
}

func (f *fakeWS) NotifyEmbedded(w, embedder Window) error {
	f.record("NotifyEmbedded %#x %#x", w, embedder)
	return nil
}

func (f *fakeWS) SupportsDelete(w Window) bool {
	return f.deletable[w]
}

func (f *fakeWS) SendDelete(w Window) error {
	f.record("SendDelete %#x", w)
	return nil
}

func (f *fakeWS) Kill(w Window) error {
	f.record("Kill %#x", w)
	return nil
}

func (f *fakeWS) RequestFullscreen(w Window) error {
	f.record("RequestFullscreen %#x", w)
	return nil
}

func (f *fakeWS) Title(w Window) (string, error) {
	return f.titles[w], nil
}

func (f *fakeWS) SetTitle(w Window, title string) error {
	f.titles[w] = title
	return nil
}

func (f *fakeWS) Urgent(w Window) (bool, error) {
	if f.noHints[w] {
		return false, errNoHints
	}
	return f.urgent[w], nil
}

// SetUrgent writes hints, so w has readable ones afterwards.
func (f *fakeWS) SetUrgent(w Window, urgent bool) error {
	delete(f.noHints, w)
	f.urgent[w] = urgent
	f.record("SetUrgent %#x %t", w, urgent)
	return nil
}

func (f *fakeWS) TextProperty(w Window, name string) (string, error) {
	v, ok := f.props[name]
	if !ok {
		return "", errors.New("no such property")
	}
	return v, nil
}

func (f *fakeWS) NextEvent() (Event, error) {
	ev, ok := <-f.events
	if !ok {
		return Event{}, io.EOF
	}
	return ev, nil
}

func (f *fakeWS) Flush() {}

// fakeRenderer lays every tab out 100 pixels wide starting at x=0.
type fakeRenderer struct {
	frames int
	last   BarView
}

func (r *fakeRenderer) Height() int { return 20 }

func (r *fakeRenderer) Render(v BarView) BarLayout {
	r.frames++
	r.last = v
	for i, c := range v.Clients {
		c.TabX = (i + 1) * 100
	}
	return BarLayout{}
}

type fakeSpawner struct {
	spawned [][]string
}

func (sp *fakeSpawner) Spawn(argv []string) error {
	sp.spawned = append(sp.spawned, argv)
	return nil
}

type harness struct {
	*Session
	ws *fakeWS
	r  *fakeRenderer
	sp *fakeSpawner
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	if opts.Width == 0 {
		opts.Width, opts.Height = 800, 600
	}
	ws := newFakeWS()
	r := &fakeRenderer{}
	sp := &fakeSpawner{}
	return &harness{Session: New(opts, ws, r, sp), ws: ws, r: r, sp: sp}
}

// adopt maps windows in order, as clients announcing themselves would.
func (h *harness) adopt(ws ...Window) {
	for _, w := range ws {
		h.Dispatch(Event{Kind: EventMapRequest, Window: w})
	}
}

func (h *harness) order() []Window {
	var out []Window
	for _, c := range h.reg.Clients() {
		out = append(out, c.Window)
	}
	return out
}
