// Package x11 implements the tab manager's window system on an X server.
package x11

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/rs/zerolog"

	"github.com/bryanchriswhite/FocusTabs/internal/logger"
	"github.com/bryanchriswhite/FocusTabs/internal/tabs"
)

const (
	// containerEvents is what the container listens to, for itself and
	// for the clients reparented into it.
	containerEvents = xproto.EventMaskSubstructureNotify |
		xproto.EventMaskFocusChange |
		xproto.EventMaskButtonPress |
		xproto.EventMaskButtonMotion |
		xproto.EventMaskExposure |
		xproto.EventMaskKeyPress |
		xproto.EventMaskKeyRelease |
		xproto.EventMaskPropertyChange |
		xproto.EventMaskStructureNotify |
		xproto.EventMaskSubstructureRedirect

	clientEvents = xproto.EventMaskPropertyChange |
		xproto.EventMaskStructureNotify |
		xproto.EventMaskEnterWindow
)

type atoms struct {
	xembed      xproto.Atom
	protocols   xproto.Atom
	deleteWin   xproto.Atom
	netWMName   xproto.Atom
	selectTab   xproto.Atom
	hasSelector bool
}

// WindowSpec describes the container window.
type WindowSpec struct {
	// Negative X and Y are offsets from the right and bottom screen edges.
	X, Y          int
	Width, Height int
	// Fixed pins the window to Width x Height.
	Fixed bool
	// BarHeight is used for the minimum height when the size is not fixed.
	BarHeight int
	// Name and Class become WM_CLASS.
	Name, Class string
	Background  color.RGBA
	// SelectTabProperty is watched on the container, if set.
	SelectTabProperty string
}

// Backend talks to the X server on behalf of a tabs.Session.
type Backend struct {
	xu     *xgbutil.XUtil
	conn   *xgb.Conn
	screen *xproto.ScreenInfo
	root   xproto.Window
	win    xproto.Window
	gc     xproto.Gcontext
	log    *zerolog.Logger

	format     pixelFormat
	maxRequest int
	atoms      atoms

	// The mappings are refreshed on the event pump and read on the loop.
	keyLck     sync.RWMutex
	keys       keymap
	minKeycode xproto.Keycode
	fetchMaps  func() (*xproto.GetKeyboardMappingReply, *xproto.GetModifierMappingReply)
	numLock    atomic.Uint32
}

// Open connects to display, or to $DISPLAY when display is empty.
func Open(display string) (*Backend, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("cannot open display %q: %w", display, err)
	}
	b := &Backend{
		xu:     xu,
		conn:   xu.Conn(),
		screen: xu.Screen(),
		root:   xu.RootWin(),
		log:    logger.WithComponent("x11"),
	}

	setup := xproto.Setup(b.conn)
	b.maxRequest = int(setup.MaximumRequestLength) * 4
	b.minKeycode = setup.MinKeycode
	b.fetchMaps = func() (*xproto.GetKeyboardMappingReply, *xproto.GetModifierMappingReply) {
		return keybind.MapsGet(xu)
	}
	depth := b.screen.RootDepth
	for _, f := range setup.PixmapFormats {
		if f.Depth == depth {
			b.format = pixelFormat{
				depth:         depth,
				bytesPerPixel: int(f.BitsPerPixel) / 8,
				pad:           int(f.ScanlinePad) / 8,
			}
			break
		}
	}
	if b.format.bytesPerPixel == 0 {
		xu.Conn().Close()
		return nil, fmt.Errorf("no pixmap format for depth %d", depth)
	}

	for _, a := range []struct {
		name string
		dst  *xproto.Atom
	}{
		{"_XEMBED", &b.atoms.xembed},
		{"WM_PROTOCOLS", &b.atoms.protocols},
		{"WM_DELETE_WINDOW", &b.atoms.deleteWin},
		{"_NET_WM_NAME", &b.atoms.netWMName},
	} {
		atom, err := xprop.Atm(xu, a.name)
		if err != nil {
			xu.Conn().Close()
			return nil, fmt.Errorf("failed to intern %s: %w", a.name, err)
		}
		*a.dst = atom
	}

	b.loadKeymap()
	return b, nil
}

// CreateContainer creates, decorates and maps the container window.
func (b *Backend) CreateContainer(spec WindowSpec) error {
	dw, dh := int(b.screen.WidthInPixels), int(b.screen.HeightInPixels)
	x, y := spec.X, spec.Y
	if x < 0 {
		x = dw + x - spec.Width - 1
	}
	if y < 0 {
		y = dh + y - spec.Height - 1
	}

	win, err := xproto.NewWindowId(b.conn)
	if err != nil {
		return fmt.Errorf("failed to allocate window id: %w", err)
	}
	err = xproto.CreateWindowChecked(
		b.conn,
		b.screen.RootDepth,
		win,
		b.root,
		int16(x), int16(y),
		dim(spec.Width), dim(spec.Height),
		0,
		xproto.WindowClassInputOutput,
		b.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{pixel(spec.Background), containerEvents},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to create container window: %w", err)
	}
	b.win = win

	gc, err := xproto.NewGcontextId(b.conn)
	if err != nil {
		return fmt.Errorf("failed to allocate graphics context: %w", err)
	}
	err = xproto.CreateGCChecked(b.conn, gc, xproto.Drawable(win),
		xproto.GcGraphicsExposures, []uint32{0}).Check()
	if err != nil {
		return fmt.Errorf("failed to create graphics context: %w", err)
	}
	b.gc = gc

	if spec.SelectTabProperty != "" {
		atom, err := xprop.Atm(b.xu, spec.SelectTabProperty)
		if err != nil {
			return fmt.Errorf("failed to intern %s: %w", spec.SelectTabProperty, err)
		}
		b.atoms.selectTab, b.atoms.hasSelector = atom, true
	}

	if err := icccm.WmClassSet(b.xu, win, &icccm.WmClass{Instance: spec.Name, Class: spec.Class}); err != nil {
		return fmt.Errorf("failed to set WM_CLASS: %w", err)
	}
	hints := &icccm.NormalHints{}
	if spec.Fixed {
		hints.Flags = icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
		hints.MinWidth, hints.MaxWidth = uint(spec.Width), uint(spec.Width)
		hints.MinHeight, hints.MaxHeight = uint(spec.Height), uint(spec.Height)
	} else {
		hints.Flags = icccm.SizeHintPSize | icccm.SizeHintPMinSize
		hints.Width, hints.Height = uint(spec.Width), uint(spec.Height)
		hints.MinHeight = uint(spec.BarHeight + 1)
	}
	if err := icccm.WmNormalHintsSet(b.xu, win, hints); err != nil {
		return fmt.Errorf("failed to set WM_NORMAL_HINTS: %w", err)
	}
	if err := icccm.WmProtocolsSet(b.xu, win, []string{"WM_DELETE_WINDOW"}); err != nil {
		return fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}
	// Urgency is read back from WM_HINTS, so the property must exist.
	if err := icccm.WmHintsSet(b.xu, win, &icccm.Hints{}); err != nil {
		return fmt.Errorf("failed to set WM_HINTS: %w", err)
	}

	if err := b.Raise(tabs.Window(win)); err != nil {
		return err
	}
	if err := xproto.MapWindowChecked(b.conn, win).Check(); err != nil {
		return fmt.Errorf("failed to map container window: %w", err)
	}

	b.log.Info().
		Uint32("window", uint32(win)).
		Int("x", x).Int("y", y).
		Int("width", spec.Width).Int("height", spec.Height).
		Msg("Container created")
	return nil
}

// Close disconnects from the X server.
func (b *Backend) Close() {
	b.conn.Close()
}

func (b *Backend) Root() tabs.Window      { return tabs.Window(b.root) }
func (b *Backend) Container() tabs.Window { return tabs.Window(b.win) }

func (b *Backend) NumLockMask() uint16 {
	return uint16(b.numLock.Load())
}

func (b *Backend) Keycodes(sym tabs.Keysym) []tabs.Keycode {
	b.keyLck.RLock()
	defer b.keyLck.RUnlock()
	return b.keys.keycodes(sym)
}

// Withdraw unmaps w and tells the window manager about it.
func (b *Backend) Withdraw(w tabs.Window) error {
	xproto.UnmapWindow(b.conn, xproto.Window(w))
	ev := xproto.UnmapNotifyEvent{
		Event:  b.root,
		Window: xproto.Window(w),
	}
	xproto.SendEvent(b.conn, false, b.root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()))
	return nil
}

func (b *Backend) Reparent(w, parent tabs.Window, x, y int) error {
	xproto.ReparentWindow(b.conn, xproto.Window(w), xproto.Window(parent), int16(x), int16(y))
	return nil
}

func (b *Backend) SelectClientInput(w tabs.Window) error {
	xproto.ChangeWindowAttributes(b.conn, xproto.Window(w), xproto.CwEventMask,
		[]uint32{clientEvents})
	return nil
}

func (b *Backend) GrabKey(w tabs.Window, mods uint16, code tabs.Keycode) error {
	xproto.GrabKey(b.conn, true, xproto.Window(w), mods, xproto.Keycode(code),
		xproto.GrabModeAsync, xproto.GrabModeAsync)
	return nil
}

func (b *Backend) Map(w tabs.Window) error {
	xproto.MapWindow(b.conn, xproto.Window(w))
	return nil
}

func (b *Backend) Raise(w tabs.Window) error {
	xproto.ConfigureWindow(b.conn, xproto.Window(w), xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove})
	return nil
}

func (b *Backend) Lower(w tabs.Window) error {
	xproto.ConfigureWindow(b.conn, xproto.Window(w), xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeBelow})
	return nil
}

func (b *Backend) Destroy(w tabs.Window) error {
	xproto.DestroyWindow(b.conn, xproto.Window(w))
	return nil
}

func (b *Backend) Resize(w tabs.Window, g tabs.Geometry) error {
	xproto.ConfigureWindow(b.conn, xproto.Window(w),
		xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(g.Y)), uint32(dim(g.Width)), uint32(dim(g.Height))})

	ev := xproto.ConfigureNotifyEvent{
		Event:  xproto.Window(w),
		Window: xproto.Window(w),
		X:      int16(g.X),
		Y:      int16(g.Y),
		Width:  dim(g.Width),
		Height: dim(g.Height),
	}
	xproto.SendEvent(b.conn, false, xproto.Window(w), xproto.EventMaskStructureNotify,
		string(ev.Bytes()))
	return nil
}

func (b *Backend) MoveResize(w tabs.Window, g tabs.Geometry) error {
	xproto.ConfigureWindow(b.conn, xproto.Window(w),
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(g.X)), uint32(int32(g.Y)), uint32(dim(g.Width)), uint32(dim(g.Height))})
	return nil
}

// ConfigureClient applies g to the fields the client asked for. The
// values must follow the bit order of the mask.
func (b *Backend) ConfigureClient(w tabs.Window, g tabs.Geometry, req tabs.ConfigureRequest) error {
	var values []uint32
	mask := req.ValueMask
	for _, f := range []struct {
		bit   uint16
		value uint32
	}{
		{xproto.ConfigWindowX, uint32(int32(g.X))},
		{xproto.ConfigWindowY, uint32(int32(g.Y))},
		{xproto.ConfigWindowWidth, uint32(dim(g.Width))},
		{xproto.ConfigWindowHeight, uint32(dim(g.Height))},
		{xproto.ConfigWindowBorderWidth, 0},
		{xproto.ConfigWindowSibling, uint32(req.Sibling)},
		{xproto.ConfigWindowStackMode, uint32(req.StackMode)},
	} {
		if mask&f.bit != 0 {
			values = append(values, f.value)
		}
	}
	xproto.ConfigureWindow(b.conn, xproto.Window(w), mask, values)
	return nil
}

func (b *Backend) SetInputFocus(w tabs.Window) error {
	xproto.SetInputFocus(b.conn, xproto.InputFocusParent, xproto.Window(w), xproto.TimeCurrentTime)
	return nil
}

func (b *Backend) InputFocus() (tabs.Window, error) {
	reply, err := xproto.GetInputFocus(b.conn).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to get input focus: %w", err)
	}
	return tabs.Window(reply.Focus), nil
}

func (b *Backend) clientMessage(w xproto.Window, typ xproto.Atom, data ...uint32) {
	for len(data) < 5 {
		data = append(data, 0)
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}
	xproto.SendEvent(b.conn, false, w, xproto.EventMaskNoEvent, string(ev.Bytes()))
}

func (b *Backend) SendXEmbed(w tabs.Window, msg, detail, data1, data2 uint32) error {
	b.clientMessage(xproto.Window(w), b.atoms.xembed,
		xproto.TimeCurrentTime, msg, detail, data1, data2)
	return nil
}

func (b *Backend) NotifyEmbedded(w, embedder tabs.Window) error {
	return b.SendXEmbed(w, tabs.XEmbedEmbeddedNotify, 0, uint32(embedder), 0)
}

func (b *Backend) SupportsDelete(w tabs.Window) bool {
	protocols, err := icccm.WmProtocolsGet(b.xu, xproto.Window(w))
	if err != nil {
		return false
	}
	for _, p := range protocols {
		if p == "WM_DELETE_WINDOW" {
			return true
		}
	}
	return false
}

func (b *Backend) SendDelete(w tabs.Window) error {
	b.clientMessage(xproto.Window(w), b.atoms.protocols,
		uint32(b.atoms.deleteWin), xproto.TimeCurrentTime)
	return nil
}

func (b *Backend) Kill(w tabs.Window) error {
	xproto.KillClient(b.conn, uint32(w))
	return nil
}

func (b *Backend) RequestFullscreen(w tabs.Window) error {
	return ewmh.WmStateReq(b.xu, xproto.Window(w), ewmh.StateToggle, "_NET_WM_STATE_FULLSCREEN")
}

func (b *Backend) Title(w tabs.Window) (string, error) {
	name, err := ewmh.WmNameGet(b.xu, xproto.Window(w))
	if err == nil && name != "" {
		return name, nil
	}
	return icccm.WmNameGet(b.xu, xproto.Window(w))
}

func (b *Backend) SetTitle(w tabs.Window, title string) error {
	if err := ewmh.WmNameSet(b.xu, xproto.Window(w), title); err != nil {
		return fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
	}
	if err := icccm.WmNameSet(b.xu, xproto.Window(w), title); err != nil {
		return fmt.Errorf("failed to set WM_NAME: %w", err)
	}
	return nil
}

func (b *Backend) Urgent(w tabs.Window) (bool, error) {
	hints, err := icccm.WmHintsGet(b.xu, xproto.Window(w))
	if err != nil {
		return false, err
	}
	return hints.Flags&icccm.HintUrgency != 0, nil
}

// SetUrgent updates the urgency flag of w's WM_HINTS, creating the
// property when w has none.
func (b *Backend) SetUrgent(w tabs.Window, urgent bool) error {
	hints, err := icccm.WmHintsGet(b.xu, xproto.Window(w))
	if err != nil {
		hints = nil
	}
	return icccm.WmHintsSet(b.xu, xproto.Window(w), withUrgency(hints, urgent))
}

// withUrgency returns hints with the urgency flag set or cleared. A nil
// hints stands for a window without WM_HINTS.
func withUrgency(hints *icccm.Hints, urgent bool) *icccm.Hints {
	if hints == nil {
		hints = &icccm.Hints{}
	}
	if urgent {
		hints.Flags |= icccm.HintUrgency
	} else {
		hints.Flags &^= icccm.HintUrgency
	}
	return hints
}

func (b *Backend) TextProperty(w tabs.Window, name string) (string, error) {
	return xprop.PropValStr(xprop.GetProperty(b.xu, xproto.Window(w), name))
}

// Flush waits until the server has processed every request sent so far.
func (b *Backend) Flush() {
	b.xu.Sync()
}

// Draw copies img into the container at (x, y), split into as many
// PutImage requests as the server's request size limit needs.
func (b *Backend) Draw(img *image.RGBA, x, y int) error {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}
	rows := rowsPerRequest(b.format.stride(width), b.maxRequest)
	for y0 := 0; y0 < height; y0 += rows {
		y1 := min(y0+rows, height)
		data, err := b.format.encode(img, y0, y1)
		if err != nil {
			return err
		}
		xproto.PutImage(b.conn, xproto.ImageFormatZPixmap, xproto.Drawable(b.win), b.gc,
			uint16(width), uint16(y1-y0), int16(x), int16(y+y0), 0, b.format.depth, data)
	}
	return nil
}

// dim clamps a window dimension to what the protocol accepts.
func dim(n int) uint16 {
	switch {
	case n < 1:
		return 1
	case n > 0xffff:
		return 0xffff
	}
	return uint16(n)
}

// pixel packs c for a TrueColor visual.
func pixel(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
