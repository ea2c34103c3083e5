package tabs

// Window is an opaque window handle assigned by the window system.
type Window uint32

// Keycode is a physical key code as reported by the window system.
type Keycode uint8

// Geometry is a window rectangle relative to its parent.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// XEmbed message opcodes sent by the embedder.
const (
	XEmbedEmbeddedNotify   uint32 = 0
	XEmbedWindowActivate   uint32 = 1
	XEmbedWindowDeactivate uint32 = 2
	XEmbedFocusIn          uint32 = 4
	XEmbedFocusOut         uint32 = 5
)

// XEmbedFocusCurrent is the FOCUS_IN detail that keeps the client's own focus chain.
const XEmbedFocusCurrent uint32 = 0

// WindowSystem is everything the session needs from the display server.
// Implementations issue requests asynchronously where the protocol allows;
// errors for windows that vanished in the meantime are not reported back
// through these methods.
type WindowSystem interface {
	// Root is the root window of the screen the container lives on.
	Root() Window
	// Container is the window hosting the tab bar and the clients.
	Container() Window
	// NumLockMask is the modifier bit currently mapped to Num_Lock.
	NumLockMask() uint16
	// Keycodes resolves a keysym to every keycode producing it in column 0.
	Keycodes(sym Keysym) []Keycode

	// Withdraw removes w from the window manager's control.
	Withdraw(w Window) error
	Reparent(w, parent Window, x, y int) error
	// SelectClientInput subscribes to property, structure and enter events on w.
	SelectClientInput(w Window) error
	GrabKey(w Window, mods uint16, code Keycode) error
	Map(w Window) error
	Raise(w Window) error
	Lower(w Window) error
	Destroy(w Window) error
	// Resize moves w to g inside the container and tells the client with a
	// synthetic ConfigureNotify.
	Resize(w Window, g Geometry) error
	// MoveResize repositions w without the synthetic notification.
	MoveResize(w Window, g Geometry) error
	// ConfigureClient answers a client's ConfigureRequest with g, keeping the
	// fields selected by the request's value mask.
	ConfigureClient(w Window, g Geometry, req ConfigureRequest) error
	SetInputFocus(w Window) error
	InputFocus() (Window, error)

	// SendXEmbed delivers an _XEMBED client message to w.
	SendXEmbed(w Window, msg, detail, data1, data2 uint32) error
	// NotifyEmbedded announces to w that it is now embedded in embedder.
	NotifyEmbedded(w, embedder Window) error
	// SupportsDelete reports whether w lists WM_DELETE_WINDOW in WM_PROTOCOLS.
	SupportsDelete(w Window) bool
	SendDelete(w Window) error
	Kill(w Window) error
	// RequestFullscreen asks the window manager to toggle fullscreen on w.
	RequestFullscreen(w Window) error

	// Title reads _NET_WM_NAME, falling back to WM_NAME.
	Title(w Window) (string, error)
	// SetTitle writes both _NET_WM_NAME and WM_NAME.
	SetTitle(w Window, title string) error
	// Urgent reads the urgency flag of w's WM_HINTS. An error means the
	// hints could not be read.
	Urgent(w Window) (bool, error)
	SetUrgent(w Window, urgent bool) error
	// TextProperty reads a string property by atom name.
	TextProperty(w Window, name string) (string, error)

	// NextEvent blocks until the next event arrives. A non-nil error ends
	// the event loop.
	NextEvent() (Event, error)
	Flush()
}

// Renderer draws the tab strip. Render writes each visible client's TabX.
type Renderer interface {
	// Height is the natural bar height for the configured font.
	Height() int
	Render(v BarView) BarLayout
}

// BarView is the state the renderer needs for one frame.
type BarView struct {
	// Y is the bar's offset inside the container.
	Y             int
	Width, Height int
	Clients       []*Client
	Selected      int
	// Title is shown across the whole bar when there are no clients.
	Title string
}

// BarLayout is what hit-testing needs from the last frame.
type BarLayout struct {
	// First is the index of the leftmost visible tab.
	First int
	// LeadIn is the width of the scroll marker before the first tab, or 0.
	LeadIn int
}

// Spawner starts client processes without waiting for them.
type Spawner interface {
	Spawn(argv []string) error
}
