package tabs

import "fmt"

// EventKind enumerates the window system events the session reacts to.
type EventKind int

const (
	EventButtonPress EventKind = iota
	EventClientMessage
	EventConfigureNotify
	EventConfigureRequest
	EventCreateNotify
	EventDestroyNotify
	EventExpose
	EventFocusIn
	EventKeyPress
	EventKeyRelease
	EventMapRequest
	EventMotionNotify
	EventPropertyNotify
	EventUnmapNotify
)

var eventKindNames = [...]string{
	EventButtonPress:      "ButtonPress",
	EventClientMessage:    "ClientMessage",
	EventConfigureNotify:  "ConfigureNotify",
	EventConfigureRequest: "ConfigureRequest",
	EventCreateNotify:     "CreateNotify",
	EventDestroyNotify:    "DestroyNotify",
	EventExpose:           "Expose",
	EventFocusIn:          "FocusIn",
	EventKeyPress:         "KeyPress",
	EventKeyRelease:       "KeyRelease",
	EventMapRequest:       "MapRequest",
	EventMotionNotify:     "MotionNotify",
	EventPropertyNotify:   "PropertyNotify",
	EventUnmapNotify:      "UnmapNotify",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Property identifies the properties whose changes matter to the session.
type Property int

const (
	PropertyOther Property = iota
	// PropertyName is WM_NAME or _NET_WM_NAME.
	PropertyName
	// PropertyHints is WM_HINTS.
	PropertyHints
	// PropertySelectTab is the remote tab selection property.
	PropertySelectTab
)

// Pointer buttons.
const (
	Button1 = 1
	Button2 = 2
	Button3 = 3
	Button4 = 4
	Button5 = 5
)

// Button1Mask is set in a motion event's state while button 1 is held.
const Button1Mask uint16 = 1 << 8

// ConfigureRequest carries the parts of a client's configure request that
// are passed through.
type ConfigureRequest struct {
	ValueMask uint16
	Sibling   Window
	StackMode uint8
}

// Event is a window system event reduced to what the handlers read.
// Which fields are set depends on Kind.
type Event struct {
	Kind   EventKind
	Window Window

	// KeyPress, KeyRelease
	Keycode Keycode
	Keysym  Keysym
	// KeyPress, KeyRelease, ButtonPress, MotionNotify
	State uint16
	// ButtonPress
	Button uint8
	// ButtonPress, MotionNotify: position relative to the event window
	X, Y int

	// ConfigureNotify
	Width, Height int
	// ConfigureRequest
	Configure ConfigureRequest

	// Expose
	Count int

	// PropertyNotify
	Property        Property
	PropertyDeleted bool

	// FocusIn
	Ungrab bool

	// ClientMessage: WM_PROTOCOLS carrying WM_DELETE_WINDOW
	DeleteRequest bool
}

type handlerFunc func(*Session, Event)

// newHandlers builds the event dispatch table. Kinds without an entry are
// ignored.
func newHandlers(opts Options) map[EventKind]handlerFunc {
	h := map[EventKind]handlerFunc{
		EventButtonPress:      (*Session).buttonPress,
		EventClientMessage:    (*Session).clientMessage,
		EventConfigureNotify:  (*Session).configureNotify,
		EventConfigureRequest: (*Session).configureRequest,
		EventCreateNotify:     (*Session).createNotify,
		EventDestroyNotify:    (*Session).destroyNotify,
		EventExpose:           (*Session).expose,
		EventFocusIn:          (*Session).focusIn,
		EventKeyPress:         (*Session).keyPress,
		EventMapRequest:       (*Session).mapRequest,
		EventPropertyNotify:   (*Session).propertyNotify,
		EventUnmapNotify:      (*Session).unmapNotify,
	}
	if len(opts.KeyReleases) > 0 {
		h[EventKeyRelease] = (*Session).keyRelease
	}
	if opts.Drag {
		h[EventMotionNotify] = (*Session).motionNotify
	}
	return h
}
