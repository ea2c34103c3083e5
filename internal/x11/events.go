package x11

import (
	"fmt"
	"io"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/bryanchriswhite/FocusTabs/internal/tabs"
)

// NextEvent blocks for the next event the session handles. Errors from
// earlier requests arrive here too; recoverable ones are logged and
// skipped. io.EOF means the connection is gone.
func (b *Backend) NextEvent() (tabs.Event, error) {
	for {
		ev, xerr := b.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return tabs.Event{}, io.EOF
		}
		if xerr != nil {
			if err := check(xerr); err != nil {
				return tabs.Event{}, fmt.Errorf("%w: %v", err, xerr)
			}
			b.log.Debug().Str("error", xerr.Error()).Msg("Ignoring X error")
			continue
		}
		if e, ok := b.translate(ev); ok {
			return e, nil
		}
	}
}

// translate reduces ev to a tabs.Event. ok is false for events the
// session does not handle.
func (b *Backend) translate(ev xgb.Event) (tabs.Event, bool) {
	switch e := ev.(type) {
	case xproto.ButtonPressEvent:
		return tabs.Event{
			Kind:   tabs.EventButtonPress,
			Window: tabs.Window(e.Event),
			Button: byte(e.Detail),
			State:  e.State,
			X:      int(e.EventX),
			Y:      int(e.EventY),
		}, true
	case xproto.MotionNotifyEvent:
		return tabs.Event{
			Kind:   tabs.EventMotionNotify,
			Window: tabs.Window(e.Event),
			State:  e.State,
			X:      int(e.EventX),
			Y:      int(e.EventY),
		}, true
	case xproto.ClientMessageEvent:
		out := tabs.Event{Kind: tabs.EventClientMessage, Window: tabs.Window(e.Window)}
		if e.Type == b.atoms.protocols && e.Format == 32 {
			out.DeleteRequest = xproto.Atom(e.Data.Data32[0]) == b.atoms.deleteWin
		}
		return out, true
	case xproto.ConfigureNotifyEvent:
		return tabs.Event{
			Kind:   tabs.EventConfigureNotify,
			Window: tabs.Window(e.Window),
			Width:  int(e.Width),
			Height: int(e.Height),
		}, true
	case xproto.ConfigureRequestEvent:
		return tabs.Event{
			Kind:   tabs.EventConfigureRequest,
			Window: tabs.Window(e.Window),
			Configure: tabs.ConfigureRequest{
				ValueMask: e.ValueMask,
				Sibling:   tabs.Window(e.Sibling),
				StackMode: e.StackMode,
			},
		}, true
	case xproto.CreateNotifyEvent:
		return tabs.Event{Kind: tabs.EventCreateNotify, Window: tabs.Window(e.Window)}, true
	case xproto.DestroyNotifyEvent:
		return tabs.Event{Kind: tabs.EventDestroyNotify, Window: tabs.Window(e.Window)}, true
	case xproto.ExposeEvent:
		return tabs.Event{
			Kind:   tabs.EventExpose,
			Window: tabs.Window(e.Window),
			Count:  int(e.Count),
		}, true
	case xproto.FocusInEvent:
		return tabs.Event{
			Kind:   tabs.EventFocusIn,
			Window: tabs.Window(e.Event),
			Ungrab: e.Mode == xproto.NotifyModeUngrab,
		}, true
	case xproto.KeyPressEvent:
		return b.keyEvent(tabs.EventKeyPress, e.Event, e.Detail, e.State), true
	case xproto.KeyReleaseEvent:
		return b.keyEvent(tabs.EventKeyRelease, e.Event, e.Detail, e.State), true
	case xproto.MapRequestEvent:
		return tabs.Event{Kind: tabs.EventMapRequest, Window: tabs.Window(e.Window)}, true
	case xproto.PropertyNotifyEvent:
		return tabs.Event{
			Kind:            tabs.EventPropertyNotify,
			Window:          tabs.Window(e.Window),
			Property:        b.property(e.Atom),
			PropertyDeleted: e.State == xproto.PropertyDelete,
		}, true
	case xproto.UnmapNotifyEvent:
		return tabs.Event{Kind: tabs.EventUnmapNotify, Window: tabs.Window(e.Window)}, true
	case xproto.MappingNotifyEvent:
		b.refreshMappings(e)
	}
	return tabs.Event{}, false
}

func (b *Backend) keyEvent(kind tabs.EventKind, win xproto.Window, code xproto.Keycode, state uint16) tabs.Event {
	return tabs.Event{
		Kind:    kind,
		Window:  tabs.Window(win),
		Keycode: tabs.Keycode(code),
		Keysym:  b.keysym(code),
		State:   state,
	}
}

func (b *Backend) property(atom xproto.Atom) tabs.Property {
	switch {
	case atom == xproto.AtomWmName || atom == b.atoms.netWMName:
		return tabs.PropertyName
	case atom == xproto.AtomWmHints:
		return tabs.PropertyHints
	case b.atoms.hasSelector && atom == b.atoms.selectTab:
		return tabs.PropertySelectTab
	}
	return tabs.PropertyOther
}
