package tabs

import (
	"strconv"
	"strings"
)

// embed hands w over to the container: it is withdrawn from the window
// manager, reparented, subscribed to and given the key grabs.
func (s *Session) embed(w Window) {
	s.should(s.ws.Withdraw(w), "withdraw client")
	y := s.bh
	if s.opts.BottomTabs {
		y = 0
	}
	s.should(s.ws.Reparent(w, s.ws.Container(), 0, y), "reparent client")
	s.should(s.ws.SelectClientInput(w), "select client input")

	locks := LockCombinations(s.ws.NumLockMask())
	for _, d := range []*KeyDispatcher{s.keys, s.releases} {
		for _, b := range d.Bindings() {
			for _, code := range d.Keycodes(s.ws, b) {
				for _, lock := range locks {
					s.should(s.ws.GrabKey(w, b.Mods|lock, code), "grab key")
				}
			}
		}
	}
}

// announce maps an embedded client and sends it EMBEDDED_NOTIFY.
func (s *Session) announce(w Window) {
	s.should(s.ws.Lower(w), "lower client")
	s.should(s.ws.Map(w), "map client")
	s.should(s.ws.NotifyEmbedded(w, s.ws.Container()), "xembed embedded notify")
}

// KillClient closes the selected client.
func (s *Session) KillClient() {
	if s.sel < 0 {
		return
	}
	s.requestClose(s.reg.At(s.sel))
}

// Close selects the tab at i and closes it, as a middle click does.
func (s *Session) Close(i int) {
	if i < 0 || i >= s.reg.Len() {
		return
	}
	s.focus(i)
	s.KillClient()
}

// requestClose asks c to close through WM_DELETE_WINDOW, once. Clients
// without the protocol, or asked before, are killed.
func (s *Session) requestClose(c *Client) {
	if s.ws.SupportsDelete(c.Window) && !c.CloseRequested {
		s.should(s.ws.SendDelete(c.Window), "send delete request")
		c.CloseRequested = true
		return
	}
	s.should(s.ws.Kill(c.Window), "kill client")
}

// selectTab handles a new value of the select-tab property: a window id
// selects that client's tab, anything else is appended to the client
// command and spawned.
func (s *Session) selectTab() {
	value, err := s.ws.TextProperty(s.ws.Container(), s.opts.SelectTabProperty)
	if err != nil {
		s.should(err, "read select-tab property")
		return
	}
	if strings.HasPrefix(value, "0x") {
		s.move(s.reg.Find(parseWindowPrefix(value)))
		return
	}
	if len(s.cmd) == 0 {
		s.log.Debug().Str("value", value).Msg("No command to spawn selection with")
		return
	}
	argv := append(s.Command(), value)
	s.spawn(argv)
}

// parseWindowPrefix parses the leading window id of s, ignoring anything
// after it, as strtoul does.
func parseWindowPrefix(s string) Window {
	end := 2
	for end < len(s) && strings.IndexByte("0123456789abcdefABCDEF", s[end]) >= 0 {
		end++
	}
	id, err := strconv.ParseUint(s[:end], 0, 32)
	if err != nil {
		return 0
	}
	return Window(id)
}

// hintsChanged reacts to a WM_HINTS update of client c. An urgent hint on
// an unselected client either switches to it or marks the tab. The
// container's own hint is read again each time and raised if clear.
func (s *Session) hintsChanged(c int) {
	client := s.reg.At(c)
	urgent, err := s.ws.Urgent(client.Window)
	if err != nil {
		s.should(err, "read client hints")
		return
	}
	if !urgent {
		return
	}

	container := s.ws.Container()
	containerUrgent, cerr := s.ws.Urgent(container)
	if c != s.sel {
		if s.urgentSwitch && cerr == nil && !containerUrgent {
			s.focus(c)
		} else {
			client.Urgent = true
			s.drawBar()
		}
	}
	if cerr == nil && !containerUrgent {
		s.should(s.ws.SetUrgent(container, true), "set container urgency")
	}
}

// updateTitle re-reads the title of client c.
func (s *Session) updateTitle(c int) {
	client := s.reg.At(c)
	title, err := s.ws.Title(client.Window)
	s.should(err, "read client title")
	client.setTitle(title, s.opts.Basename)
	if c == s.sel {
		s.should(s.ws.SetTitle(s.ws.Container(), client.Title), "set container title")
	}
	s.drawBar()
}
