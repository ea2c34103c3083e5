package tabs

// focus selects client c. With no clients at all it shows the empty title
// and raises the container. Out of range indices are ignored.
func (s *Session) focus(c int) {
	if s.reg.Len() == 0 {
		s.should(s.ws.SetTitle(s.ws.Container(), s.emptyTitle()), "set container title")
		s.should(s.ws.Raise(s.ws.Container()), "raise container")
		return
	}
	client := s.reg.At(c)
	if client == nil {
		return
	}

	s.resize(client)
	s.should(s.ws.Raise(client.Window), "raise client")
	s.should(s.ws.SetInputFocus(client.Window), "focus client")
	s.should(s.ws.SendXEmbed(client.Window, XEmbedFocusIn, XEmbedFocusCurrent, 0, 0), "xembed focus in")
	s.should(s.ws.SendXEmbed(client.Window, XEmbedWindowActivate, 0, 0, 0), "xembed activate")
	s.should(s.ws.SetTitle(s.ws.Container(), client.Title), "set container title")

	if s.sel != c {
		s.prev = s.sel
		s.sel = c
	}

	if client.Urgent {
		client.Urgent = false
		s.should(s.ws.SetUrgent(client.Window, false), "clear client urgency")
		s.should(s.ws.SetUrgent(s.ws.Container(), false), "clear container urgency")
	}

	s.drawBar()
}

// resize fits client below (or above) the bar.
func (s *Session) resize(c *Client) {
	s.should(s.ws.Resize(c.Window, s.clientGeometry()), "resize client")
}

func (s *Session) clientGeometry() Geometry {
	y := s.bh
	if s.opts.BottomTabs {
		y = 0
	}
	return Geometry{X: 0, Y: y, Width: s.ww, Height: s.wh - s.bh}
}

// Focus selects the tab at index i.
func (s *Session) Focus(i int) {
	s.move(i)
}

func (s *Session) move(i int) {
	if i >= 0 && i < s.reg.Len() {
		s.focus(i)
	}
}

// FocusUrgent selects the next urgent tab after the selected one.
func (s *Session) FocusUrgent() {
	if s.sel < 0 {
		return
	}
	n := s.reg.Len()
	for c := (s.sel + 1) % n; c != s.sel; c = (c + 1) % n {
		if s.reg.At(c).Urgent {
			s.focus(c)
			return
		}
	}
}

// Rotate selects the tab delta positions away, wrapping around. A delta of
// 0 returns to the previously selected tab.
func (s *Session) Rotate(delta int) {
	if s.sel < 0 {
		return
	}
	if delta == 0 {
		if s.prev > NoSelection {
			s.focus(s.prev)
		}
		return
	}
	n := s.reg.Len()
	next := (s.sel + delta) % n
	if next < 0 {
		next += n
	}
	s.focus(next)
}

// MoveTab moves the selected tab delta slots, wrapping around, and keeps
// it selected.
func (s *Session) MoveTab(delta int) {
	if s.sel < 0 {
		return
	}
	to := s.reg.MoveRelative(s.sel, delta)
	if to == s.sel {
		return
	}
	s.sel = to
	s.drawBar()
}

// Toggle flips a session flag.
func (s *Session) Toggle(f Flag) {
	switch f {
	case FlagUrgentSwitch:
		s.urgentSwitch = !s.urgentSwitch
	case FlagForeground:
		s.foreground = !s.foreground
	default:
		s.log.Warn().Int("flag", int(f)).Msg("Toggle of unknown flag")
	}
}

// FocusOnce makes the next adopted client take focus.
func (s *Session) FocusOnce() {
	s.nextFocus = true
}

// ShowBar shows or hides the bar while tabs are hidden by default.
func (s *Session) ShowBar(visible bool) {
	s.barVisible = visible
	s.drawBar()
}

// Fullscreen asks the window manager to toggle fullscreen on the container.
func (s *Session) Fullscreen() {
	s.should(s.ws.RequestFullscreen(s.ws.Container()), "request fullscreen")
}

// apply performs a binding's action.
func (s *Session) apply(b Binding) {
	s.log.Debug().
		Stringer("action", b.Action).
		Str("arg", b.Arg.String()).
		Msg("Key binding")

	switch b.Action {
	case ActionFocusOnce:
		s.FocusOnce()
	case ActionSpawn:
		s.spawn(b.Arg.Argv())
	case ActionRotate:
		s.Rotate(b.Arg.Int())
	case ActionMoveTab:
		s.MoveTab(b.Arg.Int())
	case ActionMove:
		s.move(b.Arg.Int())
	case ActionKillClient:
		s.KillClient()
	case ActionFocusUrgent:
		s.FocusUrgent()
	case ActionToggle:
		if f, ok := b.Arg.Flag(); ok {
			s.Toggle(f)
		}
	case ActionFullscreen:
		s.Fullscreen()
	case ActionShowBar:
		s.ShowBar(b.Arg.Int() != 0)
	}
}
