package tabs

func (s *Session) buttonPress(ev Event) {
	c, ok := s.tabAt(ev.X, ev.Y)
	if !ok {
		return
	}
	switch ev.Button {
	case Button1:
		s.focus(c)
	case Button2:
		s.focus(c)
		s.KillClient()
	case Button4:
		s.Rotate(-1)
	case Button5:
		s.Rotate(+1)
	}
}

// tabAt maps a point in the container to the visible tab under it.
func (s *Session) tabAt(x, y int) (int, bool) {
	if s.opts.BottomTabs {
		if y < s.wh-s.bh {
			return 0, false
		}
	} else if y < 0 || y > s.bh {
		return 0, false
	}
	if x < 0 || (s.layout.First > 0 && x < s.layout.LeadIn) {
		return 0, false
	}
	for i := s.layout.First; i < s.reg.Len(); i++ {
		if s.reg.At(i).TabX > x {
			return i, true
		}
	}
	return 0, false
}

// motionNotify drags the selected tab onto a neighbouring slot.
func (s *Session) motionNotify(ev Event) {
	if ev.State&Button1Mask == 0 || s.sel < 0 {
		return
	}
	c, ok := s.tabAt(ev.X, ev.Y)
	if !ok {
		return
	}
	switch c {
	case s.sel + 1:
		s.MoveTab(+1)
	case s.sel - 1:
		s.MoveTab(-1)
	}
}

func (s *Session) clientMessage(ev Event) {
	if ev.Window != s.ws.Container() || !ev.DeleteRequest {
		return
	}
	if s.reg.Len() > 1 && s.opts.KillClientsFirst {
		s.KillClient()
		return
	}
	s.running = false
}

func (s *Session) configureNotify(ev Event) {
	if ev.Window != s.ws.Container() || (ev.Width == s.ww && ev.Height == s.wh) {
		return
	}
	s.ww, s.wh = ev.Width, ev.Height

	if s.obh == 0 && s.wh <= s.bh {
		s.obh, s.bh = s.bh, 0
	} else if s.bh == 0 && s.wh > s.obh && s.obh > 0 {
		s.bh, s.obh = s.obh, 0
	}

	if c := s.reg.At(s.sel); c != nil {
		s.resize(c)
	}
}

func (s *Session) configureRequest(ev Event) {
	c := s.reg.Find(ev.Window)
	if c < 0 {
		return
	}
	s.should(s.ws.ConfigureClient(ev.Window, s.clientGeometry(), ev.Configure), "configure client")
}

func (s *Session) createNotify(ev Event) {
	s.Adopt(ev.Window)
}

func (s *Session) mapRequest(ev Event) {
	s.Adopt(ev.Window)
}

func (s *Session) destroyNotify(ev Event) {
	if c := s.reg.Find(ev.Window); c >= 0 {
		s.Release(c)
	}
}

func (s *Session) unmapNotify(ev Event) {
	if c := s.reg.Find(ev.Window); c >= 0 {
		s.Release(c)
	}
}

func (s *Session) expose(ev Event) {
	if ev.Count == 0 && ev.Window == s.ws.Container() {
		s.drawBar()
	}
}

// focusIn passes focus that landed on the container on to the selected
// client.
func (s *Session) focusIn(ev Event) {
	if ev.Ungrab {
		return
	}
	focused, err := s.ws.InputFocus()
	if err != nil {
		s.should(err, "query input focus")
		return
	}
	if focused == s.ws.Container() {
		s.focus(s.sel)
	}
}

func (s *Session) keyPress(ev Event) {
	for _, b := range s.keys.Resolve(ev.Keycode, ev.Keysym, ev.State, s.ws.NumLockMask()) {
		s.apply(b)
	}
}

func (s *Session) keyRelease(ev Event) {
	for _, b := range s.releases.Resolve(ev.Keycode, ev.Keysym, ev.State, s.ws.NumLockMask()) {
		s.apply(b)
	}
}

func (s *Session) propertyNotify(ev Event) {
	switch {
	case ev.Property == PropertySelectTab && !ev.PropertyDeleted && ev.Window == s.ws.Container():
		if s.opts.SelectTabProperty != "" {
			s.selectTab()
		}
	case ev.Property == PropertyHints && !ev.PropertyDeleted:
		if c := s.reg.Find(ev.Window); c >= 0 {
			s.hintsChanged(c)
		}
	case ev.Property == PropertyName && !ev.PropertyDeleted:
		if c := s.reg.Find(ev.Window); c >= 0 {
			s.updateTitle(c)
		}
	}
}
