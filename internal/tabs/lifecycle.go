package tabs

// Adopt embeds w as a new tab. Windows already managed are ignored.
func (s *Session) Adopt(w Window) {
	if w == s.ws.Container() || s.reg.Find(w) >= 0 {
		return
	}
	s.embed(w)

	pos := InsertIndex(s.sel, s.reg.Len(), s.opts.NewPosition, s.opts.PositionRelative)
	pos, err := s.reg.Insert(&Client{Window: w}, pos)
	if err != nil {
		s.should(err, "insert client")
		return
	}
	s.log.Info().
		Uint32("window", uint32(w)).
		Int("index", pos).
		Msg("Adopted client")
	s.updateTitle(pos)

	s.announce(w)

	// Keep the selection on the same client before focus records it as
	// the previous one.
	if s.sel >= pos {
		s.sel++
	}
	switch {
	case s.nextFocus:
		s.focus(pos)
	case s.sel < 0:
		s.focus(0)
	default:
		s.focus(s.sel)
	}
	s.nextFocus = s.foreground
}

// Release removes the client at c after its window went away and repairs
// the selection.
func (s *Session) Release(c int) {
	removed := s.reg.Remove(c)
	if removed == nil {
		s.drawBar()
		return
	}
	s.log.Info().
		Uint32("window", uint32(removed.Window)).
		Int("index", c).
		Msg("Released client")

	n := s.reg.Len()
	if n == 0 {
		s.sel, s.prev = NoSelection, NoSelection
		if s.opts.CloseLastClient {
			s.running = false
		} else if s.opts.FillAgain && s.running {
			s.spawn(nil)
		}
		s.focus(NoSelection)
	} else {
		if s.prev >= n {
			s.prev = n - 1
		} else if s.prev > c {
			s.prev--
		}

		if c == s.sel && s.prev >= 0 {
			// The removed index no longer names a client, so the previous
			// selection is not recorded again.
			s.sel = s.prev
			s.prev = NoSelection
			s.focus(s.sel)
		} else {
			if s.sel > c {
				s.sel--
			}
			if s.sel >= n {
				s.sel = n - 1
			}
			s.focus(s.sel)
		}
	}
	s.drawBar()
}

// spawn starts argv, or the client command when argv is empty.
func (s *Session) spawn(argv []string) {
	if len(argv) == 0 {
		argv = s.Command()
	}
	if len(argv) == 0 {
		s.log.Debug().Msg("Nothing to spawn")
		return
	}
	if s.spawner == nil {
		s.log.Warn().Strs("argv", argv).Msg("No spawner configured")
		return
	}
	if err := s.spawner.Spawn(argv); err != nil {
		s.log.Error().Err(err).Strs("argv", argv).Msg("Failed to spawn client")
		return
	}
	s.log.Debug().Strs("argv", argv).Msg("Spawned client")
}

// Spawn starts argv, or the client command when argv is empty.
func (s *Session) Spawn(argv []string) {
	s.spawn(argv)
}

// Cleanup closes every client, hands its window back to the root and
// destroys the container. The session must not be used afterwards.
func (s *Session) Cleanup() {
	root := s.ws.Root()
	for s.reg.Len() > 0 {
		c := s.reg.At(0)
		s.requestClose(c)
		s.should(s.ws.Reparent(c.Window, root, 0, 0), "reparent client to root")
		s.reg.Remove(0)
	}
	s.sel, s.prev = NoSelection, NoSelection
	s.should(s.ws.Destroy(s.ws.Container()), "destroy container")
	s.ws.Flush()
	s.stop()
}

// drawBar applies the bar visibility rules and renders the tabs.
func (s *Session) drawBar() {
	n := s.reg.Len()
	if s.opts.Autohide || s.opts.HideTabs {
		var nbh int
		switch {
		case s.opts.Autohide && s.opts.HideTabs:
			if s.barVisible && n > 1 {
				nbh = s.vbh
			}
		case s.opts.HideTabs:
			if s.barVisible {
				nbh = s.vbh
			}
		default:
			if n > 1 {
				nbh = s.vbh
			}
		}
		if nbh != s.bh {
			s.bh = nbh
			for _, c := range s.reg.Clients() {
				s.should(s.ws.MoveResize(c.Window, s.clientGeometry()), "move client")
			}
		}
	}

	view := BarView{
		Y:        s.barY(),
		Width:    s.ww,
		Height:   s.bh,
		Clients:  s.reg.Clients(),
		Selected: s.sel,
	}
	if n == 0 {
		title, err := s.ws.Title(s.ws.Container())
		s.should(err, "read container title")
		view.Title = title
		if s.opts.Autohide {
			view.Height = s.vbh
		}
		s.render(view)
		return
	}
	if s.bh == 0 {
		s.publish()
		return
	}
	s.render(view)
}

func (s *Session) render(v BarView) {
	if s.renderer != nil && v.Height > 0 {
		s.layout = s.renderer.Render(v)
	}
	s.publish()
}

func (s *Session) barY() int {
	if s.opts.BottomTabs {
		return s.wh - s.bh
	}
	return 0
}
