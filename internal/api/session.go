package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/bryanchriswhite/FocusTabs/internal/tabs"
)

var (
	// ErrNoSuchTab is returned for a target that names no embedded client.
	ErrNoSuchTab = errors.New("no such tab")
	// ErrNoTarget is returned when a request needs a target and has none.
	ErrNoTarget = errors.New("no window or index given")
)

// SessionController runs control requests on a session's event loop.
type SessionController struct {
	*tabs.Session
}

// NewSessionController wraps s.
func NewSessionController(s *tabs.Session) *SessionController {
	return &SessionController{Session: s}
}

// Select focuses the target tab.
func (c *SessionController) Select(ctx context.Context, t Target) error {
	if t.Window == nil && t.Index == nil {
		return ErrNoTarget
	}
	var err error
	if doErr := c.Do(ctx, func(s *tabs.Session) {
		var i int
		if i, err = resolve(s, t); err == nil {
			s.Focus(i)
		}
	}); doErr != nil {
		return doErr
	}
	return err
}

// Close closes the target tab, or the selected one when t is empty.
func (c *SessionController) Close(ctx context.Context, t Target) error {
	var err error
	if doErr := c.Do(ctx, func(s *tabs.Session) {
		if t.Window == nil && t.Index == nil {
			if s.Selected() == tabs.NoSelection {
				err = ErrNoSuchTab
				return
			}
			s.KillClient()
			return
		}
		var i int
		if i, err = resolve(s, t); err == nil {
			s.Close(i)
		}
	}); doErr != nil {
		return doErr
	}
	return err
}

// Spawn starts a client with args appended to the client command, or the
// client command alone when args is empty.
func (c *SessionController) Spawn(ctx context.Context, args []string) error {
	return c.Do(ctx, func(s *tabs.Session) {
		if len(args) == 0 {
			s.Spawn(nil)
			return
		}
		s.Spawn(append(s.Command(), args...))
	})
}

func resolve(s *tabs.Session, t Target) (int, error) {
	if t.Window != nil {
		i := s.Find(*t.Window)
		if i < 0 {
			return 0, fmt.Errorf("%w: window %#x", ErrNoSuchTab, uint32(*t.Window))
		}
		return i, nil
	}
	if *t.Index < 0 || *t.Index >= s.Len() {
		return 0, fmt.Errorf("%w: index %d", ErrNoSuchTab, *t.Index)
	}
	return *t.Index, nil
}
