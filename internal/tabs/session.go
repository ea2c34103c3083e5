package tabs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/bryanchriswhite/FocusTabs/internal/logger"
	"github.com/rs/zerolog"
)

// ErrStopped is returned by Do once the event loop has exited.
var ErrStopped = errors.New("session stopped")

// Options configure a session. The zero value is usable: clients are
// appended at the end, nothing is spawned and the bar is always shown.
type Options struct {
	// Version appears in the container title while no client is embedded.
	Version string

	// Command is the client command line. Its window id slot is decided by
	// ReplaceIndex: argv[ReplaceIndex] is replaced when ReplaceIndex > 0,
	// otherwise the id is appended.
	Command      []string
	ReplaceIndex int
	// InitialSpawn runs Command once the loop starts.
	InitialSpawn bool

	// NewPosition is where adopted clients go: an absolute index (negative
	// counts from the end) or, with PositionRelative, an offset from the
	// selected tab.
	NewPosition      int
	PositionRelative bool

	Foreground       bool
	UrgentSwitch     bool
	CloseLastClient  bool
	FillAgain        bool
	KillClientsFirst bool
	Basename         bool

	// BarHeight overrides the renderer's natural height when positive.
	BarHeight  int
	BottomTabs bool
	// Autohide hides the bar while at most one client is embedded.
	Autohide bool
	// HideTabs keeps the bar hidden except while ActionShowBar(1) is active.
	HideTabs bool
	// Drag lets button 1 drags reorder tabs.
	Drag bool

	KeyMatch    KeyMatch
	Keys        []Binding
	KeyReleases []Binding

	// SelectTabProperty is the container property watched for remote
	// selection. Empty disables the feature.
	SelectTabProperty string

	// Width and Height are the container's initial size.
	Width, Height int
}

// TabInfo describes one tab in a Snapshot.
type TabInfo struct {
	Index    int    `json:"index"`
	Window   Window `json:"window"`
	Title    string `json:"title"`
	Urgent   bool   `json:"urgent"`
	Selected bool   `json:"selected"`
}

// Snapshot is a copy of the session's visible state.
type Snapshot struct {
	Container Window    `json:"container"`
	Selected  int       `json:"selected"`
	Tabs      []TabInfo `json:"tabs"`
}

// Session is the state of one container: its clients, the selection and
// the key tables. All mutation happens on the goroutine running Run; other
// goroutines go through Do.
type Session struct {
	opts     Options
	ws       WindowSystem
	renderer Renderer
	spawner  Spawner
	log      *zerolog.Logger

	reg  Registry
	sel  int
	prev int

	ww, wh int
	// bh is the current bar height, vbh the visible one, obh the height
	// saved while the container is too short to show the bar.
	bh, vbh, obh int
	barVisible   bool

	running      bool
	nextFocus    bool
	foreground   bool
	urgentSwitch bool

	cmd       []string
	appendPos int

	keys     *KeyDispatcher
	releases *KeyDispatcher
	handlers map[EventKind]handlerFunc
	layout   BarLayout

	commands chan func()
	done     chan struct{}
	stopOnce sync.Once

	mu        sync.Mutex
	listeners []chan Snapshot
	snapshot  Snapshot
}

// New creates a session for the container managed by ws.
func New(opts Options, ws WindowSystem, r Renderer, sp Spawner) *Session {
	s := &Session{
		opts:         opts,
		ws:           ws,
		renderer:     r,
		spawner:      sp,
		log:          logger.WithComponent("tabs"),
		sel:          NoSelection,
		prev:         NoSelection,
		ww:           opts.Width,
		wh:           opts.Height,
		running:      true,
		foreground:   opts.Foreground,
		urgentSwitch: opts.UrgentSwitch,
		keys:         NewKeyDispatcher(opts.KeyMatch, opts.Keys),
		releases:     NewKeyDispatcher(opts.KeyMatch, opts.KeyReleases),
		handlers:     newHandlers(opts),
		commands:     make(chan func()),
		done:         make(chan struct{}),
	}

	s.vbh = opts.BarHeight
	if s.vbh <= 0 && r != nil {
		s.vbh = r.Height()
	}
	if opts.Autohide || opts.HideTabs {
		s.bh = 0
	} else {
		s.bh = s.vbh
	}

	if len(opts.Command) == 0 {
		s.opts.InitialSpawn = false
		s.opts.FillAgain = false
	}
	s.setCommand(opts.Command, opts.ReplaceIndex)

	// Urgency is propagated through the container's hints, so they must
	// be readable before the first client asks for attention.
	s.should(ws.SetUrgent(ws.Container(), false), "set container hints")

	s.nextFocus = s.foreground
	s.focus(NoSelection)
	return s
}

// setCommand stores the client command with the container id in place.
// The slot after the id, or after the replaced argument, is where extra
// arguments are appended.
func (s *Session) setCommand(argv []string, replace int) {
	if len(argv) == 0 {
		s.cmd = nil
		s.appendPos = 0
		return
	}
	id := strconv.FormatUint(uint64(s.ws.Container()), 10)
	s.cmd = append([]string(nil), argv...)
	if replace > 0 && replace < len(argv) {
		s.cmd[replace] = id
		s.appendPos = len(argv)
	} else {
		s.cmd = append(s.cmd, id)
		s.appendPos = len(argv) + 1
	}
}

// Command returns the client command line with the container id in place.
func (s *Session) Command() []string {
	return append([]string(nil), s.cmd[:s.appendPos]...)
}

// emptyTitle is the container title while no client is embedded.
func (s *Session) emptyTitle() string {
	var b strings.Builder
	fmt.Fprintf(&b, "focustabs-%s ::", s.opts.Version)
	for _, arg := range s.Command() {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	return b.String()
}

// Run processes events until the session stops running, ctx is cancelled
// or the window system reports an error. It returns nil on an orderly stop.
func (s *Session) Run(ctx context.Context) error {
	defer s.stop()

	events := make(chan Event)
	errc := make(chan error, 1)
	go func() {
		for {
			ev, err := s.ws.NextEvent()
			if err != nil {
				errc <- err
				return
			}
			select {
			case events <- ev:
			case <-s.done:
				return
			}
		}
	}()

	s.drawBar()
	if s.opts.InitialSpawn {
		s.spawn(nil)
	}

	for s.running {
		s.ws.Flush()
		select {
		case <-ctx.Done():
			s.log.Debug().Msg("Context cancelled, stopping")
			return nil
		case err := <-errc:
			return fmt.Errorf("event loop: %w", err)
		case ev := <-events:
			s.Dispatch(ev)
		case f := <-s.commands:
			f()
		}
	}
	s.log.Debug().Msg("Session no longer running")
	return nil
}

func (s *Session) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		for _, ch := range s.listeners {
			close(ch)
		}
		s.listeners = nil
		s.mu.Unlock()
	})
}

// Dispatch runs the handler registered for ev's kind, if any.
func (s *Session) Dispatch(ev Event) {
	h, ok := s.handlers[ev.Kind]
	if !ok {
		return
	}
	s.log.Debug().
		Stringer("event", ev.Kind).
		Uint32("window", uint32(ev.Window)).
		Msg("Dispatching event")
	h(s, ev)
}

// Do runs f on the event loop and waits for it to finish.
func (s *Session) Do(ctx context.Context, f func(*Session)) error {
	finished := make(chan struct{})
	select {
	case s.commands <- func() { f(s); close(finished) }:
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether the loop would continue.
func (s *Session) Running() bool {
	return s.running
}

// Quit makes the loop exit after the current event.
func (s *Session) Quit() {
	s.running = false
}

// Len returns the number of embedded clients.
func (s *Session) Len() int {
	return s.reg.Len()
}

// Selected returns the selected index, or NoSelection.
func (s *Session) Selected() int {
	return s.sel
}

// Previous returns the previously selected index, or NoSelection.
func (s *Session) Previous() int {
	return s.prev
}

// Client returns the client at i, or nil.
func (s *Session) Client(i int) *Client {
	return s.reg.At(i)
}

// Find returns the index of the client owning w, or -1.
func (s *Session) Find(w Window) int {
	return s.reg.Find(w)
}

// UrgentSwitch reports the current urgent switch setting.
func (s *Session) UrgentSwitch() bool {
	return s.urgentSwitch
}

// BarHeight returns the current bar height; 0 while the bar is hidden.
func (s *Session) BarHeight() int {
	return s.bh
}

// Snapshot returns the state published after the last render.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Subscribe returns a channel receiving a Snapshot after every render.
// Slow subscribers miss snapshots rather than block the loop.
func (s *Session) Subscribe() chan Snapshot {
	ch := make(chan Snapshot, 10)
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		close(ch)
	default:
		s.listeners = append(s.listeners, ch)
	}
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (s *Session) Unsubscribe(ch chan Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, listener := range s.listeners {
		if listener == ch {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			close(ch)
			break
		}
	}
}

func (s *Session) publish() {
	snap := Snapshot{
		Container: s.ws.Container(),
		Selected:  s.sel,
		Tabs:      make([]TabInfo, 0, s.reg.Len()),
	}
	for i, c := range s.reg.Clients() {
		snap.Tabs = append(snap.Tabs, TabInfo{
			Index:    i,
			Window:   c.Window,
			Title:    c.Title,
			Urgent:   c.Urgent,
			Selected: i == s.sel,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	for _, ch := range s.listeners {
		select {
		case ch <- snap:
		default:
		}
	}
}

// should logs err when it is non-nil. Requests against vanished windows
// are expected while clients come and go.
func (s *Session) should(err error, what string) {
	if err != nil {
		s.log.Debug().Err(err).Msg(what)
	}
}
