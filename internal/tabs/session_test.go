package tabs

import (
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	winA Window = 0x100
	winB Window = 0x200
	winC Window = 0x300
	winD Window = 0x400
)

// appendOpts places every adopted client at the end.
func appendOpts() Options {
	return Options{NewPosition: -1}
}

func TestAdoptHandshake(t *testing.T) {
	opts := appendOpts()
	opts.Keys = DefaultKeys(DefaultSelectTabProperty)
	h := newHarness(t, opts)
	h.ws.reset()

	h.adopt(winA)

	assert.Equal(t, []string{
		"Withdraw 0x100",
		"Reparent 0x100 0x400001 0 20",
		"SelectClientInput 0x100",
		"Lower 0x100",
		"Map 0x100",
		"NotifyEmbedded 0x100 0x400001",
		"Resize 0x100",
		"Raise 0x100",
		"SetInputFocus 0x100",
		"SendXEmbed 0x100 4 0",
		"SendXEmbed 0x100 1 0",
	}, h.ws.calls)

	assert.Len(t, h.ws.grabs, 4*len(opts.Keys))
	combos := map[uint16]bool{}
	for _, g := range h.ws.grabs {
		require.Equal(t, winA, g.w, "grab on the wrong window")
		combos[g.mods&(LockMask|Mod2Mask)] = true
	}
	for _, lock := range LockCombinations(Mod2Mask) {
		assert.True(t, combos[lock], "no grab covers lock state %#x", lock)
	}

	assert.Equal(t, 0, h.Selected())
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, Geometry{0, 20, 800, 580}, h.ws.geometry[winA])
}

func TestAdoptIgnoresKnownWindows(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.adopt(winA, winA)
	h.Dispatch(Event{Kind: EventCreateNotify, Window: winA})
	h.Dispatch(Event{Kind: EventCreateNotify, Window: testContainer})

	assert.Equal(t, 1, h.Len())
}

func TestEmptyContainerTitle(t *testing.T) {
	h := newHarness(t, Options{Version: "0.8", Command: []string{"st", "-w"}})
	want := "focustabs-0.8 :: st -w 4194305"
	assert.Equal(t, want, h.ws.titles[testContainer])

	h.ws.titles[winA] = "vim"
	h.adopt(winA)
	assert.Equal(t, "vim", h.ws.titles[testContainer])

	h.Dispatch(Event{Kind: EventDestroyNotify, Window: winA})
	assert.Equal(t, want, h.ws.titles[testContainer], "title after last client")
}

func TestNewWritesContainerHints(t *testing.T) {
	h := newHarness(t, appendOpts())

	assert.False(t, h.ws.noHints[testContainer], "container hints not written")
	assert.Equal(t, 1, h.ws.called("SetUrgent 0x400001 false"))
	urgent, err := h.ws.Urgent(testContainer)
	require.NoError(t, err)
	assert.False(t, urgent)
}

func TestInsertPositions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []Window
	}{
		{"absolute zero", Options{NewPosition: 0}, []Window{winC, winB, winA}},
		{"append", Options{NewPosition: -1}, []Window{winA, winB, winC}},
		{"past the end", Options{NewPosition: 5}, []Window{winA, winB, winC}},
		{"after selection", Options{NewPosition: 1, PositionRelative: true}, []Window{winA, winC, winB}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.opts)
			h.adopt(winA, winB, winC)
			assert.Equal(t, tt.want, h.order())
		})
	}
}

func TestAdoptKeepsSelectedClient(t *testing.T) {
	h := newHarness(t, Options{NewPosition: 0})
	h.adopt(winA, winB)

	// B went in front of A, which stays selected.
	assert.Equal(t, winA, h.Client(h.Selected()).Window)
}

func TestForegroundFocusesNewClient(t *testing.T) {
	opts := appendOpts()
	opts.Foreground = true
	h := newHarness(t, opts)
	h.adopt(winA, winB, winC)

	assert.Equal(t, 2, h.Selected())
	assert.Equal(t, 1, h.Previous())
}

func TestRemoveSelectedFocusesPrevious(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.adopt(winA, winB, winC)
	h.Focus(1)
	require.Equal(t, 1, h.Selected())
	require.Equal(t, 0, h.Previous())

	h.Dispatch(Event{Kind: EventDestroyNotify, Window: winB})

	assert.Equal(t, 0, h.Selected())
	assert.Equal(t, []Window{winA, winC}, h.order())
	assert.Equal(t, winA, h.ws.focused, "input focus")
}

func TestRemoveBeforeSelectionShiftsSelection(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.adopt(winA, winB, winC)
	h.Focus(2)

	h.Dispatch(Event{Kind: EventUnmapNotify, Window: winA})

	assert.Equal(t, winC, h.Client(h.Selected()).Window)
	assert.Equal(t, 1, h.Selected())
}

func TestRemoveLastSelectedClamps(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.adopt(winA, winB)
	h.Focus(1)
	h.Dispatch(Event{Kind: EventDestroyNotify, Window: winA})
	h.Dispatch(Event{Kind: EventDestroyNotify, Window: winB})

	assert.Equal(t, NoSelection, h.Selected())
	assert.Equal(t, NoSelection, h.Previous())
}

func TestSelectionStaysValid(t *testing.T) {
	h := newHarness(t, Options{NewPosition: 1, PositionRelative: true})
	rng := rand.New(rand.NewSource(1))
	live := map[Window]bool{}
	next := Window(0x1000)

	for i := 0; i < 2000; i++ {
		switch op := rng.Intn(5); {
		case op < 2:
			h.adopt(next)
			live[next] = true
			next++
		case op < 4 && h.Len() > 0:
			w := h.Client(rng.Intn(h.Len())).Window
			h.Dispatch(Event{Kind: EventDestroyNotify, Window: w})
			delete(live, w)
		default:
			h.Rotate(rng.Intn(5) - 2)
		}

		n := h.Len()
		require.Equal(t, len(live), n, "step %d", i)
		if n == 0 {
			require.Equal(t, NoSelection, h.Selected(), "step %d: selection with no clients", i)
		} else {
			require.GreaterOrEqual(t, h.Selected(), 0, "step %d", i)
			require.Less(t, h.Selected(), n, "step %d", i)
		}
		seen := map[Window]bool{}
		for _, c := range h.reg.Clients() {
			require.False(t, seen[c.Window], "step %d: duplicate %#x", i, c.Window)
			seen[c.Window] = true
		}
	}
}

func TestRotate(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.adopt(winA, winB, winC)

	h.Rotate(+1)
	require.Equal(t, 1, h.Selected())
	h.Rotate(-1)
	require.Equal(t, 0, h.Selected())

	h.Rotate(-1)
	assert.Equal(t, 2, h.Selected(), "rotate wraps backwards")
	h.Rotate(+1)
	assert.Equal(t, 0, h.Selected(), "rotate wraps forwards")

	h.Rotate(0)
	assert.Equal(t, 2, h.Selected(), "rotate(0) goes to the previous tab")
	h.Rotate(0)
	assert.Equal(t, 0, h.Selected(), "rotate(0) toggles back")
}

func TestRotateWithoutClients(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.Rotate(1)
	h.Rotate(0)
	h.FocusUrgent()
	h.MoveTab(1)
	h.KillClient()
	assert.Equal(t, NoSelection, h.Selected())
}

func TestMoveTabKey(t *testing.T) {
	opts := appendOpts()
	opts.Keys = DefaultKeys(DefaultSelectTabProperty)
	h := newHarness(t, opts)
	h.adopt(winA, winB, winC, winD)
	h.Focus(2)

	h.Dispatch(Event{Kind: EventKeyPress, Keysym: 'k', State: ControlMask | ShiftMask})
	assert.Equal(t, []Window{winA, winB, winD, winC}, h.order())
	assert.Equal(t, 3, h.Selected())

	h.Dispatch(Event{Kind: EventKeyPress, Keysym: 'k', State: ControlMask | ShiftMask})
	assert.Equal(t, []Window{winC, winA, winB, winD}, h.order(), "order after wrap")
	assert.Equal(t, 0, h.Selected())
}

func TestKeyPressIgnoresLockModifiers(t *testing.T) {
	opts := appendOpts()
	opts.Keys = DefaultKeys(DefaultSelectTabProperty)
	h := newHarness(t, opts)
	h.adopt(winA, winB, winC)

	for _, state := range []uint16{
		ControlMask,
		ControlMask | LockMask,
		ControlMask | Mod2Mask,
		ControlMask | LockMask | Mod2Mask,
	} {
		h.Focus(0)
		h.Dispatch(Event{Kind: EventKeyPress, Keysym: '2', State: state})
		assert.Equal(t, 1, h.Selected(), "state %#x", state)
	}

	h.Focus(0)
	h.Dispatch(Event{Kind: EventKeyPress, Keysym: '2', State: ControlMask | Mod1Mask})
	assert.Equal(t, 0, h.Selected(), "extra modifier matched")
}

func TestKeycodeMatching(t *testing.T) {
	opts := appendOpts()
	opts.KeyMatch = MatchKeycode
	opts.Keys = DefaultKeycodes(DefaultSelectTabProperty)
	h := newHarness(t, opts)
	h.adopt(winA, winB, winC)

	h.Dispatch(Event{Kind: EventKeyPress, Keycode: 12, State: ControlMask | LockMask})
	assert.Equal(t, 2, h.Selected())

	var codes []Keycode
	for _, g := range h.ws.grabs {
		codes = append(codes, g.code)
	}
	assert.Contains(t, codes, Keycode(36), "no grab on keycode 36")
}

func TestFocusOnceSharesKeyWithSpawn(t *testing.T) {
	opts := appendOpts()
	opts.Command = []string{"st", "-w"}
	opts.Keys = DefaultKeys(DefaultSelectTabProperty)
	h := newHarness(t, opts)
	h.adopt(winA)

	h.Dispatch(Event{Kind: EventKeyPress, Keysym: XKReturn, State: ControlMask | ShiftMask})

	require.Len(t, h.sp.spawned, 1)
	assert.Equal(t, []string{"st", "-w", "4194305"}, h.sp.spawned[0])

	h.adopt(winB)
	assert.Equal(t, 1, h.Selected(), "focus once")
	h.adopt(winC)
	assert.Equal(t, 1, h.Selected(), "focus once fired twice")
}

func TestReplaceIndex(t *testing.T) {
	h := newHarness(t, Options{Command: []string{"xterm", "-into", "ID", "-e", "sh"}, ReplaceIndex: 2})
	assert.Equal(t, []string{"xterm", "-into", "4194305", "-e", "sh"}, h.Command())
}

func TestUrgencyPersistsUntilSelected(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.adopt(winA, winB)
	h.ws.reset()

	h.ws.urgent[winB] = true
	h.Dispatch(Event{Kind: EventPropertyNotify, Window: winB, Property: PropertyHints})

	require.True(t, h.Client(1).Urgent, "client not marked urgent")
	assert.True(t, h.ws.urgent[testContainer], "container urgency not raised")
	assert.Equal(t, 0, h.Selected())

	h.Rotate(0)
	h.Focus(0)
	assert.True(t, h.Client(1).Urgent, "urgency cleared without selecting the client")

	h.Focus(1)
	assert.False(t, h.Client(1).Urgent, "urgency not cleared on selection")
	h.Focus(0)
	h.Focus(1)
	assert.Equal(t, 1, h.ws.called("SetUrgent 0x200 false"), "client urgency clears")
	assert.Equal(t, 1, h.ws.called("SetUrgent 0x400001 false"), "container urgency clears")
}

func TestUrgentSwitch(t *testing.T) {
	opts := appendOpts()
	opts.UrgentSwitch = true
	h := newHarness(t, opts)
	h.adopt(winA, winB, winC)

	h.ws.urgent[winC] = true
	h.Dispatch(Event{Kind: EventPropertyNotify, Window: winC, Property: PropertyHints})
	assert.Equal(t, 2, h.Selected())
	assert.False(t, h.Client(2).Urgent, "switched-to client marked urgent")

	// The container is urgent now, so the next hint only marks the tab.
	h.ws.urgent[winA] = true
	h.Dispatch(Event{Kind: EventPropertyNotify, Window: winA, Property: PropertyHints})
	assert.Equal(t, 2, h.Selected())
	assert.True(t, h.Client(0).Urgent, "client not marked urgent")
}

func TestUrgentSwitchNeedsReadableContainerHints(t *testing.T) {
	opts := appendOpts()
	opts.UrgentSwitch = true
	h := newHarness(t, opts)
	h.adopt(winA, winB)

	h.ws.noHints[testContainer] = true
	h.ws.urgent[winB] = true
	h.Dispatch(Event{Kind: EventPropertyNotify, Window: winB, Property: PropertyHints})

	assert.Equal(t, 0, h.Selected())
	assert.True(t, h.Client(1).Urgent, "client not marked urgent")
}

func TestFocusUrgentAndToggle(t *testing.T) {
	opts := appendOpts()
	opts.Keys = DefaultKeys(DefaultSelectTabProperty)
	h := newHarness(t, opts)
	h.adopt(winA, winB, winC)

	h.ws.urgent[winC] = true
	h.Dispatch(Event{Kind: EventPropertyNotify, Window: winC, Property: PropertyHints})
	h.Dispatch(Event{Kind: EventKeyPress, Keysym: 'u', State: ControlMask})
	assert.Equal(t, 2, h.Selected())

	h.Dispatch(Event{Kind: EventKeyPress, Keysym: 'u', State: ControlMask | ShiftMask})
	assert.True(t, h.UrgentSwitch(), "urgent switch not toggled on")
}

func TestCloseRequestIsSentOnce(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.adopt(winA, winB)
	h.ws.deletable[winA] = true

	h.KillClient()
	h.KillClient()
	assert.Equal(t, 1, h.ws.called("SendDelete 0x100"), "delete requests")
	assert.Equal(t, 1, h.ws.called("Kill 0x100"), "kills")

	h.Focus(1)
	h.KillClient()
	assert.Equal(t, 1, h.ws.called("Kill 0x200"), "client without delete protocol")
}

func TestLastClientPolicies(t *testing.T) {
	t.Run("close", func(t *testing.T) {
		opts := appendOpts()
		opts.CloseLastClient = true
		h := newHarness(t, opts)
		h.adopt(winA)
		h.Dispatch(Event{Kind: EventDestroyNotify, Window: winA})
		assert.False(t, h.Running())
	})
	t.Run("fill again", func(t *testing.T) {
		opts := appendOpts()
		opts.FillAgain = true
		opts.Command = []string{"surf", "-e"}
		h := newHarness(t, opts)
		h.adopt(winA)
		h.Dispatch(Event{Kind: EventDestroyNotify, Window: winA})
		assert.True(t, h.Running())
		assert.Len(t, h.sp.spawned, 1)
	})
	t.Run("fill again without command", func(t *testing.T) {
		opts := appendOpts()
		opts.FillAgain = true
		h := newHarness(t, opts)
		h.adopt(winA)
		h.Dispatch(Event{Kind: EventDestroyNotify, Window: winA})
		assert.Empty(t, h.sp.spawned)
	})
}

func TestSelectTabProperty(t *testing.T) {
	opts := appendOpts()
	opts.Command = []string{"surf", "-e"}
	opts.SelectTabProperty = DefaultSelectTabProperty
	h := newHarness(t, opts)
	h.adopt(winA, winB, winC)
	ev := Event{Kind: EventPropertyNotify, Window: testContainer, Property: PropertySelectTab}

	h.ws.props[DefaultSelectTabProperty] = "0x200 some title"
	h.Dispatch(ev)
	assert.Equal(t, 1, h.Selected())

	h.ws.props[DefaultSelectTabProperty] = "0x999"
	h.Dispatch(ev)
	assert.Equal(t, 1, h.Selected(), "unknown window changed the selection")

	h.ws.props[DefaultSelectTabProperty] = "https://example.org"
	h.Dispatch(ev)
	assert.Equal(t, [][]string{{"surf", "-e", "4194305", "https://example.org"}}, h.sp.spawned)

	ev.PropertyDeleted = true
	h.Dispatch(ev)
	assert.Len(t, h.sp.spawned, 1, "deleted property triggered a spawn")
}

func TestContainerDeleteRequest(t *testing.T) {
	opts := appendOpts()
	opts.KillClientsFirst = true
	h := newHarness(t, opts)
	h.adopt(winA, winB)
	ev := Event{Kind: EventClientMessage, Window: testContainer, DeleteRequest: true}

	h.Dispatch(ev)
	require.True(t, h.Running(), "stopped with two clients")
	assert.Equal(t, 1, h.ws.called("Kill 0x100"), "selected client kills")

	h.Dispatch(Event{Kind: EventDestroyNotify, Window: winA})
	h.Dispatch(ev)
	assert.False(t, h.Running(), "still running with one client")
}

func TestButtonPress(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.adopt(winA, winB, winC)

	h.Dispatch(Event{Kind: EventButtonPress, Button: Button1, X: 150, Y: 5})
	assert.Equal(t, 1, h.Selected(), "button1")

	h.Dispatch(Event{Kind: EventButtonPress, Button: Button1, X: 50, Y: 25})
	assert.Equal(t, 1, h.Selected(), "click below the bar")

	h.Dispatch(Event{Kind: EventButtonPress, Button: Button5, X: 50, Y: 5})
	assert.Equal(t, 2, h.Selected(), "button5")
	h.Dispatch(Event{Kind: EventButtonPress, Button: Button4, X: 50, Y: 5})
	assert.Equal(t, 1, h.Selected(), "button4")

	h.Dispatch(Event{Kind: EventButtonPress, Button: Button2, X: 250, Y: 5})
	assert.Equal(t, 2, h.Selected(), "button2")
	assert.Equal(t, 1, h.ws.called("Kill 0x300"), "middle click kills")
}

func TestDragReordersTabs(t *testing.T) {
	opts := appendOpts()
	opts.Drag = true
	h := newHarness(t, opts)
	h.adopt(winA, winB, winC)

	h.Dispatch(Event{Kind: EventMotionNotify, X: 150, Y: 5})
	assert.Equal(t, []Window{winA, winB, winC}, h.order(), "motion without button moved tabs")

	h.Dispatch(Event{Kind: EventMotionNotify, X: 150, Y: 5, State: Button1Mask})
	assert.Equal(t, []Window{winB, winA, winC}, h.order())
	assert.Equal(t, 1, h.Selected())
}

func TestConfigureNotifyCollapsesBar(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.adopt(winA)

	h.Dispatch(Event{Kind: EventConfigureNotify, Window: testContainer, Width: 800, Height: 15})
	assert.Equal(t, 0, h.BarHeight())
	assert.Equal(t, Geometry{0, 0, 800, 15}, h.ws.geometry[winA])

	h.Dispatch(Event{Kind: EventConfigureNotify, Window: testContainer, Width: 1024, Height: 768})
	assert.Equal(t, 20, h.BarHeight())
	assert.Equal(t, Geometry{0, 20, 1024, 748}, h.ws.geometry[winA])
}

func TestConfigureRequestIsOverridden(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.adopt(winA)
	h.Dispatch(Event{Kind: EventConfigureRequest, Window: winA})
	assert.Equal(t, Geometry{0, 20, 800, 580}, h.ws.geometry[winA])

	h.ws.reset()
	h.Dispatch(Event{Kind: EventConfigureRequest, Window: winB})
	assert.Empty(t, h.ws.calls, "unmanaged window configured")
}

func TestBottomTabs(t *testing.T) {
	opts := appendOpts()
	opts.BottomTabs = true
	h := newHarness(t, opts)
	h.adopt(winA, winB)

	assert.Equal(t, Geometry{0, 0, 800, 580}, h.ws.geometry[winA])
	assert.Equal(t, 580, h.r.last.Y, "bar y")

	h.Dispatch(Event{Kind: EventButtonPress, Button: Button1, X: 150, Y: 590})
	assert.Equal(t, 1, h.Selected())
}

func TestAutohide(t *testing.T) {
	opts := appendOpts()
	opts.Autohide = true
	h := newHarness(t, opts)

	h.adopt(winA)
	assert.Equal(t, 0, h.BarHeight(), "bar shown with one client")
	h.adopt(winB)
	assert.Equal(t, 20, h.BarHeight(), "bar hidden with two clients")
	assert.Equal(t, 20, h.ws.geometry[winA].Y, "client not moved below the bar")

	h.Dispatch(Event{Kind: EventDestroyNotify, Window: winB})
	assert.Equal(t, 0, h.BarHeight(), "bar shown after removal")
}

func TestHideTabsWhileKeyHeld(t *testing.T) {
	opts := appendOpts()
	opts.HideTabs = true
	opts.Keys = append(DefaultKeys(DefaultSelectTabProperty), HideTabsKeys()...)
	opts.KeyReleases = HideTabsReleases()
	h := newHarness(t, opts)
	h.adopt(winA, winB)

	require.Equal(t, 0, h.BarHeight())
	h.Dispatch(Event{Kind: EventKeyPress, Keysym: XKControlL, State: ShiftMask})
	assert.Equal(t, 20, h.BarHeight(), "while held")
	h.Dispatch(Event{Kind: EventKeyRelease, Keysym: XKControlL, State: ShiftMask | ControlMask})
	assert.Equal(t, 0, h.BarHeight(), "after release")
}

func TestTitleUpdates(t *testing.T) {
	opts := appendOpts()
	opts.Basename = true
	h := newHarness(t, opts)
	h.adopt(winA, winB)

	h.ws.titles[winB] = "/usr/share/doc/README"
	h.Dispatch(Event{Kind: EventPropertyNotify, Window: winB, Property: PropertyName})
	assert.Equal(t, "README", h.Client(1).DisplayName)
	assert.NotEqual(t, "/usr/share/doc/README", h.ws.titles[testContainer], "container title follows unselected client")

	h.ws.titles[winA] = strings.Repeat("x", 300)
	h.Dispatch(Event{Kind: EventPropertyNotify, Window: winA, Property: PropertyName})
	assert.Len(t, h.Client(0).Title, maxTitleLen)
	assert.Equal(t, h.Client(0).Title, h.ws.titles[testContainer])
}

func TestFocusInRefocusesSelected(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.adopt(winA, winB)
	h.Focus(1)

	h.ws.focused = testContainer
	h.Dispatch(Event{Kind: EventFocusIn, Window: testContainer, Ungrab: true})
	assert.Equal(t, testContainer, h.ws.focused, "ungrab focus event handled")

	h.Dispatch(Event{Kind: EventFocusIn, Window: testContainer})
	assert.Equal(t, winB, h.ws.focused)
}

func TestExposeRedraws(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.adopt(winA)
	frames := h.r.frames

	h.Dispatch(Event{Kind: EventExpose, Window: testContainer, Count: 1})
	h.Dispatch(Event{Kind: EventExpose, Window: testContainer})
	assert.Equal(t, frames+1, h.r.frames)
}

func TestCleanup(t *testing.T) {
	h := newHarness(t, appendOpts())
	h.adopt(winA, winB)
	h.ws.deletable[winA] = true
	ch := h.Subscribe()

	h.Cleanup()

	for _, call := range []string{
		"SendDelete 0x100",
		"Kill 0x200",
		"Reparent 0x100 0x1 0 0",
		"Reparent 0x200 0x1 0 0",
		"Destroy 0x400001",
	} {
		assert.Equal(t, 1, h.ws.called(call), call)
	}
	assert.Equal(t, 0, h.Len())
	for range ch {
	}
}

func TestSnapshotsArePublished(t *testing.T) {
	h := newHarness(t, appendOpts())
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.ws.titles[winA] = "a"
	h.adopt(winA, winB)

	var last Snapshot
	for len(ch) > 0 {
		last = <-ch
	}
	require.Len(t, last.Tabs, 2)
	assert.Equal(t, 0, last.Selected)
	assert.Equal(t, testContainer, last.Container)
	assert.True(t, last.Tabs[0].Selected)
	assert.Equal(t, "a", last.Tabs[0].Title)
	assert.Equal(t, last, h.Snapshot())
}

func TestRunAndDo(t *testing.T) {
	h := newHarness(t, appendOpts())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- h.Run(ctx) }()

	require.NoError(t, h.Do(ctx, func(s *Session) { s.Adopt(winA) }))
	var n int
	require.NoError(t, h.Do(ctx, func(s *Session) { n = s.Len() }))
	assert.Equal(t, 1, n)

	require.NoError(t, h.Do(ctx, func(s *Session) { s.Quit() }))
	assert.NoError(t, <-errc)
	assert.ErrorIs(t, h.Do(ctx, func(*Session) {}), ErrStopped)
}

func TestRunStopsOnEventError(t *testing.T) {
	h := newHarness(t, appendOpts())
	close(h.ws.events)

	assert.ErrorIs(t, h.Run(context.Background()), io.EOF)
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHarness(t, appendOpts())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, h.Run(ctx))
}
