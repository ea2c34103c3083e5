package tabs

import (
	"fmt"
	"strings"
)

// Action is one of the operations a key binding can trigger.
type Action int

const (
	ActionNone Action = iota
	// ActionFocusOnce makes the next adopted client take focus.
	ActionFocusOnce
	// ActionSpawn starts Arg's command, or the default command.
	ActionSpawn
	// ActionRotate focuses selected+Arg, or the previous tab for 0.
	ActionRotate
	// ActionMoveTab moves the selected tab by Arg slots.
	ActionMoveTab
	// ActionMove focuses the tab at absolute index Arg.
	ActionMove
	// ActionKillClient closes the selected client.
	ActionKillClient
	// ActionFocusUrgent focuses the next urgent tab.
	ActionFocusUrgent
	// ActionToggle flips the flag Arg refers to.
	ActionToggle
	// ActionFullscreen asks the window manager to fullscreen the container.
	ActionFullscreen
	// ActionShowBar shows (1) or hides (0) the tab bar.
	ActionShowBar
)

var actionNames = [...]string{
	ActionNone:        "none",
	ActionFocusOnce:   "focusonce",
	ActionSpawn:       "spawn",
	ActionRotate:      "rotate",
	ActionMoveTab:     "movetab",
	ActionMove:        "move",
	ActionKillClient:  "killclient",
	ActionFocusUrgent: "focusurgent",
	ActionToggle:      "toggle",
	ActionFullscreen:  "fullscreen",
	ActionShowBar:     "showbar",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Prefix reports whether lookup continues past a binding with this action.
// Focus-once only arms the next adoption, so it shares its key with spawn.
func (a Action) Prefix() bool {
	return a == ActionFocusOnce
}

// ParseAction parses an action name as used in configuration files.
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if strings.EqualFold(name, s) {
			return Action(i), nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

// Flag names a boolean session setting that actions may toggle.
type Flag int

const (
	FlagUrgentSwitch Flag = iota + 1
	FlagForeground
)

// ParseFlag parses a flag name.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(s) {
	case "urgentswitch", "urgent_switch":
		return FlagUrgentSwitch, nil
	case "foreground":
		return FlagForeground, nil
	}
	return 0, fmt.Errorf("unknown flag %q", s)
}

type argKind int

const (
	argNone argKind = iota
	argIndex
	argFlag
	argCommand
)

// Arg is a binding's literal argument: nothing, an integer, a flag
// reference or a command line.
type Arg struct {
	kind argKind
	n    int
	flag Flag
	argv []string
}

// NoArg is the empty argument.
var NoArg = Arg{}

// Index returns an integer argument.
func Index(i int) Arg {
	return Arg{kind: argIndex, n: i}
}

// FlagRef returns an argument referring to a session flag.
func FlagRef(f Flag) Arg {
	return Arg{kind: argFlag, flag: f}
}

// Command returns a command line argument.
func Command(argv ...string) Arg {
	return Arg{kind: argCommand, argv: append([]string(nil), argv...)}
}

// Int returns the integer value; 0 for non-integer arguments.
func (a Arg) Int() int {
	if a.kind != argIndex {
		return 0
	}
	return a.n
}

// Flag returns the referenced flag.
func (a Arg) Flag() (Flag, bool) {
	return a.flag, a.kind == argFlag
}

// Argv returns the command line, or nil.
func (a Arg) Argv() []string {
	if a.kind != argCommand {
		return nil
	}
	return append([]string(nil), a.argv...)
}

func (a Arg) String() string {
	switch a.kind {
	case argIndex:
		return fmt.Sprintf("%d", a.n)
	case argFlag:
		return fmt.Sprintf("flag(%d)", a.flag)
	case argCommand:
		return strings.Join(a.argv, " ")
	}
	return ""
}

// DefaultSelectTabProperty is the container property watched for remote
// tab selection.
const DefaultSelectTabProperty = "_TABBED_SELECT_TAB"

// SelectTabCommand lists the container's children in dmenu and writes the
// choice to prop. The container id comes from $XEMBED.
func SelectTabCommand(prop string) Arg {
	return Command("/bin/sh", "-c",
		"prop=\"`xwininfo -children -id $XEMBED | grep '^     0x' |"+
			"sed -e's@^ *\\(0x[0-9a-f]*\\) \"\\([^\"]*\\)\".*@\\1 \\2@' |"+
			"xargs -0 printf %b | dmenu -l 10 -w $XEMBED`\" &&"+
			"xprop -id $XEMBED -f $0 8s -set $0 \"$prop\"",
		prop)
}

const modKey = ControlMask

// DefaultKeys is the compiled-in key table, matched by keysym.
func DefaultKeys(selectTabProp string) []Binding {
	keys := []Binding{
		{modKey | ShiftMask, uint32(XKReturn), ActionFocusOnce, NoArg},
		{modKey | ShiftMask, uint32(XKReturn), ActionSpawn, NoArg},

		{modKey | ShiftMask, 'l', ActionRotate, Index(+1)},
		{modKey | ShiftMask, 'h', ActionRotate, Index(-1)},
		{modKey | ShiftMask, 'j', ActionMoveTab, Index(-1)},
		{modKey | ShiftMask, 'k', ActionMoveTab, Index(+1)},
		{modKey, uint32(XKTab), ActionRotate, Index(0)},

		{modKey, uint32(XKGrave), ActionSpawn, SelectTabCommand(selectTabProp)},
	}
	for i, k := range "1234567890" {
		keys = append(keys, Binding{modKey, uint32(k), ActionMove, Index(i)})
	}
	return append(keys,
		Binding{modKey, 'q', ActionKillClient, NoArg},
		Binding{modKey, 'u', ActionFocusUrgent, NoArg},
		Binding{modKey | ShiftMask, 'u', ActionToggle, FlagRef(FlagUrgentSwitch)},
		Binding{0, uint32(XKF11), ActionFullscreen, NoArg},
	)
}

// DefaultKeycodes is DefaultKeys for keycode matching on a pc105 layout.
func DefaultKeycodes(selectTabProp string) []Binding {
	keys := []Binding{
		{modKey | ShiftMask, 36, ActionFocusOnce, NoArg},
		{modKey | ShiftMask, 36, ActionSpawn, NoArg},
		{modKey | ShiftMask, 46, ActionRotate, Index(+1)},
		{modKey | ShiftMask, 43, ActionRotate, Index(-1)},
		{modKey | ShiftMask, 44, ActionMoveTab, Index(-1)},
		{modKey | ShiftMask, 45, ActionMoveTab, Index(+1)},
		{modKey, 23, ActionRotate, Index(0)},
		{modKey, 49, ActionSpawn, SelectTabCommand(selectTabProp)},
	}
	for i := 0; i < 10; i++ {
		keys = append(keys, Binding{modKey, uint32(10 + i), ActionMove, Index(i)})
	}
	return append(keys,
		Binding{modKey, 24, ActionKillClient, NoArg},
		Binding{modKey, 30, ActionFocusUrgent, NoArg},
		Binding{modKey | ShiftMask, 30, ActionToggle, FlagRef(FlagUrgentSwitch)},
		Binding{0, 95, ActionFullscreen, NoArg},
	)
}

// HideTabsKeys are the press bindings that reveal a hidden bar while the
// modifier combination is held.
func HideTabsKeys() []Binding {
	return []Binding{
		{modKey, uint32(XKShiftL), ActionShowBar, Index(1)},
		{ShiftMask, uint32(XKControlL), ActionShowBar, Index(1)},
	}
}

// HideTabsReleases hide the bar again when the combination is released.
func HideTabsReleases() []Binding {
	return []Binding{
		{modKey | ShiftMask, uint32(XKShiftL), ActionShowBar, Index(0)},
		{modKey | ShiftMask, uint32(XKControlL), ActionShowBar, Index(0)},
	}
}

// HideTabsKeycodes is HideTabsKeys for keycode matching.
func HideTabsKeycodes() []Binding {
	return []Binding{
		{modKey, 50, ActionShowBar, Index(1)},
		{ShiftMask, 37, ActionShowBar, Index(1)},
	}
}

// HideTabsReleaseKeycodes is HideTabsReleases for keycode matching.
func HideTabsReleaseKeycodes() []Binding {
	return []Binding{
		{modKey | ShiftMask, 50, ActionShowBar, Index(0)},
		{modKey | ShiftMask, 37, ActionShowBar, Index(0)},
	}
}
