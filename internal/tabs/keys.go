package tabs

import (
	"fmt"
	"strconv"
	"strings"
)

// Modifier bits of a key event's state.
const (
	ShiftMask   uint16 = 1 << 0
	LockMask    uint16 = 1 << 1
	ControlMask uint16 = 1 << 2
	Mod1Mask    uint16 = 1 << 3
	Mod2Mask    uint16 = 1 << 4
	Mod3Mask    uint16 = 1 << 5
	Mod4Mask    uint16 = 1 << 6
	Mod5Mask    uint16 = 1 << 7
)

// CleanMask strips Caps Lock and Num Lock from mask.
func CleanMask(mask, numLock uint16) uint16 {
	return mask &^ (numLock | LockMask)
}

// LockCombinations are the lock-modifier states a grab must cover so that
// a binding fires regardless of Caps Lock and Num Lock.
func LockCombinations(numLock uint16) [4]uint16 {
	return [4]uint16{0, LockMask, numLock, numLock | LockMask}
}

// KeyMatch selects how bindings identify keys.
type KeyMatch int

const (
	// MatchKeysym compares the keysym in column 0 of the pressed key.
	MatchKeysym KeyMatch = iota
	// MatchKeycode compares raw keycodes, independent of layout.
	MatchKeycode
)

// ParseKeyMatch parses "keysym" or "keycode".
func ParseKeyMatch(s string) (KeyMatch, error) {
	switch strings.ToLower(s) {
	case "", "keysym":
		return MatchKeysym, nil
	case "keycode":
		return MatchKeycode, nil
	}
	return 0, fmt.Errorf("invalid key match %q (use keysym or keycode)", s)
}

// Binding ties a modifier mask and key to an action.
type Binding struct {
	Mods   uint16
	Key    uint32
	Action Action
	Arg    Arg
}

// Matches reports whether the binding fires for a key with the given
// keycode, keysym and state.
func (b Binding) Matches(m KeyMatch, code Keycode, sym Keysym, state, numLock uint16) bool {
	if m == MatchKeycode {
		if uint32(code) != b.Key {
			return false
		}
	} else if uint32(sym) != b.Key {
		return false
	}
	return CleanMask(b.Mods, numLock) == CleanMask(state, numLock)
}

// KeyDispatcher looks key events up in an immutable binding table.
type KeyDispatcher struct {
	match    KeyMatch
	bindings []Binding
}

// NewKeyDispatcher copies bindings into a new dispatcher.
func NewKeyDispatcher(match KeyMatch, bindings []Binding) *KeyDispatcher {
	return &KeyDispatcher{
		match:    match,
		bindings: append([]Binding(nil), bindings...),
	}
}

// Len returns the number of bindings.
func (d *KeyDispatcher) Len() int {
	return len(d.bindings)
}

// Bindings returns a copy of the table.
func (d *KeyDispatcher) Bindings() []Binding {
	return append([]Binding(nil), d.bindings...)
}

// lookup returns the first binding matching the event.
func (d *KeyDispatcher) lookup(code Keycode, sym Keysym, state, numLock uint16) (Binding, bool) {
	i := d.next(0, code, sym, state, numLock)
	if i < 0 {
		return Binding{}, false
	}
	return d.bindings[i], true
}

// Resolve returns the bindings an event triggers: the first match, preceded
// by any prefix bindings (see Action.Prefix) declared before it.
func (d *KeyDispatcher) Resolve(code Keycode, sym Keysym, state, numLock uint16) []Binding {
	var out []Binding
	for i := d.next(0, code, sym, state, numLock); i >= 0; i = d.next(i+1, code, sym, state, numLock) {
		out = append(out, d.bindings[i])
		if !d.bindings[i].Action.Prefix() {
			break
		}
	}
	return out
}

func (d *KeyDispatcher) next(from int, code Keycode, sym Keysym, state, numLock uint16) int {
	for i := from; i < len(d.bindings); i++ {
		if d.bindings[i].Matches(d.match, code, sym, state, numLock) {
			return i
		}
	}
	return -1
}

// Keycodes returns the keycodes b must be grabbed on.
func (d *KeyDispatcher) Keycodes(ws WindowSystem, b Binding) []Keycode {
	if d.match == MatchKeycode {
		return []Keycode{Keycode(b.Key)}
	}
	return ws.Keycodes(Keysym(b.Key))
}

var modifierNames = map[string]uint16{
	"shift":   ShiftMask,
	"lock":    LockMask,
	"ctrl":    ControlMask,
	"control": ControlMask,
	"mod1":    Mod1Mask,
	"alt":     Mod1Mask,
	"mod2":    Mod2Mask,
	"mod3":    Mod3Mask,
	"mod4":    Mod4Mask,
	"super":   Mod4Mask,
	"mod5":    Mod5Mask,
}

// ParseModifiers parses a "+"-separated modifier list such as "ctrl+shift".
// The empty string is no modifiers.
func ParseModifiers(s string) (uint16, error) {
	var mask uint16
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	for _, part := range strings.Split(s, "+") {
		m, ok := modifierNames[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
		mask |= m
	}
	return mask, nil
}

// ParseKey parses a binding key: a keysym name, or a decimal keycode when
// matching by keycode.
func ParseKey(s string, m KeyMatch) (uint32, error) {
	if m == MatchKeycode {
		n, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid keycode %q: %w", s, err)
		}
		return uint32(n), nil
	}
	sym, err := KeysymFromName(s)
	if err != nil {
		return 0, err
	}
	return uint32(sym), nil
}
