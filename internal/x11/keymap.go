package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/bryanchriswhite/FocusTabs/internal/tabs"
)

// keymap is the keyboard and modifier mapping as last read from the server.
type keymap struct {
	min  xproto.Keycode
	per  int
	syms []xproto.Keysym

	modsPer int
	mods    []xproto.Keycode
}

func newKeymap(min xproto.Keycode, km *xproto.GetKeyboardMappingReply, mm *xproto.GetModifierMappingReply) keymap {
	m := keymap{min: min}
	if km != nil {
		m.per, m.syms = int(km.KeysymsPerKeycode), km.Keysyms
	}
	if mm != nil {
		m.modsPer, m.mods = int(mm.KeycodesPerModifier), mm.Keycodes
	}
	return m
}

// keysym returns the first keysym of kc, or 0 when kc is not mapped.
func (m keymap) keysym(kc xproto.Keycode) tabs.Keysym {
	if m.per == 0 || kc < m.min {
		return 0
	}
	i := (int(kc) - int(m.min)) * m.per
	if i >= len(m.syms) {
		return 0
	}
	return tabs.Keysym(m.syms[i])
}

func (m keymap) keycodes(sym tabs.Keysym) []tabs.Keycode {
	if m.per == 0 {
		return nil
	}
	var out []tabs.Keycode
	for i := 0; i*m.per < len(m.syms); i++ {
		kc := xproto.Keycode(int(m.min) + i)
		if m.keysym(kc) == sym {
			out = append(out, tabs.Keycode(kc))
		}
	}
	return out
}

// numLockMask is the modifier bit Num_Lock is mapped to, or 0.
func (m keymap) numLockMask() uint16 {
	var mask uint16
	for i := 0; i < 8; i++ {
		for j := 0; j < m.modsPer; j++ {
			n := i*m.modsPer + j
			if n >= len(m.mods) {
				return mask
			}
			if kc := m.mods[n]; kc != 0 && m.keysym(kc) == tabs.XKNumLock {
				mask = 1 << uint(i)
			}
		}
	}
	return mask
}

// loadKeymap reads both mappings from the server and installs them.
func (b *Backend) loadKeymap() {
	km, mm := b.fetchMaps()
	b.keyLck.Lock()
	b.keys = newKeymap(b.minKeycode, km, mm)
	if b.xu != nil {
		keybind.KeyMapSet(b.xu, km)
		keybind.ModMapSet(b.xu, mm)
	}
	mask := b.keys.numLockMask()
	b.keyLck.Unlock()
	b.numLock.Store(uint32(mask))
}

func (b *Backend) keysym(kc xproto.Keycode) tabs.Keysym {
	b.keyLck.RLock()
	defer b.keyLck.RUnlock()
	return b.keys.keysym(kc)
}

// refreshMappings reloads the mappings after the server announced a change.
func (b *Backend) refreshMappings(e xproto.MappingNotifyEvent) {
	if e.Request == xproto.MappingPointer {
		return
	}
	b.loadKeymap()
	b.log.Debug().Uint32("numlock", b.numLock.Load()).Msg("Keyboard mapping changed")
}
