package tabs

// These constants come from /usr/include/X11/keysymdef.h.

import (
	"fmt"
	"strings"
)

// Keysym is a logical key symbol.
type Keysym uint32

const (
	XKSpace     Keysym = 0x0020
	XKGrave     Keysym = 0x0060
	XKBackSpace Keysym = 0xff08
	XKTab       Keysym = 0xff09
	XKReturn    Keysym = 0xff0d
	XKEscape    Keysym = 0xff1b
	XKHome      Keysym = 0xff50
	XKLeft      Keysym = 0xff51
	XKUp        Keysym = 0xff52
	XKRight     Keysym = 0xff53
	XKDown      Keysym = 0xff54
	XKPrior     Keysym = 0xff55
	XKNext      Keysym = 0xff56
	XKEnd       Keysym = 0xff57
	XKF1        Keysym = 0xffbe
	XKF11       Keysym = 0xffc8
	XKF12       Keysym = 0xffc9
	XKShiftL    Keysym = 0xffe1
	XKShiftR    Keysym = 0xffe2
	XKControlL  Keysym = 0xffe3
	XKControlR  Keysym = 0xffe4
	XKCapsLock  Keysym = 0xffe5
	XKAltL      Keysym = 0xffe9
	XKAltR      Keysym = 0xffea
	XKSuperL    Keysym = 0xffeb
	XKSuperR    Keysym = 0xffec
	XKNumLock   Keysym = 0xff7f
	XKDelete    Keysym = 0xffff
)

var keysymNames = map[string]Keysym{
	"space":     XKSpace,
	"grave":     XKGrave,
	"BackSpace": XKBackSpace,
	"Tab":       XKTab,
	"Return":    XKReturn,
	"Escape":    XKEscape,
	"Home":      XKHome,
	"Left":      XKLeft,
	"Up":        XKUp,
	"Right":     XKRight,
	"Down":      XKDown,
	"Prior":     XKPrior,
	"Next":      XKNext,
	"End":       XKEnd,
	"Shift_L":   XKShiftL,
	"Shift_R":   XKShiftR,
	"Control_L": XKControlL,
	"Control_R": XKControlR,
	"Caps_Lock": XKCapsLock,
	"Alt_L":     XKAltL,
	"Alt_R":     XKAltR,
	"Super_L":   XKSuperL,
	"Super_R":   XKSuperR,
	"Num_Lock":  XKNumLock,
	"Delete":    XKDelete,
	"minus":     '-',
	"equal":     '=',
	"comma":     ',',
	"period":    '.',
	"slash":     '/',
	"semicolon": ';',
}

// KeysymFromName parses a keysym name such as "Return", "F11", "l" or "1".
func KeysymFromName(name string) (Keysym, error) {
	if k, ok := keysymNames[name]; ok {
		return k, nil
	}
	if len(name) == 1 && name[0] > 0x20 && name[0] < 0x7f {
		return Keysym(name[0]), nil
	}
	if strings.HasPrefix(name, "F") {
		var n int
		if _, err := fmt.Sscanf(name, "F%d", &n); err == nil && n >= 1 && n <= 35 {
			return XKF1 + Keysym(n-1), nil
		}
	}
	return 0, fmt.Errorf("unknown keysym %q", name)
}

// String returns the keysym's name, or its hex value when it has none.
func (k Keysym) String() string {
	for name, v := range keysymNames {
		if v == k {
			return name
		}
	}
	if k > 0x20 && k < 0x7f {
		return string(rune(k))
	}
	if k >= XKF1 && k < XKF1+35 {
		return fmt.Sprintf("F%d", k-XKF1+1)
	}
	return fmt.Sprintf("0x%04x", uint32(k))
}
