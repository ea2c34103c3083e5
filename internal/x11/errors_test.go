package x11

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestRecoverable(t *testing.T) {
	tests := []struct {
		name          string
		request, code byte
		want          bool
	}{
		{"bad window anywhere", opPutImage, codeWindow, true},
		{"bad window on map", 8, codeWindow, true},
		{"bad match on focus", opSetInputFocus, codeMatch, true},
		{"bad match on configure", opConfigureWindow, codeMatch, true},
		{"bad match elsewhere", opCopyArea, codeMatch, false},
		{"bad drawable on text", opPolyText8, codeDrawable, true},
		{"bad drawable on fill", opPolyFillRectangle, codeDrawable, true},
		{"bad drawable on segment", opPolySegment, codeDrawable, true},
		{"bad drawable on copy", opCopyArea, codeDrawable, true},
		{"bad drawable on image", opPutImage, codeDrawable, true},
		{"bad drawable on configure", opConfigureWindow, codeDrawable, false},
		{"bad access on grab button", opGrabButton, codeAccess, true},
		{"bad access on grab key", opGrabKey, codeAccess, true},
		{"bad access elsewhere", opSetInputFocus, codeAccess, false},
		{"bad alloc", opPutImage, xproto.BadAlloc, false},
	}
	for _, tt := range tests {
		if got := Recoverable(tt.request, tt.code); got != tt.want {
			t.Errorf("%s: Recoverable(%d, %d) = %t, want %t", tt.name, tt.request, tt.code, got, tt.want)
		}
	}
}

func TestCheck(t *testing.T) {
	if err := check(xproto.WindowError{MajorOpcode: opConfigureWindow}); err != nil {
		t.Errorf("BadWindow: %v", err)
	}
	if err := check(xproto.MatchError{MajorOpcode: opSetInputFocus}); err != nil {
		t.Errorf("BadMatch on focus: %v", err)
	}

	err := check(xproto.AllocError{MajorOpcode: opPutImage})
	var perr *ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("BadAlloc: got %v, want a ProtocolError", err)
	}
	if perr.Request != opPutImage || perr.Code != xproto.BadAlloc {
		t.Errorf("ProtocolError = %+v", perr)
	}
	if got, want := perr.Error(), "fatal error: request code=72, error code=11"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
