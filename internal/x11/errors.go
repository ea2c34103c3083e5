package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Core protocol request opcodes that may fail harmlessly.
const (
	opConfigureWindow   byte = 12
	opGrabButton        byte = 28
	opGrabKey           byte = 33
	opSetInputFocus     byte = 42
	opCopyArea          byte = 62
	opPolySegment       byte = 66
	opPolyFillRectangle byte = 70
	opPutImage          byte = 72
	opPolyText8         byte = 74
)

// Core protocol error codes.
const (
	codeWindow   byte = 3
	codeMatch    byte = 8
	codeDrawable byte = 9
	codeAccess   byte = 10
)

// ProtocolError is an X error the session cannot recover from.
type ProtocolError struct {
	Request byte
	Code    byte
	Err     xgb.Error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("fatal error: request code=%d, error code=%d", e.Request, e.Code)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// Recoverable reports whether an error with the given code in reply to the
// given request is expected while clients come and go.
func Recoverable(request, code byte) bool {
	switch code {
	case codeWindow:
		return true
	case codeMatch:
		return request == opSetInputFocus || request == opConfigureWindow
	case codeDrawable:
		switch request {
		case opPolyText8, opPolyFillRectangle, opPolySegment, opCopyArea, opPutImage:
			return true
		}
	case codeAccess:
		return request == opGrabButton || request == opGrabKey
	}
	return false
}

// classify extracts the failing request and the error code from err.
// ok is false for error types that carry no request opcode.
func classify(err xgb.Error) (request, code byte, ok bool) {
	switch e := err.(type) {
	case xproto.WindowError:
		return e.MajorOpcode, codeWindow, true
	case xproto.MatchError:
		return e.MajorOpcode, codeMatch, true
	case xproto.DrawableError:
		return e.MajorOpcode, codeDrawable, true
	case xproto.AccessError:
		return e.MajorOpcode, codeAccess, true
	case xproto.RequestError:
		return e.MajorOpcode, xproto.BadRequest, true
	case xproto.ValueError:
		return e.MajorOpcode, xproto.BadValue, true
	case xproto.AtomError:
		return e.MajorOpcode, xproto.BadAtom, true
	case xproto.PixmapError:
		return e.MajorOpcode, xproto.BadPixmap, true
	case xproto.GContextError:
		return e.MajorOpcode, xproto.BadGContext, true
	case xproto.AllocError:
		return e.MajorOpcode, xproto.BadAlloc, true
	case xproto.IDChoiceError:
		return e.MajorOpcode, xproto.BadIDChoice, true
	case xproto.NameError:
		return e.MajorOpcode, xproto.BadName, true
	case xproto.LengthError:
		return e.MajorOpcode, xproto.BadLength, true
	case xproto.ImplementationError:
		return e.MajorOpcode, xproto.BadImplementation, true
	}
	return 0, 0, false
}

// check returns nil for recoverable errors and a *ProtocolError otherwise.
func check(err xgb.Error) error {
	request, code, ok := classify(err)
	if ok && Recoverable(request, code) {
		return nil
	}
	return &ProtocolError{Request: request, Code: code, Err: err}
}
