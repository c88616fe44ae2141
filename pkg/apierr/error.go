package apierr

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/taskflow-labs/taskflow/pkg/hlog"
)

type Error struct {
	Code  Code
	Wire  string // wire code for the error envelope; empty means Code.WireCode()
	Msg   string // returned to the client alongside the wire code
	Err   error  // underlying error, kept for logs only
	Stack string
}

func NewError(code Code, msg string, underlying error) *Error {
	err := &Error{
		Code: code,
		Msg:  msg,
		Err:  underlying,
	}
	if hlog.HTTPStatusToLevel(code.HTTPCode()) == hlog.LevelError {
		stackTrace := make([]byte, 2048)
		n := runtime.Stack(stackTrace, false)
		err.Stack = string(stackTrace[0:n])
	}
	return err
}

// WithWire overrides the wire code placed in the error envelope.
func (e *Error) WithWire(wire string) *Error {
	e.Wire = wire
	return e
}

func (e *Error) WireCode() string {
	if e.Wire != "" {
		return e.Wire
	}
	return e.Code.WireCode()
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Code.String(), e.Msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code.String(), e.Msg, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

func IsCode(err error, code Code) bool {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr.Code == code
	}
	return false
}
