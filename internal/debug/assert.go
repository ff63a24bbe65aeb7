package debug

import (
	"fmt"
	"runtime"
)

// Assert panics with the caller's location when truth is false. Use it for
// invariants that only a bug in this module can break (buffer cursors,
// registry bookkeeping), never for validating bytes that came off the wire.
//
// NOTE: location reporting is borrowed from
// https://github.com/golang/go/blob/eaa7d9ff86b35c72cc35bd7c14b349fa414c392f/src/go/types/errors.go#L18
func Assert(truth bool, format string, args ...any) {
	if truth {
		return
	}

	msg := "assertion failed"
	if format != "" {
		msg = fmt.Sprintf("%s: %s", msg, fmt.Sprintf(format, args...))
	}
	// panic recovery buries the assertion location in the middle of the
	// stack, so put it into the message
	if _, file, line, ok := runtime.Caller(1); ok {
		msg = fmt.Sprintf("%s:%d: %s", file, line, msg)
	}
	panic(msg)
}
