// File: dispatch/isolate.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Failure-isolation wrapper around user hooks. Programming defects
// (runtime.Error panics: nil derefs, out-of-bounds, bad type
// assertions) propagate uncaught; everything else is converted into a
// recoverable failure with captured stack context.

package dispatch

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// isolate runs fn and classifies its outcome. A returned error or a
// non-runtime panic yields (failure, stack); a runtime.Error panic is
// re-raised so it reaches the process fault handler.
func isolate(fn func() error) (failure error, stack []byte) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, defect := r.(runtime.Error); defect {
			panic(r)
		}
		stack = debug.Stack()
		if err, ok := r.(error); ok {
			failure = err
			return
		}
		failure = fmt.Errorf("hook panic: %v", r)
	}()
	if failure = fn(); failure != nil {
		stack = debug.Stack()
	}
	return
}
