package utils

import (
	"fmt"
	"runtime/debug"
)

// GoSafe runs fn in a goroutine and recovers from panics, reporting them to onPanic when set.
func GoSafe(fn func(), onPanic ...func(err error)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic recovered: %v\n%s", r, debug.Stack())
				for _, h := range onPanic {
					h(err)
				}
			}
		}()
		fn()
	}()
}

// Recover runs fn synchronously and converts a panic into an error.
func Recover(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()
	return fn()
}
