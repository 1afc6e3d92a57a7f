package xtime

import (
	"sync/atomic"
	"time"
)

// nowFunc is swappable in tests via SetNow.
var nowFunc atomic.Pointer[func() time.Time]

// Now returns the current time, or the test override if one is set.
func Now() time.Time {
	if fn := nowFunc.Load(); fn != nil {
		return (*fn)()
	}

	return time.Now()
}

// SetNow overrides Now for tests. Returns a restore function.
func SetNow(fn func() time.Time) func() {
	nowFunc.Store(&fn)

	return func() {
		nowFunc.Store(nil)
	}
}
