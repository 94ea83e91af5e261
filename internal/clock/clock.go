package clock

import "time"

// NowFunc returns current time. Tests pin it for deterministic timestamps.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }
