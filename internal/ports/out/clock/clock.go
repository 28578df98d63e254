package clock

import "time"

// Clock provides time to the application. An interface keeps record
// timestamps deterministic in tests via a controllable implementation.
type Clock interface {
	Now() time.Time
}
