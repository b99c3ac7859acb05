// Package clock steps the host's real-time clock.
package clock

import "time"

// System sets the host clock. It satisfies gps.ClockSetter.
//
// Only whole seconds are written; setting the clock needs root or
// CAP_SYS_TIME.
type System struct{}

var setSystemTime = settimeofday

// Set steps the system clock to t.
func (System) Set(t time.Time) error {
	return setSystemTime(t.Truncate(time.Second))
}
