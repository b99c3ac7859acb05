//go:build !linux

package clock

import (
	"fmt"
	"time"
)

func settimeofday(t time.Time) error {
	return fmt.Errorf("setting the system clock is not supported on this platform")
}
