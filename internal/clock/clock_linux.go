//go:build linux

package clock

import (
	"time"

	"golang.org/x/sys/unix"
)

func settimeofday(t time.Time) error {
	tv := unix.NsecToTimeval(t.UnixNano())
	return unix.Settimeofday(&tv)
}
