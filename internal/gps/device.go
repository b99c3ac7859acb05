package gps

import (
	"errors"
	"time"
)

var (
	// ErrSourceSilent is returned when no byte became readable within the
	// configured timeout.
	ErrSourceSilent = errors.New("gps source silent")

	// ErrDeviceClosed is returned when the device hangs up or reports EOF.
	ErrDeviceClosed = errors.New("gps device closed")

	errNotReady  = errors.New("gps device not ready")
	errShortRead = errors.New("gps short read")
)

// Device is a byte stream that must be polled for readiness before each read.
//
// WaitReadable blocks until a byte can be read. A timeout of zero waits
// forever. It returns ErrSourceSilent when the timeout expires and io.EOF
// when the device has hung up; any other error is transient.
//
// ReadByte reads exactly one byte. io.EOF means the device has gone away;
// any other error (including a would-block or a short read) is transient.
type Device interface {
	WaitReadable(timeout time.Duration) error
	ReadByte() (byte, error)
	Close() error
}

// OpenDevice opens a serial GNSS receiver for reading.
//
// baud == 0 leaves the line settings as the system configured them.
// timeout is only used by platforms whose readiness wait is fixed at open.
func OpenDevice(path string, baud int, timeout time.Duration) (Device, error) {
	return openSerial(path, baud, timeout)
}
