//go:build linux

package gps

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/sys/unix"
)

type serialDevice struct {
	fd int
}

func openSerial(path string, baud int, _ time.Duration) (Device, error) {
	flag := unix.O_RDWR | unix.O_NOCTTY | unix.O_NONBLOCK
	fd, err := unix.Open(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Best-effort: if anything below fails, close fd.
	ok := false
	defer func() {
		if !ok {
			_ = unix.Close(fd)
		}
	}()

	if baud > 0 {
		if err := setRaw(fd, baud); err != nil {
			return nil, fmt.Errorf("configure %s: %w", path, err)
		}
	}

	ok = true
	return &serialDevice{fd: fd}, nil
}

func setRaw(fd int, baud int) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}

	spd, err := baudToUnix(baud)
	if err != nil {
		return err
	}

	// Raw-ish mode (minimal line processing) for NMEA.
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8

	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	t.Cflag &^= unix.CBAUD
	t.Cflag |= spd
	t.Ispeed = spd
	t.Ospeed = spd

	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}

func (d *serialDevice) WaitReadable(timeout time.Duration) error {
	ms := -1
	if timeout > 0 {
		ms = int(timeout / time.Millisecond)
		if ms == 0 {
			ms = 1
		}
	}

	fds := []unix.PollFd{{Fd: int32(d.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSourceSilent
	}

	// A hang-up may be reported together with POLLIN. POLLERR and POLLNVAL
	// are retried like any other readiness failure.
	re := fds[0].Revents
	switch {
	case re&unix.POLLHUP != 0:
		return io.EOF
	case re&unix.POLLIN != 0:
		return nil
	default:
		return errNotReady
	}
}

func (d *serialDevice) ReadByte() (byte, error) {
	var b [1]byte
	n, err := unix.Read(d.fd, b[:])
	if err != nil {
		return 0, err
	}
	// A canonical-mode tty returns 0 for a VEOF byte on the line.
	if n == 0 {
		return 0, errShortRead
	}
	return b[0], nil
}

func (d *serialDevice) Close() error {
	return unix.Close(d.fd)
}

func baudToUnix(baud int) (uint32, error) {
	switch baud {
	case 4800:
		return unix.B4800, nil
	case 9600:
		return unix.B9600, nil
	case 19200:
		return unix.B19200, nil
	case 38400:
		return unix.B38400, nil
	case 57600:
		return unix.B57600, nil
	case 115200:
		return unix.B115200, nil
	default:
		return 0, fmt.Errorf("unsupported baud %d", baud)
	}
}
