//go:build !linux

package gps

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// portDevice reads through a tarm/serial port. The port has no separate
// readiness call, so WaitReadable reads the byte and ReadByte hands it over.
type portDevice struct {
	port    *serial.Port
	timeout time.Duration

	b    [1]byte
	have bool
}

func openSerial(path string, baud int, timeout time.Duration) (Device, error) {
	if baud == 0 {
		baud = 9600
	}
	c := &serial.Config{Name: path, Baud: baud, ReadTimeout: timeout}
	port, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &portDevice{port: port, timeout: timeout}, nil
}

func (d *portDevice) WaitReadable(_ time.Duration) error {
	if d.have {
		return nil
	}
	n, err := d.port.Read(d.b[:])
	if n == 1 {
		d.have = true
		return nil
	}
	if d.timeout > 0 && (err == nil || err == io.EOF) {
		return ErrSourceSilent
	}
	if err == nil {
		return errNotReady
	}
	return err
}

func (d *portDevice) ReadByte() (byte, error) {
	if !d.have {
		return 0, errNotReady
	}
	d.have = false
	return d.b[0], nil
}

func (d *portDevice) Close() error {
	return d.port.Close()
}
