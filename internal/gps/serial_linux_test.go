//go:build linux

package gps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// openPTY returns the master fd, the slave path and a close func for a fresh
// pseudo terminal. The slave keeps the kernel's default canonical settings.
func openPTY(t *testing.T) (int, string, func()) {
	t.Helper()
	master, err := unix.Open("/dev/ptmx", unix.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	var once sync.Once
	closeMaster := func() { once.Do(func() { _ = unix.Close(master) }) }
	t.Cleanup(closeMaster)

	if err := unix.IoctlSetPointerInt(master, unix.TIOCSPTLCK, 0); err != nil {
		t.Fatalf("unlock pty: %v", err)
	}
	n, err := unix.IoctlGetInt(master, unix.TIOCGPTN)
	if err != nil {
		t.Fatalf("pty number: %v", err)
	}
	return master, fmt.Sprintf("/dev/pts/%d", n), closeMaster
}

func TestSerialDevice_EOFCharIsNotClosure(t *testing.T) {
	master, path, _ := openPTY(t)

	dev, err := OpenDevice(path, 0, 0)
	if err != nil {
		t.Fatalf("OpenDevice(%s) error: %v", path, err)
	}
	defer dev.Close()

	// VEOF (^D) on an empty canonical line reads as 0 bytes.
	if _, err := unix.Write(master, []byte("\x04"+refRMC)); err != nil {
		t.Fatalf("write master: %v", err)
	}

	opts := testOpts
	opts.Timeout = 2 * time.Second
	var out bytes.Buffer
	if _, err := Acquire(context.Background(), dev, opts, Modes{Position: true}, &out, nil); err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	if out.String() != "LAT=48.1173 LON=11.5167\n" {
		t.Fatalf("output=%q", out.String())
	}
}

func TestSerialDevice_HangUp(t *testing.T) {
	_, path, closeMaster := openPTY(t)

	dev, err := OpenDevice(path, 0, 0)
	if err != nil {
		t.Fatalf("OpenDevice(%s) error: %v", path, err)
	}
	defer dev.Close()

	closeMaster()

	opts := testOpts
	opts.Timeout = 2 * time.Second
	_, err = Acquire(context.Background(), dev, opts, Modes{Position: true}, nil, nil)
	if !errors.Is(err, ErrDeviceClosed) {
		t.Fatalf("err=%v want ErrDeviceClosed", err)
	}
}
