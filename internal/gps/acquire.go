package gps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"go.uber.org/ratelimit"
)

const (
	DefaultLineBuffer  = 124
	DefaultMaxAttempts = 20
	DefaultRetryRate   = 50
)

var (
	// ErrNoValidSentence is returned when every attempt was used up without
	// a valid fix being acted upon.
	ErrNoValidSentence = errors.New("no valid NMEA answer")

	// ErrSetClock wraps a failure to step the system clock.
	ErrSetClock = errors.New("set system clock")
)

// ClockSetter steps the system clock.
type ClockSetter interface {
	Set(t time.Time) error
}

// Modes selects what to do with a valid fix. It is read-only for the whole
// acquisition.
type Modes struct {
	Time     bool
	SetClock bool
	Velocity bool
	Position bool
	Debug    bool
}

// Normalize returns m with SetClock implying Time.
func (m Modes) Normalize() Modes {
	if m.SetClock {
		m.Time = true
	}
	return m
}

// Options controls the acquisition loop.
//
// Zero values select the defaults. Timeout 0 waits forever for each byte.
type Options struct {
	LineBuffer     int
	MaxAttempts    int
	Timeout        time.Duration
	VerifyChecksum bool

	// RetryRate caps transient device errors retried per second.
	RetryRate int
}

func (o Options) withDefaults() Options {
	if o.LineBuffer <= 0 {
		o.LineBuffer = DefaultLineBuffer
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.RetryRate <= 0 {
		o.RetryRate = DefaultRetryRate
	}
	if o.Timeout < 0 {
		o.Timeout = 0
	}
	return o
}

// Result reports what an acquisition saw.
type Result struct {
	// Attempts is the number of lines read.
	Attempts int
	// Unmatched lines did not carry the $GPRMC tag.
	Unmatched int
	// Rejected lines carried the tag but were short, void or failed the
	// checksum.
	Rejected int
	// Fix is the fix acted upon, nil if none.
	Fix *Fix
}

// Acquire reads lines from dev until one valid $GPRMC fix has been acted upon
// according to modes, or opts.MaxAttempts lines have been read.
//
// Output lines go to w:
//
//	Speed=41.48
//	LAT=48.1173 LON=11.5167
//	940323 12:35.19
//
// With modes.SetClock the fix time is written to clk instead of w.
//
// Transient device errors and unusable lines never leave Acquire. It returns
// ErrNoValidSentence on exhaustion, ErrSourceSilent on timeout,
// ErrDeviceClosed on hang-up and ErrSetClock if the clock could not be set.
// ctx is only checked between waits.
func Acquire(ctx context.Context, dev Device, opts Options, modes Modes, w io.Writer, clk ClockSetter) (Result, error) {
	var res Result
	if dev == nil {
		return res, fmt.Errorf("gps device is nil")
	}
	if ctx == nil {
		return res, fmt.Errorf("ctx is nil")
	}
	if w == nil {
		w = io.Discard
	}
	opts = opts.withDefaults()
	modes = modes.Normalize()

	rl := ratelimit.New(opts.RetryRate, ratelimit.WithoutSlack)
	buf := make([]byte, 0, opts.LineBuffer)

	for res.Attempts < opts.MaxAttempts {
		line, err := readLine(ctx, dev, buf[:0], opts.Timeout, rl)
		if err != nil {
			return res, err
		}
		res.Attempts++

		if !strings.HasPrefix(string(line), rmcTag) {
			res.Unmatched++
			continue
		}
		if modes.Debug {
			_, _ = w.Write(line)
		}

		fix, err := ParseRMC(string(line), opts.VerifyChecksum)
		if err == nil && !fix.Valid {
			err = fmt.Errorf("void fix")
		}
		if err != nil {
			res.Rejected++
			if modes.Debug {
				log.Printf("gps rejected attempt=%d: %v", res.Attempts, err)
			}
			continue
		}

		done, err := dispatch(w, fix, modes, clk)
		if err != nil {
			return res, err
		}
		if done {
			res.Fix = &fix
			return res, nil
		}
	}

	return res, fmt.Errorf("%w after %d attempts (unmatched=%d rejected=%d)", ErrNoValidSentence, res.Attempts, res.Unmatched, res.Rejected)
}

// readLine fills buf one byte at a time until '\n' or until it is full.
func readLine(ctx context.Context, dev Device, buf []byte, timeout time.Duration, rl ratelimit.Limiter) ([]byte, error) {
	for len(buf) < cap(buf) {
		if err := ctx.Err(); err != nil {
			return buf, err
		}

		if err := dev.WaitReadable(timeout); err != nil {
			if ferr := fatalReadErr(err, timeout); ferr != nil {
				return buf, ferr
			}
			rl.Take()
			continue
		}

		b, err := dev.ReadByte()
		if err != nil {
			if ferr := fatalReadErr(err, timeout); ferr != nil {
				return buf, ferr
			}
			rl.Take()
			continue
		}

		buf = append(buf, b)
		if b == '\n' {
			break
		}
	}
	return buf, nil
}

// fatalReadErr returns nil for transient errors.
func fatalReadErr(err error, timeout time.Duration) error {
	switch {
	case errors.Is(err, ErrSourceSilent):
		return fmt.Errorf("%w: nothing readable for %s", ErrSourceSilent, timeout)
	case errors.Is(err, io.EOF):
		return ErrDeviceClosed
	default:
		return nil
	}
}

// dispatch acts on a valid fix. Velocity, position and time may all be
// requested; each is served from the same fix.
func dispatch(w io.Writer, fix Fix, modes Modes, clk ClockSetter) (bool, error) {
	done := false

	if modes.Velocity {
		fmt.Fprintf(w, "Speed=%.2f\n", fix.SpeedKmph())
		done = true
	}

	if modes.Position {
		fmt.Fprintf(w, "LAT=%.4f LON=%.4f\n", fix.LatDeg, fix.LonDeg)
		done = true
	}

	if modes.Time {
		if modes.SetClock {
			if clk == nil {
				return false, fmt.Errorf("%w: no clock", ErrSetClock)
			}
			if err := clk.Set(fix.Time()); err != nil {
				return false, fmt.Errorf("%w: %v", ErrSetClock, err)
			}
		} else {
			fmt.Fprintf(w, "%02d%02d%02d %02d:%02d.%02d\n", fix.Year, fix.Month, fix.Day, fix.Hour, fix.Minute, fix.Second)
		}
		done = true
	}

	return done, nil
}
