// Command gps-simple reads one valid $GPRMC fix from a serial GPS receiver
// and prints speed, position or time, or sets the system clock from it.
//
// Usage:
//
//	gps-simple [-t] [-s] [-v] [-p] [-d] [-c config.yaml] [DEVICE]
//
// Exit status is 0 when a fix was acted upon, 1 when no valid sentence
// arrived and 2 on usage, device or clock errors.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"gps-simple/internal/clock"
	"gps-simple/internal/config"
	"gps-simple/internal/gps"
)

const version = "1.2"

const (
	exitOK    = 0
	exitNoFix = 1
	exitFatal = 2
)

type cli struct {
	Time     bool `short:"t" help:"Print the UTC date and time of the fix."`
	SetTime  bool `short:"s" help:"Set the system clock from the fix (implies --time)."`
	Velocity bool `short:"v" help:"Print ground speed in km/h."`
	Position bool `short:"p" help:"Print latitude and longitude."`
	Debug    bool `short:"d" help:"Echo received GPRMC sentences."`

	Config   string        `short:"c" type:"path" help:"YAML config file."`
	Baud     int           `help:"Line speed; 0 keeps the current tty settings."`
	Timeout  time.Duration `help:"Give up when the receiver is silent this long; 0 waits forever."`
	Checksum bool          `help:"Reject sentences with a missing or bad checksum."`

	Version kong.VersionFlag `help:"Show version and exit."`

	Device string `arg:"" optional:"" help:"Serial device path, 'auto', or 'sim' for a simulated receiver."`
}

var (
	exit                        = os.Exit
	openDevice                  = gps.OpenDevice
	clockSetter gps.ClockSetter = clock.System{}
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "gps-simple: ", 0)

	var c cli
	parser, err := kong.New(&c,
		kong.Name("gps-simple"),
		kong.Description("A lightweight reader for NMEA $GPRMC time, speed and position."),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
		kong.Vars{"version": version},
	)
	if err != nil {
		logger.Printf("cli init failed: %v", err)
		return exitFatal
	}
	if _, err := parser.Parse(args); err != nil {
		logger.Printf("%v", err)
		return exitFatal
	}

	cfg, err := loadConfig(c)
	if err != nil {
		logger.Printf("config load failed: %v", err)
		return exitFatal
	}

	device := c.Device
	if device == "" {
		device = cfg.GPS.Device
	}
	device, err = resolveDevice(device)
	if err != nil {
		logger.Printf("%v", err)
		return exitFatal
	}

	var dev gps.Device
	if device == simDevice {
		dev = newSimReceiver()
	} else {
		dev, err = openDevice(device, cfg.GPS.Baud, cfg.GPS.ReadTimeout)
	}
	if err != nil {
		logger.Printf("gps open failed device=%s baud=%d: %v", device, cfg.GPS.Baud, err)
		return exitFatal
	}
	defer func() {
		_ = dev.Close()
	}()

	modes := gps.Modes{
		Time:     c.Time,
		SetClock: c.SetTime,
		Velocity: c.Velocity,
		Position: c.Position,
		Debug:    c.Debug,
	}
	opts := gps.Options{
		LineBuffer:     cfg.GPS.LineBuffer,
		MaxAttempts:    cfg.GPS.MaxAttempts,
		Timeout:        cfg.GPS.ReadTimeout,
		VerifyChecksum: cfg.GPS.VerifyChecksum,
		RetryRate:      cfg.GPS.RetryRate,
	}
	if c.Debug {
		logger.Printf("gps device=%s baud=%d timeout=%s checksum=%t", device, cfg.GPS.Baud, opts.Timeout, opts.VerifyChecksum)
	}

	res, err := gps.Acquire(ctx, dev, opts, modes, stdout, clockSetter)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, gps.ErrNoValidSentence):
		fmt.Fprintln(stdout, "error no valid NMEA answer")
		if c.Debug {
			logger.Printf("attempts=%d unmatched=%d rejected=%d", res.Attempts, res.Unmatched, res.Rejected)
		}
		return exitNoFix
	case errors.Is(err, gps.ErrSourceSilent), errors.Is(err, gps.ErrDeviceClosed), errors.Is(err, context.Canceled):
		logger.Printf("%v", err)
		return exitNoFix
	default:
		logger.Printf("%v", err)
		return exitFatal
	}
}

// loadConfig reads the optional config file and lays the flags over it.
func loadConfig(c cli) (config.Config, error) {
	cfg := config.Default()
	if c.Config != "" {
		var err error
		if cfg, err = config.Load(c.Config); err != nil {
			return config.Config{}, err
		}
	}

	if c.Baud != 0 {
		cfg.GPS.Baud = c.Baud
	}
	if c.Timeout != 0 {
		cfg.GPS.ReadTimeout = c.Timeout
	}
	if c.Checksum {
		cfg.GPS.VerifyChecksum = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
