package main

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.bug.st/serial"

	"gps-simple/internal/sim"
)

// simDevice selects the built-in simulated receiver instead of a tty.
const simDevice = "sim"

var listPorts = serial.GetPortsList

// resolveDevice returns name unless it is empty or "auto", in which case the
// first USB serial receiver found is used.
func resolveDevice(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name != "" && name != "auto" {
		return name, nil
	}
	if p := autoDetectDevice(); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("gps auto-detect failed: no /dev/ttyACM* or /dev/ttyUSB* found")
}

func autoDetectDevice() string {
	if ports, err := listPorts(); err == nil && len(ports) > 0 {
		sort.Strings(ports)
		for _, prefix := range []string{"/dev/ttyACM", "/dev/ttyUSB"} {
			for _, p := range ports {
				if strings.HasPrefix(p, prefix) {
					return p
				}
			}
		}
		// Linux always lists the on-board ttyS* UARTs; elsewhere any port
		// will do.
		if runtime.GOOS != "linux" {
			return ports[0]
		}
	}

	// Keep it intentionally tiny and predictable.
	candidates := []string{}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyACM%d", i))
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyUSB%d", i))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// newSimReceiver circles Munich at 22.4 kt after two void fixes.
func newSimReceiver() *sim.Receiver {
	return &sim.Receiver{
		Track: sim.OwnshipSim{
			CenterLatDeg: 48.1173,
			CenterLonDeg: 11.5167,
			GroundKt:     22.4,
			RadiusNm:     0.5,
			Period:       120 * time.Second,
		},
		VoidFixes: 2,
	}
}
