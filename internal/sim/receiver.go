// Package sim provides a simulated NMEA receiver for running without
// hardware.
package sim

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	nmea "github.com/adrianmo/go-nmea"
)

// Receiver is a gps.Device that emits one $GPRMC sentence per read cycle,
// starting with VoidFixes void sentences the way a receiver does while it
// acquires satellites. Each sentence is preceded by a $GPGSA line.
type Receiver struct {
	Track     OwnshipSim
	VoidFixes int

	// Now defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	pending []byte
	emitted int
	closed  bool
}

func (r *Receiver) WaitReadable(time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return io.EOF
	}
	return nil
}

func (r *Receiver) ReadByte() (byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, io.EOF
	}
	if len(r.pending) == 0 {
		r.fillLocked()
	}
	b := r.pending[0]
	r.pending = r.pending[1:]
	return b, nil
}

func (r *Receiver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *Receiver) fillLocked() {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	valid := r.emitted >= r.VoidFixes
	r.emitted++
	r.pending = append(r.pending, sentence("GPGSA,A,3,04,05,,09,12,,,24,,,,,2.5,1.3,2.1")...)
	r.pending = append(r.pending, RMC(r.Track, now().UTC(), valid)...)
}

// RMC formats a $GPRMC sentence, with checksum and CRLF, for the simulated
// position at now.
func RMC(s OwnshipSim, now time.Time, valid bool) string {
	lat, lon, trk := s.Position(now)
	status := "A"
	if !valid {
		status = "V"
	}
	ns, ew := "N", "E"
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if lon < 0 {
		ew, lon = "W", -lon
	}
	payload := fmt.Sprintf("GPRMC,%02d%02d%02d.%03d,%s,%s,%s,%s,%s,%.2f,%.2f,%02d%02d%02d,,",
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond()/int(time.Millisecond),
		status,
		formatNMEALatLon(lat, 2), ns,
		formatNMEALatLon(lon, 3), ew,
		s.GroundKt, trk,
		now.Day(), int(now.Month()), now.Year()%100,
	)
	return sentence(payload)
}

func sentence(payload string) string {
	return fmt.Sprintf("$%s*%s\r\n", payload, nmea.Checksum(payload))
}

// formatNMEALatLon renders unsigned decimal degrees as ddmm.mmmm
// (degDigits=2) or dddmm.mmmm (degDigits=3).
func formatNMEALatLon(v float64, degDigits int) string {
	deg := math.Floor(v)
	mins := (v - deg) * 60
	// Rounding can carry into a whole degree.
	if math.Round(mins*1e4) >= 60e4 {
		deg++
		mins = 0
	}
	return fmt.Sprintf("%0*d%07.4f", degDigits, int(deg), mins)
}
