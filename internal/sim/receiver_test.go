package sim

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"gps-simple/internal/gps"
)

var munich = OwnshipSim{
	CenterLatDeg: 48.1173,
	CenterLonDeg: 11.5167,
	GroundKt:     22.4,
	RadiusNm:     0.5,
	Period:       120 * time.Second,
}

func TestRMC_ParsesBack(t *testing.T) {
	now := time.Date(2024, 3, 23, 12, 35, 19, 250*int(time.Millisecond), time.UTC)
	line := RMC(munich, now, true)
	if !strings.HasSuffix(line, "\r\n") {
		t.Fatalf("line=%q missing CRLF", line)
	}

	fix, err := gps.ParseRMC(line, true)
	if err != nil {
		t.Fatalf("ParseRMC(%q) error: %v", line, err)
	}
	if !fix.Valid {
		t.Fatalf("fix not valid")
	}
	if got := fix.Time(); !got.Equal(now.Truncate(time.Second)) {
		t.Fatalf("time=%v want %v", got, now.Truncate(time.Second))
	}
	lat, lon, trk := munich.Position(now)
	if math.Abs(fix.LatDeg-lat) > 1e-5 || math.Abs(fix.LonDeg-lon) > 1e-5 {
		t.Fatalf("pos=%f,%f want %f,%f", fix.LatDeg, fix.LonDeg, lat, lon)
	}
	if math.Abs(fix.CourseDeg-trk) > 0.01 || fix.SpeedKt != 22.4 {
		t.Fatalf("speed=%v course=%v want 22.4 %v", fix.SpeedKt, fix.CourseDeg, trk)
	}
}

func TestRMC_SouthWest(t *testing.T) {
	s := OwnshipSim{CenterLatDeg: -33.8688, CenterLonDeg: -151.2093, RadiusNm: 0.1}
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	line := RMC(s, now, true)
	if !strings.Contains(line, ",S,") || !strings.Contains(line, ",W,") {
		t.Fatalf("line=%q want S and W hemispheres", line)
	}
	fix, err := gps.ParseRMC(line, true)
	if err != nil {
		t.Fatalf("ParseRMC(%q) error: %v", line, err)
	}
	if fix.LatDeg >= 0 || fix.LonDeg >= 0 {
		t.Fatalf("pos=%f,%f want negative", fix.LatDeg, fix.LonDeg)
	}
}

func TestRMC_Void(t *testing.T) {
	line := RMC(munich, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), false)
	fix, err := gps.ParseRMC(line, true)
	if err != nil {
		t.Fatalf("ParseRMC(%q) error: %v", line, err)
	}
	if fix.Valid {
		t.Fatalf("void sentence parsed as valid")
	}
}

func TestFormatNMEALatLon(t *testing.T) {
	cases := []struct {
		v         float64
		degDigits int
		want      string
	}{
		{48.1173, 2, "4807.0380"},
		{11.5167, 3, "01131.0020"},
		{0, 2, "0000.0000"},
		{9.99999999, 3, "01000.0000"},
	}
	for _, tc := range cases {
		if got := formatNMEALatLon(tc.v, tc.degDigits); got != tc.want {
			t.Fatalf("formatNMEALatLon(%v,%d)=%q want %q", tc.v, tc.degDigits, got, tc.want)
		}
	}
}

func TestReceiver_AcquireSkipsVoidFixes(t *testing.T) {
	now := time.Date(2024, 3, 23, 12, 35, 19, 0, time.UTC)
	r := &Receiver{
		Track:     munich,
		VoidFixes: 2,
		Now:       func() time.Time { return now },
	}
	var out bytes.Buffer
	res, err := gps.Acquire(context.Background(), r, gps.Options{}, gps.Modes{Time: true}, &out, nil)
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	if got := out.String(); got != "240323 12:35.19\n" {
		t.Fatalf("out=%q", got)
	}
	// Each fix is preceded by a GSA line.
	if res.Attempts != 6 || res.Unmatched != 3 || res.Rejected != 2 {
		t.Fatalf("res=%+v want attempts=6 unmatched=3 rejected=2", res)
	}
}

func TestReceiver_Close(t *testing.T) {
	r := &Receiver{Track: munich}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := r.WaitReadable(0); err == nil {
		t.Fatalf("WaitReadable after Close: want error")
	}
	if _, err := r.ReadByte(); err == nil {
		t.Fatalf("ReadByte after Close: want error")
	}
}
