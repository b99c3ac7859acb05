package sim

import (
	"math"
	"testing"
	"time"
)

func TestOwnshipSim_Position_Invariants(t *testing.T) {
	s := OwnshipSim{
		CenterLatDeg: 45.0,
		CenterLonDeg: -122.0,
		RadiusNm:     1.0,
		Period:       60 * time.Second,
	}

	now := time.Date(2025, 12, 20, 19, 0, 0, 0, time.UTC)
	lat, lon, trk := s.Position(now)

	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		t.Fatalf("lat invalid: %v", lat)
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		t.Fatalf("lon invalid: %v", lon)
	}
	if trk < 0 || trk >= 360 {
		t.Fatalf("track out of range: %v", trk)
	}

	radiusDeg := s.RadiusNm / 60.0
	if math.Abs(lat-s.CenterLatDeg) > radiusDeg*1.01 {
		t.Fatalf("lat offset too large: got %f want <= %f", math.Abs(lat-s.CenterLatDeg), radiusDeg)
	}
	// Lon offset is scaled by cos(lat).
	maxLonDeg := radiusDeg / math.Cos(s.CenterLatDeg*math.Pi/180.0)
	if math.Abs(lon-s.CenterLonDeg) > maxLonDeg*1.01 {
		t.Fatalf("lon offset too large: got %f want <= %f", math.Abs(lon-s.CenterLonDeg), maxLonDeg)
	}
}

func TestOwnshipSim_Position_Deterministic(t *testing.T) {
	s := OwnshipSim{CenterLatDeg: -2.03, CenterLonDeg: 33.86, RadiusNm: 0.5, Period: 90 * time.Second}
	now := time.Date(2013, 11, 1, 9, 4, 10, 0, time.UTC)
	lat1, lon1, trk1 := s.Position(now)
	lat2, lon2, trk2 := s.Position(now)
	if lat1 != lat2 || lon1 != lon2 || trk1 != trk2 {
		t.Fatalf("position not deterministic")
	}
	// One full period later we are back at the same point.
	lat3, lon3, _ := s.Position(now.Add(s.Period))
	if math.Abs(lat3-lat1) > 1e-9 || math.Abs(lon3-lon1) > 1e-9 {
		t.Fatalf("track not periodic: %f,%f vs %f,%f", lat1, lon1, lat3, lon3)
	}
}
