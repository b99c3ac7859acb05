package sim

import (
	"math"
	"time"
)

// OwnshipSim flies a deterministic figure-eight around a center point.
type OwnshipSim struct {
	CenterLatDeg float64
	CenterLonDeg float64
	GroundKt     float64
	RadiusNm     float64
	Period       time.Duration
}

// Position returns a simple closed track around the configured center.
func (s OwnshipSim) Position(now time.Time) (latDeg, lonDeg, trackDeg float64) {
	period := s.Period
	if period <= 0 {
		period = 120 * time.Second
	}
	radiusNm := s.RadiusNm
	if radiusNm <= 0 {
		radiusNm = 0.5
	}

	// Convert NM to degrees latitude (~60 NM per degree).
	radiusDeg := radiusNm / 60.0

	phase := float64(now.UnixNano()%period.Nanoseconds()) / float64(period.Nanoseconds())

	// Lissajous figure-eight:
	//	  x = cos(2πt)
	//	  y = 0.5*sin(4πt)
	// x is east-west (scaled by cos(lat) for lon degrees), y north-south.
	w := 2 * math.Pi * phase
	x := math.Cos(w)
	y := 0.5 * math.Sin(2*w)

	latDeg = s.CenterLatDeg + radiusDeg*y
	lonDeg = s.CenterLonDeg + (radiusDeg*x)/math.Cos(s.CenterLatDeg*math.Pi/180.0)

	// Track based on instantaneous velocity (atan2(east, north)).
	vx := -2 * math.Pi * math.Sin(w)
	vy := 2 * math.Pi * math.Cos(2*w)
	trackRad := math.Atan2(vx, vy)
	trackDeg = math.Mod((trackRad*180/math.Pi)+360, 360)
	return latDeg, lonDeg, trackDeg
}
