package gps

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"

	"gps-simple/internal/calendar"
)

const (
	rmcTag = "$GPRMC"

	// rmcTokens is the number of values extracted from one RMC sentence:
	// hh mm ss frac, status, lat N/S, lon E/W, speed, course, dd mm yy.
	rmcTokens = 14

	// KnotToKmph converts knots to km/h.
	KnotToKmph = 1.852
)

var (
	// ErrNotRMC is returned for lines that do not start with the $GPRMC tag.
	ErrNotRMC = errors.New("nmea: not a $GPRMC sentence")

	ErrTokenCount = errors.New("nmea: wrong RMC token count")
	ErrChecksum   = errors.New("nmea: checksum mismatch")
)

// Fix is one decoded RMC sentence.
type Fix struct {
	Hour   int
	Minute int
	Second int

	// Valid is true when the status field is "A" (active).
	Valid bool

	// LatDeg/LonDeg are decimal degrees; negative south/west once the
	// hemisphere has been applied.
	LatDeg  float64
	LonDeg  float64
	LatHemi byte
	LonHemi byte

	SpeedKt   float64
	CourseDeg float64

	Day   int
	Month int
	// Year is the two-digit year from the sentence.
	Year int
}

// FullYear returns the four-digit year. RMC has no century; 2000 is assumed.
func (f Fix) FullYear() int {
	return 2000 + f.Year
}

// SpeedKmph returns ground speed in km/h.
func (f Fix) SpeedKmph() float64 {
	return f.SpeedKt * KnotToKmph
}

// Unix returns the fix instant as seconds since the epoch.
func (f Fix) Unix() int64 {
	return calendar.SecondsSinceEpoch(f.FullYear(), f.Month, f.Day, f.Hour, f.Minute, f.Second)
}

// Time returns the fix instant in UTC, whole seconds.
func (f Fix) Time() time.Time {
	return time.Unix(f.Unix(), 0).UTC()
}

// ParseRMC decodes one line against the fixed template
//
//	$GPRMC,hhmmss[.sss],A|V,llll.llll,N|S,yyyyy.yyyy,E|W,speed,track,ddmmyy,...
//
// Lines without the $GPRMC tag return ErrNotRMC. Lines with the tag but fewer
// than 14 extracted values return ErrTokenCount. A void (V) sentence is
// returned with Valid=false and nil error; callers must discard it.
//
// With verifyChecksum the trailing *hh must be present and correct. The
// default template match does not look at it.
func ParseRMC(line string, verifyChecksum bool) (Fix, error) {
	if !strings.HasPrefix(line, rmcTag) {
		return Fix{}, ErrNotRMC
	}
	line = strings.TrimRight(line, "\r\n")

	if verifyChecksum {
		if err := checkChecksum(line); err != nil {
			return Fix{}, err
		}
	}

	fix, n := scanRMC(line)
	if n != rmcTokens {
		return Fix{}, fmt.Errorf("%w: got %d want %d", ErrTokenCount, n, rmcTokens)
	}
	if !fix.Valid {
		return fix, nil
	}

	// Sign only once every field parsed.
	if fix.LatHemi == 'S' {
		fix.LatDeg = -fix.LatDeg
	}
	if fix.LonHemi == 'W' {
		fix.LonDeg = -fix.LonDeg
	}
	return fix, nil
}

// scanRMC extracts fields in template order and stops at the first one that
// does not convert. It returns how many values were extracted.
func scanRMC(line string) (Fix, int) {
	var fix Fix
	f := strings.Split(line, ",")
	field := func(i int) string {
		if i < len(f) {
			return f[i]
		}
		return ""
	}

	if f[0] != rmcTag {
		return fix, 0
	}

	n := 0

	// 1: hhmmss with optional .sss
	ts := field(1)
	for _, dst := range []*int{&fix.Hour, &fix.Minute, &fix.Second} {
		v, ok := twoDigits(ts, n*2)
		if !ok {
			return fix, n
		}
		*dst = v
		n++
	}
	frac := ts[6:]
	if frac != "" && (frac[0] != '.' || len(frac) < 2) {
		return fix, n
	}
	n++

	// 2: status
	st := field(2)
	if len(st) != 1 {
		return fix, n
	}
	fix.Valid = st == "A"
	n++

	// 3-6: position
	var ok bool
	if fix.LatDeg, ok = parseNMEALatLon(field(3)); !ok {
		return fix, n
	}
	n++
	if fix.LatHemi, ok = hemisphere(field(4), 'N', 'S'); !ok {
		return fix, n
	}
	n++
	if fix.LonDeg, ok = parseNMEALatLon(field(5)); !ok {
		return fix, n
	}
	n++
	if fix.LonHemi, ok = hemisphere(field(6), 'E', 'W'); !ok {
		return fix, n
	}
	n++

	// 7-8: speed over ground (knots), track made good (deg true)
	if fix.SpeedKt, ok = parseFloat(field(7)); !ok || fix.SpeedKt < 0 {
		return fix, n
	}
	n++
	if fix.CourseDeg, ok = parseFloat(field(8)); !ok {
		return fix, n
	}
	n++

	// 9: ddmmyy; a checksum may follow directly on short sentences.
	ds := field(9)
	if star := strings.IndexByte(ds, '*'); star != -1 {
		ds = ds[:star]
	}
	for i, dst := range []*int{&fix.Day, &fix.Month, &fix.Year} {
		v, ok := twoDigits(ds, i*2)
		if !ok {
			return fix, n
		}
		*dst = v
		n++
	}
	return fix, n
}

func checkChecksum(line string) error {
	star := strings.LastIndexByte(line, '*')
	if star == -1 {
		return fmt.Errorf("%w: missing checksum", ErrChecksum)
	}
	ck := strings.TrimSpace(line[star+1:])
	if len(ck) < 2 {
		return fmt.Errorf("%w: short checksum", ErrChecksum)
	}
	want := nmea.Checksum(line[1:star])
	if !strings.EqualFold(ck[:2], want) {
		return fmt.Errorf("%w: got %s want %s", ErrChecksum, ck[:2], want)
	}
	return nil
}

func twoDigits(s string, off int) (int, bool) {
	if len(s) < off+2 {
		return 0, false
	}
	a, b := s[off], s[off+1]
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

func hemisphere(s string, pos, neg byte) (byte, bool) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) != 1 || (s[0] != pos && s[0] != neg) {
		return 0, false
	}
	return s[0], true
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseNMEALatLon parses an unsigned NMEA coordinate, ddmm.mmmm for latitude
// or dddmm.mmmm for longitude, into decimal degrees. The hemisphere is
// applied by the caller.
func parseNMEALatLon(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}

	// The last two digits of the integer part are whole minutes.
	dot := strings.IndexByte(v, '.')
	intPart := v
	if dot != -1 {
		intPart = v[:dot]
	}
	if len(intPart) < 3 {
		return 0, false
	}

	degPart := intPart[:len(intPart)-2]
	minPart := v[len(intPart)-2:]

	deg, err := strconv.Atoi(degPart)
	if err != nil || deg < 0 {
		return 0, false
	}
	mins, err := strconv.ParseFloat(minPart, 64)
	if err != nil || mins < 0 || mins >= 60 {
		return 0, false
	}

	return float64(deg) + (mins / 60.0), true
}
