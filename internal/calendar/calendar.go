// Package calendar converts broken-down UTC calendar dates to Unix seconds
// without consulting the time package or any lookup table.
package calendar

// SecondsSinceEpoch converts a Gregorian UTC date to seconds since
// 1970-01-01 00:00:00 UTC. Input is a full year (e.g. 1994), month 1..12,
// day 1..31, hour 0..23, minute and second 0..59.
//
// The year is counted from March so that February, and its leap day, comes
// last. That lets the leap corrections be year/4 - year/100 + year/400 and the
// month offsets 367*month/12, with no month-length table.
//
// No range checks are made. The result is int64; the same arithmetic in an
// unsigned 32-bit long rolls over on 2106-02-07 06:28:16.
func SecondsSinceEpoch(year, month, day, hour, minute, second int) int64 {
	// 1..12 -> 11,12,1..10
	month -= 2
	if month <= 0 {
		month += 12
		year--
	}

	y := int64(year)
	m := int64(month)
	days := y/4 - y/100 + y/400 + 367*m/12 + int64(day) + y*365 - 719499

	return ((days*24+int64(hour))*60+int64(minute))*60 + int64(second)
}
