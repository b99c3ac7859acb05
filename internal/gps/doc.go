// Package gps reads $GPRMC sentences from a serial GNSS receiver and acts on
// the first valid fix.
//
// It is intentionally small:
// - Read one byte at a time, with a readiness wait before each read
// - Decode the single fixed RMC template (time, status, position, speed, date)
// - Print speed, position or date/time, or step the system clock
package gps
