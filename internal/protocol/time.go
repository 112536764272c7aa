package protocol

import "strconv"

// Time is simulation time in picoseconds.
type Time int64

const (
	Picosecond  Time = 1
	Nanosecond       = 1000 * Picosecond
	Microsecond      = 1000 * Nanosecond
	Millisecond      = 1000 * Microsecond
	Second           = 1000 * Millisecond
)

var timeUnits = []struct {
	unit Time
	name string
}{
	{Second, "sec"},
	{Millisecond, "ms"},
	{Microsecond, "us"},
	{Nanosecond, "ns"},
}

// String formats t in the largest VHDL unit dividing it, e.g. "5 ns".
func (t Time) String() string {
	for _, u := range timeUnits {
		if t != 0 && t%u.unit == 0 {
			return strconv.FormatInt(int64(t/u.unit), 10) + " " + u.name
		}
	}
	return strconv.FormatInt(int64(t), 10) + " ps"
}
