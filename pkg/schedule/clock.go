package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/klrn-data/schedcheck/pkg/errors"
)

// Clock is a time of day with second resolution. It is deliberately not a
// time.Time: grid exports carry bare 12-hour readings with no date and no
// AM/PM marker, and those readings must be compared and corrected before a
// real timestamp exists.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// ParseClock parses "H:MM", "HH:MM" or "HH:MM:SS" into a Clock.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, fmt.Errorf("%w: malformed clock time %q", errors.ErrInvalidInput, s)
	}

	var c Clock
	var err error
	if c.Hour, err = strconv.Atoi(parts[0]); err != nil {
		return Clock{}, fmt.Errorf("%w: bad hour in %q", errors.ErrInvalidInput, s)
	}
	if c.Minute, err = strconv.Atoi(parts[1]); err != nil {
		return Clock{}, fmt.Errorf("%w: bad minute in %q", errors.ErrInvalidInput, s)
	}
	if len(parts) == 3 {
		if c.Second, err = strconv.Atoi(parts[2]); err != nil {
			return Clock{}, fmt.Errorf("%w: bad second in %q", errors.ErrInvalidInput, s)
		}
	}

	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 || c.Second < 0 || c.Second > 59 {
		return Clock{}, fmt.Errorf("%w: clock time %q out of range", errors.ErrInvalidInput, s)
	}
	return c, nil
}

// String formats the clock as HH:MM:SS.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Before reports whether c reads earlier than other.
func (c Clock) Before(other Clock) bool {
	if c.Hour != other.Hour {
		return c.Hour < other.Hour
	}
	if c.Minute != other.Minute {
		return c.Minute < other.Minute
	}
	return c.Second < other.Second
}

// Compare returns -1, 0 or 1 ordering c against other.
func (c Clock) Compare(other Clock) int {
	switch {
	case c.Before(other):
		return -1
	case other.Before(c):
		return 1
	default:
		return 0
	}
}

// AddHours returns the clock shifted by the given number of hours.
// Callers are responsible for keeping the result within a single day.
func (c Clock) AddHours(h int) Clock {
	c.Hour += h
	return c
}

// Seconds returns the number of seconds since midnight.
func (c Clock) Seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}
