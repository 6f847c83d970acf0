package schedule

import (
	"fmt"
	"regexp"
	"strconv"
)

// DefaultSessionMinutes is the length of a session when none is given.
const DefaultSessionMinutes = 60

const minutesPerDay = 24 * 60

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ToMinutes converts an "HH:MM" wall-clock string to minutes past midnight.
func ToMinutes(clock string) (int, error) {
	m := clockPattern.FindStringSubmatch(clock)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, clock)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if hours > 24 || minutes > 59 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidFormat, clock)
	}
	return hours*60 + minutes, nil
}

// FormatMinutes renders minutes past midnight as zero-padded "HH:MM".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutes shifts clock by delta minutes. The result must stay within the day.
func AddMinutes(clock string, delta int) (string, error) {
	start, err := ToMinutes(clock)
	if err != nil {
		return "", err
	}
	end := start + delta
	if end < 0 || end > minutesPerDay {
		return "", fmt.Errorf("%w: %s%+d leaves the day", ErrInvalidFormat, clock, delta)
	}
	return FormatMinutes(end), nil
}

// EndTime derives a session end from its start and length in minutes; a
// non-positive length means DefaultSessionMinutes.
func EndTime(start string, durationMinutes int) (string, error) {
	if durationMinutes <= 0 {
		durationMinutes = DefaultSessionMinutes
	}
	return AddMinutes(start, durationMinutes)
}

// interval is a half-open [start, end) range in minutes past midnight.
type interval struct {
	start, end int
}

func (i interval) overlaps(o interval) bool {
	return i.start < o.end && i.end > o.start
}

func (i interval) covers(minute int) bool {
	return i.start <= minute && minute < i.end
}

func parseInterval(start, end string) (interval, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return interval{}, err
	}
	e, err := ToMinutes(end)
	if err != nil {
		return interval{}, err
	}
	return interval{start: s, end: e}, nil
}
