package schedule

import (
	"fmt"
	"strings"
	"time"

	"alcyxob/training-scheduler/internal/domain"
)

// BreakPolicy decides whether a slot is closed on a date regardless of bookings.
// Implementations must be pure functions of their arguments.
type BreakPolicy interface {
	IsBlocked(date domain.Date, slot string) (bool, error)
}

// Bound says whether a window edge belongs to the window.
type Bound int

const (
	Inclusive Bound = iota
	Exclusive
)

// Weekdays is a set of calendar weekdays.
type Weekdays uint8

// EveryDay contains all seven weekdays.
const EveryDay Weekdays = 1<<7 - 1

// Days builds a set from individual weekdays.
func Days(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w |= 1 << uint(d)
	}
	return w
}

// Has reports whether d is in the set.
func (w Weekdays) Has(d time.Weekday) bool { return w&(1<<uint(d)) != 0 }

// Window is a break range in minutes past midnight applying on some weekdays.
type Window struct {
	Start, End           int
	StartBound, EndBound Bound
	Days                 Weekdays
}

// Contains reports whether minute falls inside the window's range.
func (w Window) Contains(minute int) bool {
	afterStart := minute > w.Start || (w.StartBound == Inclusive && minute == w.Start)
	beforeEnd := minute < w.End || (w.EndBound == Inclusive && minute == w.End)
	return afterStart && beforeEnd
}

// WindowPolicy is a table-driven BreakPolicy: whole days that are closed plus
// break windows that apply on chosen weekdays.
type WindowPolicy struct {
	Name    string
	Closed  Weekdays
	Windows []Window
}

// IsBlocked implements BreakPolicy.
func (p WindowPolicy) IsBlocked(date domain.Date, slot string) (bool, error) {
	minute, err := ToMinutes(slot)
	if err != nil {
		return false, err
	}
	wd := date.Weekday()
	if p.Closed.Has(wd) {
		return true, nil
	}
	for _, w := range p.Windows {
		if w.Days.Has(wd) && w.Contains(minute) {
			return true, nil
		}
	}
	return false, nil
}

func hm(h, m int) int { return h*60 + m }

// UniformBreaks closes [12:30,14:30] and [17:30,19:00] on every day, both
// edges included.
var UniformBreaks = WindowPolicy{
	Name: PolicyUniform,
	Windows: []Window{
		{Start: hm(12, 30), End: hm(14, 30), StartBound: Inclusive, EndBound: Inclusive, Days: EveryDay},
		{Start: hm(17, 30), End: hm(19, 0), StartBound: Inclusive, EndBound: Inclusive, Days: EveryDay},
	},
}

// WeekdayBreaks closes Sundays, keeps an open-ended lunch window (12:30,13:00)
// Monday to Saturday, and adds [17:00,19:00) on Fridays and Saturdays.
var WeekdayBreaks = WindowPolicy{
	Name:   PolicyWeekday,
	Closed: Days(time.Sunday),
	Windows: []Window{
		{
			Start: hm(12, 30), End: hm(13, 0),
			StartBound: Exclusive, EndBound: Exclusive,
			Days: Days(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday),
		},
		{
			Start: hm(17, 0), End: hm(19, 0),
			StartBound: Inclusive, EndBound: Exclusive,
			Days: Days(time.Friday, time.Saturday),
		},
	},
}

// Policy names accepted by PolicyByName.
const (
	PolicyUniform = "uniform"
	PolicyWeekday = "weekday"
	PolicyNone    = "none"
)

// PolicyByName returns one of the built-in policies.
func PolicyByName(name string) (WindowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyUniform:
		return UniformBreaks, nil
	case PolicyWeekday, "":
		return WeekdayBreaks, nil
	case PolicyNone:
		return WindowPolicy{Name: PolicyNone}, nil
	}
	return WindowPolicy{}, fmt.Errorf("unknown break policy %q", name)
}
