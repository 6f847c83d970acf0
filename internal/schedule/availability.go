package schedule

import (
	"alcyxob/training-scheduler/internal/domain"
)

// Reason explains why a slot cannot be booked.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonBreak    Reason = "break"
	ReasonConflict Reason = "conflict"
)

// Availability is the verdict for one candidate slot.
type Availability struct {
	Available bool
	Reason    Reason
	// Conflicts lists the scheduled sessions the candidate overlaps.
	Conflicts []domain.Session
}

// Engine answers availability questions against an injected break policy.
type Engine struct {
	Breaks BreakPolicy
}

// NewEngine creates an Engine; a nil policy blocks nothing.
func NewEngine(breaks BreakPolicy) Engine {
	if breaks == nil {
		breaks = WindowPolicy{Name: PolicyNone}
	}
	return Engine{Breaks: breaks}
}

// IsAvailable reports whether a session of durationMinutes can start at slot on
// date given the booked sessions. Only scheduled sessions on the same date block.
func (e Engine) IsAvailable(date domain.Date, slot string, durationMinutes int, booked []domain.Session) (bool, error) {
	v, err := e.Evaluate(date, slot, durationMinutes, booked)
	if err != nil {
		return false, err
	}
	return v.Available, nil
}

// Evaluate is IsAvailable with the reason and every conflicting session.
func (e Engine) Evaluate(date domain.Date, slot string, durationMinutes int, booked []domain.Session) (Availability, error) {
	blocked, err := e.Breaks.IsBlocked(date, slot)
	if err != nil {
		return Availability{}, err
	}
	if blocked {
		return Availability{Reason: ReasonBreak}, nil
	}

	start, err := ToMinutes(slot)
	if err != nil {
		return Availability{}, err
	}
	if durationMinutes <= 0 {
		durationMinutes = DefaultSessionMinutes
	}
	candidate := interval{start: start, end: start + durationMinutes}

	var conflicts []domain.Session
	for _, s := range booked {
		if s.Status != domain.StatusScheduled || !s.Date.Equal(date) {
			continue
		}
		iv, err := parseInterval(s.StartTime, s.EndTime)
		if err != nil {
			return Availability{}, err
		}
		if candidate.overlaps(iv) {
			conflicts = append(conflicts, s)
		}
	}
	if len(conflicts) > 0 {
		return Availability{Reason: ReasonConflict, Conflicts: conflicts}, nil
	}
	return Availability{Available: true}, nil
}

// Overlaps reports whether two sessions share a date and intersecting intervals.
// Touching boundaries do not overlap.
func Overlaps(a, b domain.Session) (bool, error) {
	if !a.Date.Equal(b.Date) {
		return false, nil
	}
	ia, err := parseInterval(a.StartTime, a.EndTime)
	if err != nil {
		return false, err
	}
	ib, err := parseInterval(b.StartTime, b.EndTime)
	if err != nil {
		return false, err
	}
	return ia.overlaps(ib), nil
}

// SlotVerdict pairs a grid slot with its availability.
type SlotVerdict struct {
	Slot string
	Availability
}

// DaySlots evaluates every slot of the grid on date.
func (e Engine) DaySlots(grid Grid, date domain.Date, durationMinutes int, booked []domain.Session) ([]SlotVerdict, error) {
	slots := grid.Slots()
	out := make([]SlotVerdict, 0, len(slots))
	for _, slot := range slots {
		v, err := e.Evaluate(date, slot, durationMinutes, booked)
		if err != nil {
			return nil, err
		}
		out = append(out, SlotVerdict{Slot: slot, Availability: v})
	}
	return out, nil
}
