package schedule

import (
	"fmt"
	"time"

	"alcyxob/training-scheduler/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transition returns a copy of s moved to status. Operators may set any
// terminal status directly; nothing moves back to scheduled.
func Transition(s domain.Session, to domain.SessionStatus) (domain.Session, error) {
	if !to.Valid() {
		return domain.Session{}, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if to == domain.StatusScheduled && s.Status != domain.StatusScheduled {
		return domain.Session{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, to)
	}
	return s.WithStatus(to), nil
}

// TransitionByID finds id among sessions and transitions it.
func TransitionByID(sessions []domain.Session, id primitive.ObjectID, to domain.SessionStatus) (domain.Session, error) {
	for _, s := range sessions {
		if s.ID == id {
			return Transition(s, to)
		}
	}
	return domain.Session{}, fmt.Errorf("%w: %s", ErrNotFound, id.Hex())
}

// SweepFailure records a session the sweep could not judge.
type SweepFailure struct {
	Session domain.Session
	Err     error
}

// SweepResult is the outcome of one auto-complete pass.
type SweepResult struct {
	Completed []domain.Session
	Failed    []SweepFailure
}

// Ended reports whether the session's end (date + endTime in loc) is at or
// before now.
func Ended(s domain.Session, now time.Time, loc *time.Location) (bool, error) {
	end, err := ToMinutes(s.EndTime)
	if err != nil {
		return false, err
	}
	return !s.Date.At(end, loc).After(now), nil
}

// SweepCompleted promotes every scheduled session that has already ended to
// completed. It returns new records and leaves the input untouched; sessions
// with unreadable times are reported without stopping the pass.
func SweepCompleted(sessions []domain.Session, now time.Time, loc *time.Location) SweepResult {
	var res SweepResult
	for _, s := range sessions {
		if s.Status != domain.StatusScheduled {
			continue
		}
		ended, err := Ended(s, now, loc)
		if err != nil {
			res.Failed = append(res.Failed, SweepFailure{Session: s, Err: err})
			continue
		}
		if ended {
			res.Completed = append(res.Completed, s.WithStatus(domain.StatusCompleted))
		}
	}
	return res
}
