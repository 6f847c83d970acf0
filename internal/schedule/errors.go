// Package schedule holds the pure scheduling rules: clock arithmetic, break
// policies, availability, occupancy, recurrence, training-day resolution and
// the session lifecycle. Nothing here performs I/O or keeps session state;
// every call works on the data it is handed.
package schedule

import "errors"

var (
	ErrInvalidFormat       = errors.New("invalid time format")
	ErrSlotUnavailable     = errors.New("slot unavailable")
	ErrNotFound            = errors.New("session not found")
	ErrAmbiguousAssignment = errors.New("ambiguous schedule assignment")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidStatus       = errors.New("invalid session status")
)
