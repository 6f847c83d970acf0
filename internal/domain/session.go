package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionType classifies what kind of appointment a session is.
type SessionType string

const (
	SessionOneOnOne           SessionType = "1:1"
	SessionGroup              SessionType = "group"
	SessionOwnTraining        SessionType = "own-training"
	SessionWorkoutPlan        SessionType = "workout-plan"
	SessionIntakeConsultation SessionType = "intake-consultation"
)

// Valid reports whether t is one of the known session types.
func (t SessionType) Valid() bool {
	switch t {
	case SessionOneOnOne, SessionGroup, SessionOwnTraining, SessionWorkoutPlan, SessionIntakeConsultation:
		return true
	}
	return false
}

// SessionStatus type for session lifecycle
type SessionStatus string

const (
	StatusScheduled SessionStatus = "scheduled"
	StatusCompleted SessionStatus = "completed"
	StatusCancelled SessionStatus = "cancelled"
	StatusNoShow    SessionStatus = "no-show"
)

// Valid reports whether s is one of the known statuses.
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether s ends the lifecycle.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Session is one booked (or proposed, when ID is nil) training occurrence.
// StartTime and EndTime are zero-padded 24h "HH:MM" wall-clock strings.
type Session struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID   primitive.ObjectID `bson:"customerId" json:"customerId"`
	Date         Date               `bson:"date" json:"date"`
	StartTime    string             `bson:"startTime" json:"startTime"`
	EndTime      string             `bson:"endTime" json:"endTime"`
	Type         SessionType        `bson:"type" json:"type"`
	Status       SessionStatus      `bson:"status" json:"status"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	TrainingType string             `bson:"trainingType,omitempty" json:"trainingType,omitempty"` // free-text label, e.g. "Full Body"
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WithStatus returns a copy of s carrying the new status.
func (s Session) WithStatus(status SessionStatus) Session {
	s.Status = status
	return s
}
