package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleAssignment places a Workout into a customer's weekly rotation, keyed
// either by calendar weekday (1=Mon..7=Sun) or by training day, the 1-based
// position of a session within the customer's week. Exactly one key is set.
type ScheduleAssignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID  primitive.ObjectID `bson:"customerId" json:"customerId"`
	Weekday     *int               `bson:"weekday,omitempty" json:"weekday,omitempty"`
	TrainingDay *int               `bson:"trainingDay,omitempty" json:"trainingDay,omitempty"`
	WorkoutID   primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`

	// Workout is filled in by the service from WorkoutID; it is not stored.
	Workout *Workout `bson:"-" json:"workout,omitempty"`
}

// ByTrainingDay reports whether the assignment is keyed by rotation position.
func (a ScheduleAssignment) ByTrainingDay() bool { return a.TrainingDay != nil }

// ByWeekday reports whether the assignment is keyed by calendar weekday.
func (a ScheduleAssignment) ByWeekday() bool { return a.Weekday != nil && a.TrainingDay == nil }
