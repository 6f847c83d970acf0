package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a named workout definition that assignments point at.
type Workout struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`                                     // e.g. "Day 1 - Legs & Glutes Workout"
	TrainingType string             `bson:"trainingType,omitempty" json:"trainingType,omitempty"` // e.g. "push-pull-legs"
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
