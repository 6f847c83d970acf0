package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is a coached person. Only the training fields matter to scheduling;
// the rest is carried for listings and exports.
type Customer struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email,omitempty" json:"email,omitempty"`
	TrainingType      string             `bson:"trainingType,omitempty" json:"trainingType,omitempty"`           // e.g. "Push/Pull/Legs"
	TrainingFrequency string             `bson:"trainingFrequency,omitempty" json:"trainingFrequency,omitempty"` // e.g. "3x per week"
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
