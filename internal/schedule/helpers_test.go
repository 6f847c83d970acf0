package schedule

import (
	"alcyxob/training-scheduler/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func session(customer primitive.ObjectID, date domain.Date, start, end string, status domain.SessionStatus) domain.Session {
	return domain.Session{
		ID:         primitive.NewObjectID(),
		CustomerID: customer,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Type:       domain.SessionOneOnOne,
		Status:     status,
	}
}
