package repository

import (
	"context"

	"alcyxob/training-scheduler/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// SessionFilter narrows a session listing. Zero fields do not filter; From and
// To are inclusive.
type SessionFilter struct {
	From       domain.Date
	To         domain.Date
	CustomerID primitive.ObjectID
	Status     domain.SessionStatus
}

// SessionRepository defines the interface for interacting with session data.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	// Find returns matching sessions ordered by date then start time.
	Find(ctx context.Context, filter SessionFilter) ([]domain.Session, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.SessionStatus) error
	// CompleteIfScheduled marks the session completed only while it is still
	// scheduled and reports whether it changed anything.
	CompleteIfScheduled(ctx context.Context, id primitive.ObjectID) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CustomerRepository defines the interface for interacting with customer data.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Workout, error)
	List(ctx context.Context) ([]domain.Workout, error)
}

// AssignmentRepository defines the interface for interacting with a customer's
// weekly workout assignments.
type AssignmentRepository interface {
	// Create returns ErrDuplicateKey when the customer already has an
	// assignment on the same weekday or training day.
	Create(ctx context.Context, assignment *domain.ScheduleAssignment) (primitive.ObjectID, error)
	GetByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]domain.ScheduleAssignment, error)
	Delete(ctx context.Context, id, customerID primitive.ObjectID) error
}
