package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/training-scheduler/internal/domain"
	"alcyxob/training-scheduler/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const assignmentCollectionName = "schedule_assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new assignment. The unique indexes from
// EnsureAssignmentIndexes turn a second assignment on the same key into
// repository.ErrDuplicateKey.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.ScheduleAssignment) (primitive.ObjectID, error) {
	if assignment.CustomerID == primitive.NilObjectID || assignment.WorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires customerId and workoutId")
	}

	assignment.ID = primitive.NewObjectID()
	assignment.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}
	return insertedID, nil
}

// GetByCustomerID retrieves a customer's assignments in creation order.
func (r *mongoAssignmentRepository) GetByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]domain.ScheduleAssignment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"customerId": customerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	assignments := []domain.ScheduleAssignment{}
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Delete removes an assignment owned by customerID.
func (r *mongoAssignmentRepository) Delete(ctx context.Context, id, customerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "customerId": customerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAssignmentIndexes creates the indexes that keep each customer's
// weekday and training day keys unique.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "weekday", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"weekday": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "trainingDay", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"trainingDay": bson.M{"$exists": true}}),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
