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

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new Session repository backed by MongoDB.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new session.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.CustomerID == primitive.NilObjectID || session.Date.IsZero() || session.StartTime == "" || session.EndTime == "" {
		return primitive.NilObjectID, errors.New("session requires customerId, date, startTime and endTime")
	}
	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	if session.Status == "" {
		session.Status = domain.StatusScheduled
	}

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Find lists sessions matching filter. Dates are stored as "YYYY-MM-DD" and
// times as zero-padded "HH:MM", so string order is chronological within each
// stored date form.
func (r *mongoSessionRepository) Find(ctx context.Context, filter repository.SessionFilter) ([]domain.Session, error) {
	query := sessionQuery(filter)
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.Session{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// sessionQuery matches dates in both stored forms: "YYYY-MM-DD" strings and
// the BSON datetimes of older records, which MongoDB never compares with
// strings. A datetime belongs to the day it falls on in domain.LegacyLocation.
func sessionQuery(filter repository.SessionFilter) bson.M {
	query := bson.M{}
	stringRange := bson.M{}
	timeRange := bson.M{}
	loc := domain.LegacyLocation()
	if !filter.From.IsZero() {
		stringRange["$gte"] = filter.From.String()
		timeRange["$gte"] = filter.From.At(0, loc)
	}
	if !filter.To.IsZero() {
		stringRange["$lte"] = filter.To.String()
		timeRange["$lt"] = filter.To.AddDays(1).At(0, loc)
	}
	if len(stringRange) > 0 {
		query["$or"] = bson.A{
			bson.M{"date": stringRange},
			bson.M{"date": timeRange},
		}
	}
	if !filter.CustomerID.IsZero() {
		query["customerId"] = filter.CustomerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}

// UpdateStatus overwrites the status of a session.
func (r *mongoSessionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.SessionStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CompleteIfScheduled moves a session to completed only while it is still
// scheduled, so a concurrent status change made by a trainer wins.
func (r *mongoSessionRepository) CompleteIfScheduled(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": id, "status": domain.StatusScheduled}
	update := bson.M{"$set": bson.M{"status": domain.StatusCompleted, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// Delete removes a session.
func (r *mongoSessionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Availability checks read one day at a time.
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index(),
		},
		{
			// Week lookups for the training day resolver.
			Keys:    bson.D{{Key: "customerId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
		{
			// Auto-complete sweep.
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
