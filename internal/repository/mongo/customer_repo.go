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

const customerCollectionName = "customers"

// mongoCustomerRepository implements the repository.CustomerRepository interface using MongoDB.
type mongoCustomerRepository struct {
	collection *mongo.Collection
}

// NewMongoCustomerRepository creates a new instance of mongoCustomerRepository.
// It expects a connected *mongo.Database instance.
func NewMongoCustomerRepository(db *mongo.Database) repository.CustomerRepository {
	return &mongoCustomerRepository{
		collection: db.Collection(customerCollectionName),
	}
}

// Create inserts a new customer into the database.
func (r *mongoCustomerRepository) Create(ctx context.Context, customer *domain.Customer) (primitive.ObjectID, error) {
	if customer.Name == "" {
		return primitive.NilObjectID, errors.New("customer name is required")
	}

	customer.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, customer)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a customer by their unique ObjectID.
func (r *mongoCustomerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// List returns every customer sorted by name.
func (r *mongoCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	customers := []domain.Customer{}
	if err = cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// EnsureCustomerIndexes creates the unique email index. Customers without an
// email are not constrained.
func EnsureCustomerIndexes(ctx context.Context, collection *mongo.Collection) error {
	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
	}
	_, err := collection.Indexes().CreateOne(ctx, emailIndex)
	return err
}
