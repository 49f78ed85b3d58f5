// Package repositories holds the persistence layer for orders.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kdiomande/maillots/app/models"
)

// ErrNotFound is returned when no order matches the given id. A
// syntactically invalid id maps here too: from the caller's point of view
// the order simply does not exist.
var ErrNotFound = errors.New("commande non trouvée")

// OrderRepository abstracts the order store so services can be tested with
// an in-memory fake.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	All(ctx context.Context) ([]models.Order, error)
	SetDelivered(ctx context.Context, id string, delivered bool) error
	Delete(ctx context.Context, id string) error
}

// queryTimeout bounds every store round trip; the underlying transport has
// no default that is short enough for a request/response API.
const queryTimeout = 5 * time.Second

// MongoOrderRepository stores orders in a MongoDB collection.
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(col *mongo.Collection) *MongoOrderRepository {
	return &MongoOrderRepository{col: col}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	order.ID = primitive.NilObjectID
	order.Livree = false

	res, err := r.col.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("orders: insert: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("orders: unexpected inserted id type %T", res.InsertedID)
	}
	order.ID = id
	return id, nil
}

func (r *MongoOrderRepository) All(ctx context.Context) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// Submission timestamps are RFC 3339 strings, so a lexicographic
	// descending sort is a chronological one.
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("orders: find: %w", err)
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("orders: decode: %w", err)
	}
	return orders, nil
}

func (r *MongoOrderRepository) SetDelivered(ctx context.Context, id string, delivered bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"livree": delivered}})
	if err != nil {
		return fmt.Errorf("orders: update livree: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("orders: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
