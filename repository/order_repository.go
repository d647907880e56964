package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BekmurodFoziloff/e-commerce/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderFilter narrows FindAll. Customer is always set by the service layer;
// the remaining fields come from query parameters.
type OrderFilter struct {
	Customer primitive.ObjectID
	Page     int
	MinPrice float64
	MaxPrice float64
	Status   string
}

// HasQuery reports whether any client-supplied filter is present. Collection
// caching is skipped for filtered reads.
func (f OrderFilter) HasQuery() bool {
	return f.Page > 0 || f.MinPrice > 0 || f.MaxPrice > 0 || f.Status != ""
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindAll(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// UpdateProducts replaces the order's line items and subtotal, returning
	// the post-update document.
	UpdateProducts(ctx context.Context, id primitive.ObjectID, products []models.OrderProduct, subTotalPrice float64) (*models.Order, error)
	// UpdateStatus sets the order status, returning the post-update document.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	// Delete removes the order and returns the deleted snapshot.
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
}

type mongoOrderRepository struct {
	collection *mongo.Collection
	pageSize   int
}

func NewMongoOrderRepository(db *mongo.Database, pageSize int) OrderRepository {
	return &mongoOrderRepository{
		collection: db.Collection("orders"),
		pageSize:   pageSize,
	}
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *mongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) FindAll(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := bson.M{}
	if !filter.Customer.IsZero() {
		query["customer"] = filter.Customer
	}
	if filter.MinPrice > 0 || filter.MaxPrice > 0 {
		price := bson.M{}
		if filter.MinPrice > 0 {
			price["$gte"] = filter.MinPrice
		}
		if filter.MaxPrice > 0 {
			price["$lte"] = filter.MaxPrice
		}
		query["subTotalPrice"] = price
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * r.pageSize)).
		SetLimit(int64(r.pageSize))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *mongoOrderRepository) UpdateProducts(ctx context.Context, id primitive.ObjectID, products []models.OrderProduct, subTotalPrice float64) (*models.Order, error) {
	update := bson.M{"$set": bson.M{
		"products":      products,
		"subTotalPrice": subTotalPrice,
		"updatedAt":     time.Now(),
	}}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *mongoOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *mongoOrderRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}
	return &order, nil
}
