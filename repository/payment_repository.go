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

var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepository persists the append-only payment ledger. Rows are created
// after a successful gateway charge and never mutated.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByChargeID(ctx context.Context, chargeID string) (*models.Payment, error)
	FindAllByCustomer(ctx context.Context, customer primitive.ObjectID, page int) ([]models.Payment, error)
}

type mongoPaymentRepository struct {
	collection *mongo.Collection
	pageSize   int
}

func NewMongoPaymentRepository(db *mongo.Database, pageSize int) PaymentRepository {
	return &mongoPaymentRepository{
		collection: db.Collection("payments"),
		pageSize:   pageSize,
	}
}

func (r *mongoPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *mongoPaymentRepository) FindByChargeID(ctx context.Context, chargeID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.collection.FindOne(ctx, bson.M{"paymentId": chargeID}).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return &payment, nil
}

func (r *mongoPaymentRepository) FindAllByCustomer(ctx context.Context, customer primitive.ObjectID, page int) ([]models.Payment, error) {
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.M{"paymentDate": -1}).
		SetSkip(int64((page - 1) * r.pageSize)).
		SetLimit(int64(r.pageSize))

	cursor, err := r.collection.Find(ctx, bson.M{"customer": customer}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find payments: %w", err)
	}

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}
