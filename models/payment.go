package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Payment is an append-only ledger row. Created only after a successful
// gateway charge; never mutated afterwards.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Order         primitive.ObjectID `bson:"order" json:"order"`
	Customer      primitive.ObjectID `bson:"customer" json:"customer"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentStatus string             `bson:"paymentStatus" json:"paymentStatus"`
	PaymentID     string             `bson:"paymentId" json:"paymentId"`
	PaymentDate   time.Time          `bson:"paymentDate" json:"paymentDate"`
}
