package domain

import (
	"errors"
	"time"
)

// PaymentType classifies what a charge paid for.
type PaymentType string

const (
	PaymentSubscription   PaymentType = "subscription"
	PaymentDesignPurchase PaymentType = "design_purchase"
)

// PaymentStatus is the settlement outcome recorded for a charge.
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

var ErrPaymentDeclined = errors.New("payment declined")

// Payment records a settled charge against the payment gateway.
type Payment struct {
	ID             string        `json:"id" bson:"_id,omitempty"`
	UserID         string        `json:"user_id" bson:"user_id"`
	Amount         float64       `json:"amount" bson:"amount"`
	Type           PaymentType   `json:"type" bson:"type"`
	Status         PaymentStatus `json:"status" bson:"status"`
	TransactionRef string        `json:"transaction_ref,omitempty" bson:"transaction_ref,omitempty"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
}
