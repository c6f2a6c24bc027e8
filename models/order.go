package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
	OrderStatusRefunded  = "refunded"
	OrderStatusCompleted = "completed"
)

// OrderStatuses is the full lifecycle set accepted by administrative updates.
func OrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusPaid,
		OrderStatusDelivered,
		OrderStatusCanceled,
		OrderStatusRefunded,
		OrderStatusCompleted,
	}
}

type Order struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CustomerName  string               `bson:"customerName" json:"customerName"`
	CustomerEmail string               `bson:"customerEmail" json:"customerEmail"`
	Products      []primitive.ObjectID `bson:"products" json:"products"`
	TotalPrice    float64              `bson:"totalPrice" json:"totalPrice"`
	Status        string               `bson:"status" json:"status"`
	BillplzID     string               `bson:"billplz_id" json:"billplz_id"`
	Description   string               `bson:"description" json:"description"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
}

// OrderDetail is an order with its product references resolved, as returned
// by the list endpoint.
type OrderDetail struct {
	ID            primitive.ObjectID `json:"id"`
	CustomerName  string             `json:"customerName"`
	CustomerEmail string             `json:"customerEmail"`
	Products      []Product          `json:"products"`
	TotalPrice    float64            `json:"totalPrice"`
	Status        string             `json:"status"`
	BillplzID     string             `json:"billplz_id"`
	Description   string             `json:"description"`
	CreatedAt     time.Time          `json:"createdAt"`
}
