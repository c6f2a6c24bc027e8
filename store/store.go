// Package store persists orders. Two implementations exist: mongo for
// production and an in-memory store for local development and tests.
package store

import (
	"context"
	"errors"

	"storefront/models"
)

var (
	ErrNotFound   = errors.New("order not found")
	ErrValidation = errors.New("invalid order")
)

// ListFilter narrows a Find. Empty fields are unconstrained.
type ListFilter struct {
	Status        string
	CustomerEmail string
}

// OrderPatch is the fixed set of fields an administrative update may change.
// Everything else on an order, the bill reference included, is immutable
// after creation.
type OrderPatch struct {
	Status       *string `json:"status"`
	CustomerName *string `json:"customerName"`
}

func (p OrderPatch) Empty() bool {
	return p.Status == nil && p.CustomerName == nil
}

// OrderStore is the persistence contract for orders.
type OrderStore interface {
	// Find returns matching orders newest-first, product references
	// resolved. A reference that no longer resolves is skipped.
	Find(ctx context.Context, filter ListFilter) ([]models.OrderDetail, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	// Insert assigns the id, pending status and creation time.
	Insert(ctx context.Context, order models.Order) (*models.Order, error)
	// UpdateByID applies the patch and returns the post-update order.
	UpdateByID(ctx context.Context, id string, patch OrderPatch) (*models.Order, error)
	// DeleteByID removes the order and returns the removed document.
	DeleteByID(ctx context.Context, id string) (*models.Order, error)
}

func validateDraft(order models.Order) error {
	if order.CustomerName == "" || order.CustomerEmail == "" {
		return ErrValidation
	}
	if order.TotalPrice <= 0 {
		return ErrValidation
	}
	return nil
}
