// Package service orchestrates the order workflows: role-scoped reads,
// admin-gated mutations, and the bill-then-persist creation path.
package service

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/auth"
	"storefront/billplz"
	"storefront/models"
	"storefront/store"
)

var (
	ErrForbidden  = errors.New("admin access required")
	ErrBadRequest = errors.New("invalid request")
)

// PaymentGateway is the remote bill-creation capability.
type PaymentGateway interface {
	CreateBill(ctx context.Context, bill billplz.BillRequest) (*billplz.Bill, error)
}

type OrderService struct {
	store   store.OrderStore
	gateway PaymentGateway
	logger  *log.Logger
}

func NewOrderService(orderStore store.OrderStore, gateway PaymentGateway, logger *log.Logger) *OrderService {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &OrderService{store: orderStore, gateway: gateway, logger: logger}
}

// List returns orders visible to the caller, newest-first. Admins see every
// order; everyone else only their own. A status filter composes with the
// ownership scope.
func (s *OrderService) List(ctx context.Context, caller auth.Caller, status string) ([]models.OrderDetail, error) {
	filter := store.ListFilter{Status: status}
	if !auth.CanViewAllOrders(caller) {
		// An empty email would make the filter unconstrained, which for a
		// non-admin means seeing everyone's orders. Such a caller owns
		// nothing, so it sees nothing.
		if caller.Email == "" {
			return []models.OrderDetail{}, nil
		}
		filter.CustomerEmail = caller.Email
	}
	return s.store.Find(ctx, filter)
}

// Get fetches one order with the same ownership scope as List. A non-admin
// asking for someone else's order gets not-found, so order ids are not
// probeable.
func (s *OrderService) Get(ctx context.Context, caller auth.Caller, id string) (*models.Order, error) {
	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanViewAllOrders(caller) && order.CustomerEmail != caller.Email {
		return nil, store.ErrNotFound
	}
	return order, nil
}

// CreateOrderInput is the creation payload. TotalPrice is in base currency
// units; conversion to the gateway's minor units happens here.
type CreateOrderInput struct {
	CustomerName  string   `json:"customerName" binding:"required"`
	CustomerEmail string   `json:"customerEmail" binding:"required,email"`
	Products      []string `json:"products" binding:"required"`
	TotalPrice    float64  `json:"totalPrice" binding:"required,gt=0"`
	Description   string   `json:"description" binding:"required"`
}

// Create runs the two-step creation workflow: remote bill first, local order
// second. A gateway failure aborts before any local write. A store failure
// after the bill exists leaves an orphaned bill; that is logged loudly
// rather than silently swallowed, since nothing sweeps it up yet.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*billplz.Bill, error) {
	productRefs := make([]primitive.ObjectID, 0, len(input.Products))
	for _, raw := range input.Products {
		ref, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bad product id %q", ErrBadRequest, raw)
		}
		productRefs = append(productRefs, ref)
	}

	bill, err := s.gateway.CreateBill(ctx, billplz.BillRequest{
		Email:       input.CustomerEmail,
		Name:        input.CustomerName,
		Amount:      billplz.ToMinorUnits(input.TotalPrice),
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}

	_, err = s.store.Insert(ctx, models.Order{
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		Products:      productRefs,
		TotalPrice:    input.TotalPrice,
		BillplzID:     bill.ID,
		Description:   input.Description,
	})
	if err != nil {
		s.logger.WithFields(log.Fields{
			"billplz_id":    bill.ID,
			"customerEmail": input.CustomerEmail,
		}).WithError(err).Error("orphaned bill: order insert failed after bill creation")
		return nil, fmt.Errorf("persist order for bill %s: %w", bill.ID, err)
	}

	return bill, nil
}

// Update applies an administrative patch and returns the updated order.
func (s *OrderService) Update(ctx context.Context, caller auth.Caller, id string, patch store.OrderPatch) (*models.Order, error) {
	if !auth.CanManageOrders(caller) {
		return nil, ErrForbidden
	}
	if patch.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrBadRequest)
	}
	if patch.Status != nil && !validStatus(*patch.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrBadRequest, *patch.Status)
	}
	return s.store.UpdateByID(ctx, id, patch)
}

// Delete physically removes an order and returns the removed document.
func (s *OrderService) Delete(ctx context.Context, caller auth.Caller, id string) (*models.Order, error) {
	if !auth.CanManageOrders(caller) {
		return nil, ErrForbidden
	}
	return s.store.DeleteByID(ctx, id)
}

func validStatus(status string) bool {
	for _, s := range models.OrderStatuses() {
		if status == s {
			return true
		}
	}
	return false
}
