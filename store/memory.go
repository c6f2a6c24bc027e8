package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
)

// MemoryStore is an in-memory OrderStore for local development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	orders   map[primitive.ObjectID]models.Order
	products map[primitive.ObjectID]models.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:   make(map[primitive.ObjectID]models.Order),
		products: make(map[primitive.ObjectID]models.Product),
	}
}

// SeedProduct registers a product for the read-time join.
func (s *MemoryStore) SeedProduct(product models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = product
}

func (s *MemoryStore) Find(ctx context.Context, filter ListFilter) ([]models.OrderDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.CustomerEmail != "" && order.CustomerEmail != filter.CustomerEmail {
			continue
		}
		matched = append(matched, order)
	}

	// ObjectIDs are time-ordered, so descending id is newest-first.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID.Hex() > matched[j].ID.Hex()
	})

	details := make([]models.OrderDetail, 0, len(matched))
	for _, order := range matched {
		products := make([]models.Product, 0, len(order.Products))
		for _, ref := range order.Products {
			if product, ok := s.products[ref]; ok {
				products = append(products, product)
			}
		}
		details = append(details, models.OrderDetail{
			ID:            order.ID,
			CustomerName:  order.CustomerName,
			CustomerEmail: order.CustomerEmail,
			Products:      products,
			TotalPrice:    order.TotalPrice,
			Status:        order.Status,
			BillplzID:     order.BillplzID,
			Description:   order.Description,
			CreatedAt:     order.CreatedAt,
		})
	}

	return details, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*models.Order, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[objID]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

func (s *MemoryStore) Insert(ctx context.Context, order models.Order) (*models.Order, error) {
	if err := validateDraft(order); err != nil {
		return nil, err
	}

	order.ID = primitive.NewObjectID()
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	order.CreatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order

	return &order, nil
}

func (s *MemoryStore) UpdateByID(ctx context.Context, id string, patch OrderPatch) (*models.Order, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[objID]
	if !ok {
		return nil, ErrNotFound
	}

	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.CustomerName != nil {
		order.CustomerName = *patch.CustomerName
	}
	s.orders[objID] = order

	return &order, nil
}

func (s *MemoryStore) DeleteByID(ctx context.Context, id string) (*models.Order, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[objID]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.orders, objID)

	return &order, nil
}

var _ OrderStore = (*MemoryStore)(nil)
