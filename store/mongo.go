package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/models"
)

// MongoStore keeps orders in the orders collection and resolves product
// references against the products collection at read time.
type MongoStore struct {
	orders   *mongo.Collection
	products *mongo.Collection
}

func NewMongoStore(orders, products *mongo.Collection) *MongoStore {
	return &MongoStore{orders: orders, products: products}
}

func (s *MongoStore) Find(ctx context.Context, filter ListFilter) ([]models.OrderDetail, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.CustomerEmail != "" {
		query["customerEmail"] = filter.CustomerEmail
	}

	opts := options.Find().SetSort(bson.M{"_id": -1})
	cursor, err := s.orders.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	details := make([]models.OrderDetail, 0, len(orders))
	for _, order := range orders {
		details = append(details, models.OrderDetail{
			ID:            order.ID,
			CustomerName:  order.CustomerName,
			CustomerEmail: order.CustomerEmail,
			Products:      s.resolveProducts(ctx, order.Products),
			TotalPrice:    order.TotalPrice,
			Status:        order.Status,
			BillplzID:     order.BillplzID,
			Description:   order.Description,
			CreatedAt:     order.CreatedAt,
		})
	}

	return details, nil
}

// resolveProducts is the read-time join. A dangling reference is skipped
// rather than failing the whole listing.
func (s *MongoStore) resolveProducts(ctx context.Context, refs []primitive.ObjectID) []models.Product {
	products := make([]models.Product, 0, len(refs))
	for _, ref := range refs {
		var product models.Product
		if err := s.products.FindOne(ctx, bson.M{"_id": ref}).Decode(&product); err != nil {
			continue
		}
		products = append(products, product)
	}
	return products
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Order, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var order models.Order
	if err := s.orders.FindOne(ctx, bson.M{"_id": objID}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *MongoStore) Insert(ctx context.Context, order models.Order) (*models.Order, error) {
	if err := validateDraft(order); err != nil {
		return nil, err
	}

	order.ID = primitive.NewObjectID()
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	order.CreatedAt = time.Now()

	if _, err := s.orders.InsertOne(ctx, order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *MongoStore) UpdateByID(ctx context.Context, id string, patch OrderPatch) (*models.Order, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.CustomerName != nil {
		set["customerName"] = *patch.CustomerName
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Order
	err = s.orders.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, id string) (*models.Order, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var removed models.Order
	err = s.orders.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&removed)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &removed, nil
}

var _ OrderStore = (*MongoStore)(nil)
