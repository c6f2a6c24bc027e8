package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/auth"
	"storefront/billplz"
	"storefront/models"
	"storefront/store"
)

var (
	adminCaller = auth.Caller{ID: "admin", Email: "admin@x.com", Role: auth.RoleAdmin}
	userCaller  = auth.Caller{ID: "user", Email: "a@x.com", Role: auth.RoleUser}
)

type mockGateway struct {
	bill     *billplz.Bill
	err      error
	calls    int
	lastBill billplz.BillRequest
}

func (m *mockGateway) CreateBill(ctx context.Context, bill billplz.BillRequest) (*billplz.Bill, error) {
	m.calls++
	m.lastBill = bill
	if m.err != nil {
		return nil, m.err
	}
	return m.bill, nil
}

// spyStore counts writes so tests can assert they were never attempted.
type spyStore struct {
	store.OrderStore
	insertCalls int
	insertErr   error
	updateCalls int
	deleteCalls int
}

func (s *spyStore) Insert(ctx context.Context, order models.Order) (*models.Order, error) {
	s.insertCalls++
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	return s.OrderStore.Insert(ctx, order)
}

func (s *spyStore) UpdateByID(ctx context.Context, id string, patch store.OrderPatch) (*models.Order, error) {
	s.updateCalls++
	return s.OrderStore.UpdateByID(ctx, id, patch)
}

func (s *spyStore) DeleteByID(ctx context.Context, id string) (*models.Order, error) {
	s.deleteCalls++
	return s.OrderStore.DeleteByID(ctx, id)
}

func newService(t *testing.T, gateway *mockGateway) (*OrderService, *spyStore, *logtest.Hook) {
	t.Helper()
	spy := &spyStore{OrderStore: store.NewMemoryStore()}
	logger, hook := logtest.NewNullLogger()
	return NewOrderService(spy, gateway, logger), spy, hook
}

func seedOrder(t *testing.T, s store.OrderStore, email, status string) *models.Order {
	t.Helper()
	order, err := s.Insert(context.Background(), models.Order{
		CustomerName:  "Customer",
		CustomerEmail: email,
		TotalPrice:    10,
		Status:        status,
		BillplzID:     "bill_seed",
	})
	require.NoError(t, err)
	return order
}

func TestList_UserScopedToOwnEmail(t *testing.T) {
	svc, spy, _ := newService(t, &mockGateway{})
	ctx := context.Background()

	seedOrder(t, spy.OrderStore, "a@x.com", models.OrderStatusPending)
	seedOrder(t, spy.OrderStore, "a@x.com", models.OrderStatusPaid)
	seedOrder(t, spy.OrderStore, "b@x.com", models.OrderStatusPaid)

	orders, err := svc.List(ctx, userCaller, "")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, order := range orders {
		assert.Equal(t, "a@x.com", order.CustomerEmail)
	}

	// Status composes with the forced ownership scope.
	paid, err := svc.List(ctx, userCaller, models.OrderStatusPaid)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, "a@x.com", paid[0].CustomerEmail)
}

func TestList_EmaillessUserSeesNothing(t *testing.T) {
	svc, spy, _ := newService(t, &mockGateway{})
	ctx := context.Background()

	seedOrder(t, spy.OrderStore, "a@x.com", models.OrderStatusPending)
	seedOrder(t, spy.OrderStore, "b@x.com", models.OrderStatusPaid)

	// A valid token whose user record is gone resolves with no email. That
	// caller owns no orders and must not fall through to an unscoped query.
	ghost := auth.Caller{ID: "ghost", Role: auth.RoleUser}
	orders, err := svc.List(ctx, ghost, "")
	require.NoError(t, err)
	assert.Empty(t, orders)

	orders, err = svc.List(ctx, ghost, models.OrderStatusPaid)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestList_AdminSeesEverything(t *testing.T) {
	svc, spy, _ := newService(t, &mockGateway{})
	ctx := context.Background()

	seedOrder(t, spy.OrderStore, "a@x.com", models.OrderStatusPending)
	seedOrder(t, spy.OrderStore, "b@x.com", models.OrderStatusPaid)

	orders, err := svc.List(ctx, adminCaller, "")
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	paid, err := svc.List(ctx, adminCaller, models.OrderStatusPaid)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, "b@x.com", paid[0].CustomerEmail)
}

func TestList_NewestFirst(t *testing.T) {
	svc, spy, _ := newService(t, &mockGateway{})
	ctx := context.Background()

	first := seedOrder(t, spy.OrderStore, "a@x.com", "")
	second := seedOrder(t, spy.OrderStore, "a@x.com", "")

	orders, err := svc.List(ctx, adminCaller, "")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestGet_OwnershipScope(t *testing.T) {
	svc, spy, _ := newService(t, &mockGateway{})
	ctx := context.Background()

	mine := seedOrder(t, spy.OrderStore, "a@x.com", "")
	theirs := seedOrder(t, spy.OrderStore, "b@x.com", "")

	got, err := svc.Get(ctx, userCaller, mine.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	// Someone else's order looks exactly like a missing one.
	_, err = svc.Get(ctx, userCaller, theirs.ID.Hex())
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err = svc.Get(ctx, adminCaller, theirs.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, theirs.ID, got.ID)
}

func TestCreate_HappyPath(t *testing.T) {
	gateway := &mockGateway{bill: &billplz.Bill{ID: "bill_1", URL: "https://pay/bill_1", State: "due"}}
	svc, _, _ := newService(t, gateway)
	ctx := context.Background()

	product := primitive.NewObjectID()
	bill, err := svc.Create(ctx, CreateOrderInput{
		CustomerName:  "A",
		CustomerEmail: "a@x.com",
		Products:      []string{product.Hex()},
		TotalPrice:    19.99,
		Description:   "d",
	})
	require.NoError(t, err)

	assert.Equal(t, "bill_1", bill.ID)
	assert.Equal(t, "https://pay/bill_1", bill.URL)
	assert.Equal(t, int64(1999), gateway.lastBill.Amount, "19.99 must convert to exactly 1999 sen")

	orders, err := svc.List(ctx, adminCaller, "")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "bill_1", orders[0].BillplzID)
	assert.Equal(t, models.OrderStatusPending, orders[0].Status)

	persisted, err := svc.Get(ctx, adminCaller, orders[0].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "bill_1", persisted.BillplzID)
	assert.Equal(t, []primitive.ObjectID{product}, persisted.Products)
}

func TestCreate_GatewayFailureIsFailFast(t *testing.T) {
	gateway := &mockGateway{err: &billplz.Error{StatusCode: 422, Message: "Email is invalid"}}
	svc, spy, _ := newService(t, gateway)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateOrderInput{
		CustomerName:  "A",
		CustomerEmail: "bad",
		Products:      []string{primitive.NewObjectID().Hex()},
		TotalPrice:    10,
		Description:   "d",
	})
	require.Error(t, err)

	var gatewayErr *billplz.Error
	assert.ErrorAs(t, err, &gatewayErr)

	// No local write may even be attempted.
	assert.Zero(t, spy.insertCalls)
	orders, err := svc.List(ctx, adminCaller, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreate_BadProductIDRejectedBeforeGateway(t *testing.T) {
	gateway := &mockGateway{bill: &billplz.Bill{ID: "bill_1"}}
	svc, spy, _ := newService(t, gateway)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerName:  "A",
		CustomerEmail: "a@x.com",
		Products:      []string{"not-hex"},
		TotalPrice:    10,
		Description:   "d",
	})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Zero(t, gateway.calls, "no bill may be created for an invalid request")
	assert.Zero(t, spy.insertCalls)
}

func TestCreate_OrphanedBillIsLogged(t *testing.T) {
	gateway := &mockGateway{bill: &billplz.Bill{ID: "bill_9", URL: "https://pay/bill_9"}}
	svc, spy, hook := newService(t, gateway)
	spy.insertErr = errors.New("store unavailable")

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerName:  "A",
		CustomerEmail: "a@x.com",
		Products:      []string{primitive.NewObjectID().Hex()},
		TotalPrice:    10,
		Description:   "d",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bill_9", "the orphaned bill id must be traceable")

	require.NotEmpty(t, hook.Entries)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "bill_9", entry.Data["billplz_id"])
}

func TestUpdate_ForbiddenForNonAdmin(t *testing.T) {
	svc, spy, _ := newService(t, &mockGateway{})
	ctx := context.Background()

	order := seedOrder(t, spy.OrderStore, "a@x.com", models.OrderStatusPending)

	paid := models.OrderStatusPaid
	_, err := svc.Update(ctx, userCaller, order.ID.Hex(), store.OrderPatch{Status: &paid})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, spy.updateCalls, "the gate runs before the store")

	unchanged, err := svc.Get(ctx, adminCaller, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, unchanged.Status)
}

func TestUpdate_AdminPatch(t *testing.T) {
	svc, spy, _ := newService(t, &mockGateway{})
	ctx := context.Background()

	order := seedOrder(t, spy.OrderStore, "a@x.com", models.OrderStatusPending)

	paid := models.OrderStatusPaid
	name := "Renamed"
	updated, err := svc.Update(ctx, adminCaller, order.ID.Hex(), store.OrderPatch{Status: &paid, CustomerName: &name})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, updated.Status)
	assert.Equal(t, "Renamed", updated.CustomerName)
	assert.Equal(t, "bill_seed", updated.BillplzID, "the bill reference is immutable")
}

func TestUpdate_RejectsUnknownStatus(t *testing.T) {
	svc, spy, _ := newService(t, &mockGateway{})
	ctx := context.Background()

	order := seedOrder(t, spy.OrderStore, "a@x.com", models.OrderStatusPending)

	bogus := "shipped-to-mars"
	_, err := svc.Update(ctx, adminCaller, order.ID.Hex(), store.OrderPatch{Status: &bogus})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Zero(t, spy.updateCalls)
}

func TestUpdate_RejectsEmptyPatch(t *testing.T) {
	svc, spy, _ := newService(t, &mockGateway{})
	ctx := context.Background()

	order := seedOrder(t, spy.OrderStore, "a@x.com", models.OrderStatusPending)

	_, err := svc.Update(ctx, adminCaller, order.ID.Hex(), store.OrderPatch{})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Zero(t, spy.updateCalls)
}

func TestDelete(t *testing.T) {
	svc, spy, _ := newService(t, &mockGateway{})
	ctx := context.Background()

	order := seedOrder(t, spy.OrderStore, "a@x.com", "")

	_, err := svc.Delete(ctx, userCaller, order.ID.Hex())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, spy.deleteCalls)

	removed, err := svc.Delete(ctx, adminCaller, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, order.ID, removed.ID)

	_, err = svc.Delete(ctx, adminCaller, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
