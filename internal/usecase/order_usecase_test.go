package usecase

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mistika/internal/domain/model"
	"mistika/internal/pagination"
	repo "mistika/internal/repository"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// txManagerMock は WithinTx に渡す repos を固定して unit テストを回す
type txManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *txManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type txReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	products   repo.ProductRepository
	categories repo.CategoryRepository
}

func (r *txReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposMock) Products() repo.ProductRepository     { return r.products }
func (r *txReposMock) Categories() repo.CategoryRepository  { return r.categories }

// =====================
// Repository mocks
// =====================

type orderRepoMock struct{ mock.Mock }

func (m *orderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *orderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *orderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *orderRepoMock) Update(ctx context.Context, orderID int64, fields map[string]interface{}) error {
	args := m.Called(ctx, orderID, fields)
	return args.Error(0)
}

func (m *orderRepoMock) Delete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *orderRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *orderRepoMock) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type orderItemRepoMock struct{ mock.Mock }

func (m *orderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *orderItemRepoMock) DeleteByOrderID(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type productRepoMock struct{ mock.Mock }

func (m *productRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Get(1).(int64), args.Error(2)
}

func (m *productRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *productRepoMock) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *productRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *productRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// =====================
// Clock / 発番スタブ
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// seqNumberGen は呼ばれるたびに連番の注文番号を返す（衝突リトライの観測用）
type seqNumberGen struct{ n int }

func (g *seqNumberGen) Generate(now time.Time) string {
	g.n++
	return fmt.Sprintf("MIST-%s-%04d", now.UTC().Format("20060102"), 1000+g.n)
}

// =====================
// helpers
// =====================

func validInput() CreateOrderInput {
	return CreateOrderInput{
		CustomerName:  "María García",
		CustomerEmail: "maria@example.com",
		ShippingAddress: AddressInput{
			Street: "Av. Reforma 123",
			City:   "CDMX",
			State:  "CDMX",
			Zip:    "06600",
		},
		Items: []OrderItemInput{
			{ProductID: 1, Quantity: 2, UnitPrice: 100, ProductName: "Vela Lavanda"},
			{ProductID: 2, Quantity: 1, UnitPrice: 50, ProductName: "Vela Vainilla"},
		},
	}
}

func newOrderTestBed() (*OrderUsecase, *txManagerMock, *orderRepoMock, *orderItemRepoMock, *productRepoMock) {
	orders := &orderRepoMock{}
	items := &orderItemRepoMock{}
	products := &productRepoMock{}
	tx := &txManagerMock{Repos: &txReposMock{orders: orders, orderItems: items, products: products}}
	tx.On("WithinTx", mock.Anything).Return(nil)

	clock := fixedClock{t: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	uc := NewOrderUsecase(tx, orders, newTestPricingEngine(), &seqNumberGen{}, clock)
	return uc, tx, orders, items, products
}

// =====================
// Create
// =====================

func TestOrderCreateDefaultsAndTotals(t *testing.T) {
	uc, _, orders, items, products := newOrderTestBed()

	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "Vela Lavanda"}, nil)
	products.On("FindByID", mock.Anything, int64(2)).Return(model.Product{ID: 2, Name: "Vela Vainilla"}, nil)

	var saved model.Order
	orders.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(model.Order) }).
		Return(int64(77), nil)
	items.On("CreateBulk", mock.Anything, int64(77), mock.Anything).Return(nil)

	in := validInput() // shippingMethod・country未指定
	out, err := uc.Create(context.Background(), in)
	require.NoError(t, err)

	// デフォルトの埋まり方
	assert.Equal(t, "standard", saved.ShippingMethod)
	assert.Equal(t, "México", saved.ShippingCountry)
	assert.Equal(t, model.OrderStatusPending, saved.Status)
	assert.Equal(t, model.PaymentStatusPending, saved.PaymentStatus)
	assert.Nil(t, saved.Notes)
	assert.Nil(t, saved.BillingStreet)

	// 金額: subtotal=250, standard=150, tax=40
	assert.Equal(t, 250.0, saved.Subtotal)
	assert.Equal(t, 150.0, saved.ShippingCost)
	assert.Equal(t, 40.0, saved.Tax)
	assert.Equal(t, 440.0, saved.TotalAmount)

	assert.Equal(t, int64(77), out.ID)
	assert.Regexp(t, `^MIST-20260314-\d{4}$`, out.OrderNumber)
	require.Len(t, out.Items, 2)
	assert.Equal(t, 200.0, out.Items[0].TotalPrice)
	require.NotNil(t, out.Items[0].Product)
	assert.Equal(t, "Vela Lavanda", out.Items[0].Product.Name)
}

// Test: 注文番号衝突→新しい番号で再試行
func TestOrderCreateRetriesOnConflict(t *testing.T) {
	uc, _, orders, items, products := newOrderTestBed()

	products.On("FindByID", mock.Anything, mock.Anything).Return(model.Product{ID: 1, Name: "Vela"}, nil)

	numbers := []string{}
	orders.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			numbers = append(numbers, args.Get(1).(model.Order).OrderNumber)
		}).
		Return(int64(0), repo.ErrConflict).Once()
	orders.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			numbers = append(numbers, args.Get(1).(model.Order).OrderNumber)
		}).
		Return(int64(5), nil).Once()
	items.On("CreateBulk", mock.Anything, int64(5), mock.Anything).Return(nil)

	out, err := uc.Create(context.Background(), validInput())
	require.NoError(t, err)

	require.Len(t, numbers, 2)
	assert.NotEqual(t, numbers[0], numbers[1])
	assert.Equal(t, numbers[1], out.OrderNumber)
}

func TestOrderCreateGivesUpAfterMaxAttempts(t *testing.T) {
	uc, _, orders, _, products := newOrderTestBed()

	products.On("FindByID", mock.Anything, mock.Anything).Return(model.Product{ID: 1}, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(int64(0), repo.ErrConflict)

	_, err := uc.Create(context.Background(), validInput())
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	orders.AssertNumberOfCalls(t, "Create", orderNumberMaxAttempts)
}

func TestOrderCreateUnknownProduct(t *testing.T) {
	uc, _, _, _, products := newOrderTestBed()

	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{}, repo.ErrNotFound)

	in := validInput()
	_, err := uc.Create(context.Background(), in)
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "Invalid productId", he.Message)
}

func TestOrderCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *CreateOrderInput)
	}{
		{"missing customerName", func(in *CreateOrderInput) { in.CustomerName = "  " }},
		{"missing customerEmail", func(in *CreateOrderInput) { in.CustomerEmail = "" }},
		{"missing shipping city", func(in *CreateOrderInput) { in.ShippingAddress.City = "" }},
		{"no items", func(in *CreateOrderInput) { in.Items = nil }},
		{"zero quantity", func(in *CreateOrderInput) { in.Items[0].Quantity = 0 }},
		{"negative unitPrice", func(in *CreateOrderInput) { in.Items[0].UnitPrice = -1 }},
		{"bad productId", func(in *CreateOrderInput) { in.Items[0].ProductID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, tx, _, _, _ := newOrderTestBed()

			in := validInput()
			tt.mutate(&in)

			_, err := uc.Create(context.Background(), in)
			require.Error(t, err)

			he, ok := AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Status)

			// バリデーションで弾かれたらTxまで到達しない
			tx.AssertNotCalled(t, "WithinTx", mock.Anything)
		})
	}
}

// =====================
// Get / Update / Delete
// =====================

func TestOrderGetNotFound(t *testing.T) {
	uc, _, orders, _, _ := newOrderTestBed()

	orders.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.Get(context.Background(), 99)
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "Order not found", he.Message)
}

func TestOrderUpdateRestrictedFields(t *testing.T) {
	uc, _, orders, _, _ := newOrderTestBed()

	status := "shipped"
	notes := "entregar en la tarde"

	var fields map[string]interface{}
	orders.On("Update", mock.Anything, int64(7), mock.Anything).
		Run(func(args mock.Arguments) { fields = args.Get(2).(map[string]interface{}) }).
		Return(nil)
	orders.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, OrderNumber: "MIST-20260314-1234", Status: model.OrderStatusShipped}, nil)

	out, err := uc.Update(context.Background(), 7, UpdateOrderInput{Status: &status, Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"status": "shipped", "notes": notes}, fields)
	assert.Equal(t, model.OrderStatusShipped, out.Status)
}

func TestOrderUpdateInvalidStatus(t *testing.T) {
	uc, _, orders, _, _ := newOrderTestBed()

	bad := "teleported"
	_, err := uc.Update(context.Background(), 7, UpdateOrderInput{Status: &bad})
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "Invalid status", he.Message)
	orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUpdateInvalidPaymentStatus(t *testing.T) {
	uc, _, _, _, _ := newOrderTestBed()

	bad := "iou"
	_, err := uc.Update(context.Background(), 7, UpdateOrderInput{PaymentStatus: &bad})
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "Invalid paymentStatus", he.Message)
}

// Test: 更新対象フィールドが無ければ保存は呼ばず現状を返す
func TestOrderUpdateNoFields(t *testing.T) {
	uc, _, orders, _, _ := newOrderTestBed()

	orders.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, Status: model.OrderStatusPending}, nil)

	out, err := uc.Update(context.Background(), 7, UpdateOrderInput{})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, out.Status)
	orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUpdateMissingOrder(t *testing.T) {
	uc, _, orders, _, _ := newOrderTestBed()

	status := "cancelled"
	orders.On("Update", mock.Anything, int64(404), mock.Anything).Return(repo.ErrNotFound)

	_, err := uc.Update(context.Background(), 404, UpdateOrderInput{Status: &status})
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestOrderDelete(t *testing.T) {
	uc, _, orders, items, _ := newOrderTestBed()

	items.On("DeleteByOrderID", mock.Anything, int64(7)).Return(nil)
	orders.On("Delete", mock.Anything, int64(7)).Return(nil)

	err := uc.Delete(context.Background(), 7)
	require.NoError(t, err)
}

// Test: 無い注文のDELETEはGETと同じ404
func TestOrderDeleteMissing(t *testing.T) {
	uc, _, orders, items, _ := newOrderTestBed()

	items.On("DeleteByOrderID", mock.Anything, int64(404)).Return(nil)
	orders.On("Delete", mock.Anything, int64(404)).Return(repo.ErrNotFound)

	err := uc.Delete(context.Background(), 404)
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "Order not found", he.Message)
}

func TestOrderListPassesFilter(t *testing.T) {
	uc, _, orders, _, _ := newOrderTestBed()

	orders.On("List", mock.Anything, repo.OrderListFilter{Limit: 20, Offset: 20, Status: "pending"}).
		Return([]model.Order{{ID: 1}, {ID: 2}}, int64(42), nil)

	outs, total, err := uc.List(context.Background(), pagination.Params{Page: 2, Limit: 20, Offset: 20}, "pending")
	require.NoError(t, err)
	assert.Len(t, outs, 2)
	assert.Equal(t, int64(42), total)
}
