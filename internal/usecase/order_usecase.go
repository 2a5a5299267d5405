package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"mistika/internal/domain/model"
	"mistika/internal/pagination"
	repo "mistika/internal/repository"
)

// 注文番号が衝突したときの再発番の上限
const orderNumberMaxAttempts = 5

const defaultShippingCountry = "México"

type Clock interface {
	Now() time.Time
}

type OrderUsecase struct {
	tx      repo.TransactionManager
	orders  repo.OrderRepository
	pricing *PricingEngine
	numbers OrderNumberGenerator
	clock   Clock
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	pricing *PricingEngine,
	numbers OrderNumberGenerator,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{
		tx:      tx,
		orders:  orders,
		pricing: pricing,
		numbers: numbers,
		clock:   clock,
	}
}

type AddressInput struct {
	Street  string
	City    string
	State   string
	Zip     string
	Country string
}

type OrderItemInput struct {
	ProductID   int64
	Quantity    int64
	UnitPrice   float64
	ProductName string
}

type CreateOrderInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress AddressInput
	BillingAddress  *AddressInput
	ShippingMethod  string
	PaymentMethod   string
	Notes           string
	Items           []OrderItemInput
}

type OrderItemProductOutput struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

type OrderItemOutput struct {
	ID          int64                   `json:"id"`
	ProductID   int64                   `json:"productId"`
	Quantity    int64                   `json:"quantity"`
	UnitPrice   float64                 `json:"unitPrice"`
	TotalPrice  float64                 `json:"totalPrice"`
	ProductName string                  `json:"productName"`
	Product     *OrderItemProductOutput `json:"product"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	OrderNumber string            `json:"orderNumber"`
	Status      model.OrderStatus `json:"status"`

	TotalAmount  float64 `json:"totalAmount"`
	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shippingCost"`
	Tax          float64 `json:"tax"`

	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone"`

	ShippingStreet  string `json:"shippingStreet"`
	ShippingCity    string `json:"shippingCity"`
	ShippingState   string `json:"shippingState"`
	ShippingZip     string `json:"shippingZip"`
	ShippingCountry string `json:"shippingCountry"`

	BillingStreet  *string `json:"billingStreet"`
	BillingCity    *string `json:"billingCity"`
	BillingState   *string `json:"billingState"`
	BillingZip     *string `json:"billingZip"`
	BillingCountry *string `json:"billingCountry"`

	ShippingMethod string              `json:"shippingMethod"`
	PaymentMethod  *string             `json:"paymentMethod"`
	PaymentStatus  model.PaymentStatus `json:"paymentStatus"`
	Notes          *string             `json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items []OrderItemOutput `json:"items"`
}

// Create は注文を確定する。金額計算→発番→ヘッダと明細を1トランザクションで保存。
// 注文番号が衝突したら新しい番号でトランザクションごとやり直す。
func (u *OrderUsecase) Create(ctx context.Context, in CreateOrderInput) (OrderOutput, error) {
	if err := validateCreateOrder(in); err != nil {
		return OrderOutput{}, err
	}

	method := in.ShippingMethod
	if method == "" {
		method = u.pricing.DefaultMethod()
	}

	country := in.ShippingAddress.Country
	if country == "" {
		country = defaultShippingCountry
	}

	pricingItems := make([]PricingItem, 0, len(in.Items))
	for _, it := range in.Items {
		pricingItems = append(pricingItems, PricingItem{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}
	pr := u.pricing.Compute(pricingItems, method)

	var out OrderOutput

	for attempt := 0; attempt < orderNumberMaxAttempts; attempt++ {
		orderNumber := u.numbers.Generate(u.clock.Now())

		err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			//カタログ照合。存在しない商品を指す注文は弾く
			products := make(map[int64]model.Product, len(in.Items))
			for _, it := range in.Items {
				p, err := r.Products().FindByID(ctx, it.ProductID)
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusBadRequest, "Invalid productId")
				}
				if err != nil {
					return WrapError(http.StatusInternalServerError, "Failed to create order", err)
				}
				products[it.ProductID] = p
			}

			order := model.Order{
				OrderNumber:     orderNumber,
				Status:          model.OrderStatusPending,
				TotalAmount:     pr.Total,
				Subtotal:        pr.Subtotal,
				ShippingCost:    pr.ShippingCost,
				Tax:             pr.Tax,
				CustomerName:    in.CustomerName,
				CustomerEmail:   in.CustomerEmail,
				CustomerPhone:   optional(in.CustomerPhone),
				ShippingStreet:  in.ShippingAddress.Street,
				ShippingCity:    in.ShippingAddress.City,
				ShippingState:   in.ShippingAddress.State,
				ShippingZip:     in.ShippingAddress.Zip,
				ShippingCountry: country,
				ShippingMethod:  method,
				PaymentMethod:   optional(in.PaymentMethod),
				PaymentStatus:   model.PaymentStatusPending,
				Notes:           optional(in.Notes),
			}

			//請求先はフィールドごとに任意（無ければnullのまま）
			if in.BillingAddress != nil {
				order.BillingStreet = optional(in.BillingAddress.Street)
				order.BillingCity = optional(in.BillingAddress.City)
				order.BillingState = optional(in.BillingAddress.State)
				order.BillingZip = optional(in.BillingAddress.Zip)
				order.BillingCountry = optional(in.BillingAddress.Country)
			}

			orderID, err := r.Orders().Create(ctx, order)
			if err != nil {
				//ErrConflictはそのまま上へ（再発番につなげる）
				if errors.Is(err, repo.ErrConflict) {
					return err
				}
				return WrapError(http.StatusInternalServerError, "Failed to create order", err)
			}

			//明細スナップショット
			items := make([]model.OrderItem, 0, len(in.Items))
			for _, it := range in.Items {
				items = append(items, model.OrderItem{
					ProductID:   it.ProductID,
					Quantity:    it.Quantity,
					UnitPrice:   it.UnitPrice,
					TotalPrice:  it.UnitPrice * float64(it.Quantity),
					ProductName: it.ProductName,
				})
			}
			if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
				return WrapError(http.StatusInternalServerError, "Failed to create order", err)
			}

			//表示用の商品情報を載せてレスポンスを組み立てる
			order.ID = orderID
			for i := range items {
				p := products[items[i].ProductID]
				items[i].Product = &p
			}
			order.Items = items
			out = toOrderOutput(order)
			return nil
		})

		if err == nil {
			return out, nil
		}
		if errors.Is(err, repo.ErrConflict) {
			continue
		}
		if _, ok := AsHTTPError(err); ok {
			return OrderOutput{}, err
		}
		return OrderOutput{}, WrapError(http.StatusInternalServerError, "Failed to create order", err)
	}

	return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "Failed to create order")
}

func (u *OrderUsecase) List(ctx context.Context, p pagination.Params, status string) ([]OrderOutput, int64, error) {
	orders, total, err := u.orders.List(ctx, repo.OrderListFilter{
		Limit:  p.Limit,
		Offset: p.Offset,
		Status: status,
	})
	if err != nil {
		return []OrderOutput{}, 0, WrapError(http.StatusInternalServerError, "Failed to fetch orders", err)
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return outs, total, nil
}

func (u *OrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return OrderOutput{}, WrapError(http.StatusInternalServerError, "Failed to fetch order", err)
	}
	return toOrderOutput(o), nil
}

type UpdateOrderInput struct {
	Status         *string
	PaymentStatus  *string
	ShippingMethod *string
	Notes          *string
}

// Update は status / paymentStatus / shippingMethod / notes のみを更新する。
// それ以外のフィールドはこの入力に存在しないので永続化されようがない。
// 金額は再計算しない（作成時に確定済み）。
func (u *OrderUsecase) Update(ctx context.Context, orderID int64, in UpdateOrderInput) (OrderOutput, error) {
	fields := map[string]interface{}{}

	if in.Status != nil {
		if !validOrderStatus(*in.Status) {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "Invalid status")
		}
		fields["status"] = *in.Status
	}
	if in.PaymentStatus != nil {
		if !validPaymentStatus(*in.PaymentStatus) {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "Invalid paymentStatus")
		}
		fields["payment_status"] = *in.PaymentStatus
	}
	if in.ShippingMethod != nil {
		fields["shipping_method"] = *in.ShippingMethod
	}
	if in.Notes != nil {
		fields["notes"] = *in.Notes
	}

	if len(fields) > 0 {
		err := u.orders.Update(ctx, orderID, fields)
		if errors.Is(err, repo.ErrNotFound) {
			return OrderOutput{}, NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return OrderOutput{}, WrapError(http.StatusInternalServerError, "Failed to update order", err)
		}
	}

	return u.Get(ctx, orderID)
}

// Delete は注文を明細ごと消す。GETと同じく、無い注文は404。
func (u *OrderUsecase) Delete(ctx context.Context, orderID int64) error {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return WrapError(http.StatusInternalServerError, "Failed to delete order", err)
		}
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "Order not found")
			}
			return WrapError(http.StatusInternalServerError, "Failed to delete order", err)
		}
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return err
		}
		return WrapError(http.StatusInternalServerError, "Failed to delete order", err)
	}
	return nil
}

func validateCreateOrder(in CreateOrderInput) error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return NewHTTPError(http.StatusBadRequest, "customerName is required")
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		return NewHTTPError(http.StatusBadRequest, "customerEmail is required")
	}
	if strings.TrimSpace(in.ShippingAddress.Street) == "" ||
		strings.TrimSpace(in.ShippingAddress.City) == "" ||
		strings.TrimSpace(in.ShippingAddress.State) == "" ||
		strings.TrimSpace(in.ShippingAddress.Zip) == "" {
		return NewHTTPError(http.StatusBadRequest, "shippingAddress is incomplete")
	}
	if len(in.Items) == 0 {
		return NewHTTPError(http.StatusBadRequest, "At least one item is required")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return NewHTTPError(http.StatusBadRequest, "Invalid productId")
		}
		if it.Quantity < 1 {
			return NewHTTPError(http.StatusBadRequest, "Quantity must be >= 1")
		}
		if it.UnitPrice < 0 {
			return NewHTTPError(http.StatusBadRequest, "unitPrice must be >= 0")
		}
	}
	return nil
}

func validOrderStatus(s string) bool {
	switch model.OrderStatus(s) {
	case model.OrderStatusPending, model.OrderStatusProcessing, model.OrderStatusShipped,
		model.OrderStatusDelivered, model.OrderStatusCancelled:
		return true
	}
	return false
}

func validPaymentStatus(s string) bool {
	switch model.PaymentStatus(s) {
	case model.PaymentStatusPending, model.PaymentStatusPaid,
		model.PaymentStatusFailed, model.PaymentStatusRefunded:
		return true
	}
	return false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toOrderOutput(o model.Order) OrderOutput {
	items := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		var p *OrderItemProductOutput
		if it.Product != nil {
			p = &OrderItemProductOutput{
				ID:       it.Product.ID,
				Name:     it.Product.Name,
				ImageURL: it.Product.ImageURL,
			}
		}
		items = append(items, OrderItemOutput{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
			ProductName: it.ProductName,
			Product:     p,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		Tax:             o.Tax,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		ShippingStreet:  o.ShippingStreet,
		ShippingCity:    o.ShippingCity,
		ShippingState:   o.ShippingState,
		ShippingZip:     o.ShippingZip,
		ShippingCountry: o.ShippingCountry,
		BillingStreet:   o.BillingStreet,
		BillingCity:     o.BillingCity,
		BillingState:    o.BillingState,
		BillingZip:      o.BillingZip,
		BillingCountry:  o.BillingCountry,
		ShippingMethod:  o.ShippingMethod,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           items,
	}
}
