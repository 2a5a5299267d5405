package handler

import (
	"net/http"
	"strconv"

	"mistika/internal/pagination"
	"mistika/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/orders
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/orders", h.list)
	g.POST("/orders", h.create)
	g.GET("/orders/:id", h.detail)
	g.PUT("/orders/:id", h.update)
	g.DELETE("/orders/:id", h.remove)
}

const orderDefaultLimit = 20

func (h *OrderHandler) list(c echo.Context) error {
	p := pagination.Resolve(c.QueryParam("page"), c.QueryParam("limit"), orderDefaultLimit)
	status := c.QueryParam("status")

	orders, total, err := h.uc.List(c.Request().Context(), p, status)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, listJSON(orders, pagination.NewMeta(p, total)))
}

type OrderAddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type OrderItemRequest struct {
	ProductID   int64   `json:"productId"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	ProductName string  `json:"productName"`
}

type OrderCreateRequest struct {
	CustomerName    string               `json:"customerName"`
	CustomerEmail   string               `json:"customerEmail"`
	CustomerPhone   string               `json:"customerPhone"`
	ShippingAddress OrderAddressRequest  `json:"shippingAddress"`
	BillingAddress  *OrderAddressRequest `json:"billingAddress"`
	ShippingMethod  string               `json:"shippingMethod"`
	PaymentMethod   string               `json:"paymentMethod"`
	Notes           string               `json:"notes"`
	Items           []OrderItemRequest   `json:"items"`
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid request body"))
	}

	in := usecase.CreateOrderInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ShippingAddress: usecase.AddressInput{
			Street:  req.ShippingAddress.Street,
			City:    req.ShippingAddress.City,
			State:   req.ShippingAddress.State,
			Zip:     req.ShippingAddress.Zip,
			Country: req.ShippingAddress.Country,
		},
		ShippingMethod: req.ShippingMethod,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
	}
	if req.BillingAddress != nil {
		in.BillingAddress = &usecase.AddressInput{
			Street:  req.BillingAddress.Street,
			City:    req.BillingAddress.City,
			State:   req.BillingAddress.State,
			Zip:     req.BillingAddress.Zip,
			Country: req.BillingAddress.Country,
		}
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, usecase.OrderItemInput{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			ProductName: it.ProductName,
		})
	}

	order, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dataJSON(order))
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid order ID"))
	}

	order, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dataJSON(order))
}

// 更新できるのはstatus/paymentStatus/shippingMethod/notesだけ。
// それ以外のフィールドは黙って無視する。
type OrderUpdateRequest struct {
	Status         *string `json:"status"`
	PaymentStatus  *string `json:"paymentStatus"`
	ShippingMethod *string `json:"shippingMethod"`
	Notes          *string `json:"notes"`
}

func (h *OrderHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid order ID"))
	}

	var req OrderUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid request body"))
	}

	order, err := h.uc.Update(c.Request().Context(), id, usecase.UpdateOrderInput{
		Status:         req.Status,
		PaymentStatus:  req.PaymentStatus,
		ShippingMethod: req.ShippingMethod,
		Notes:          req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dataJSON(order))
}

func (h *OrderHandler) remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid order ID"))
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Order deleted successfully"})
}
