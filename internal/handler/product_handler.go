package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"mistika/internal/pagination"
	"mistika/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type ListResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data"`
	Pagination pagination.Meta `json:"pagination"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorJSON(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Error: msg}
}

func dataJSON(data interface{}) DataResponse {
	return DataResponse{Success: true, Data: data}
}

func listJSON(data interface{}, meta pagination.Meta) ListResponse {
	return ListResponse{Success: true, Data: data, Pagination: meta}
}

// writeError はエラーをレスポンス封筒に変換する。
// 500系は原因をサーバ側ログにだけ出し、呼び出し元には汎用メッセージを返す。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError && he.Err != nil {
			slog.Error("request failed",
				"requestId", c.Response().Header().Get(echo.HeaderXRequestID),
				"path", c.Path(),
				"error", he.Err,
			)
		}
		return c.JSON(he.Status, errorJSON(he.Message))
	}

	//500
	slog.Error("unhandled error",
		"requestId", c.Response().Header().Get(echo.HeaderXRequestID),
		"path", c.Path(),
		"error", err,
	)
	return c.JSON(http.StatusInternalServerError, errorJSON("Internal server error"))
}

// /api/products
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products", h.list)
	g.GET("/products/:id", h.detail)
	g.POST("/products", h.create)
	g.PUT("/products/:id", h.update)
	g.DELETE("/products/:id", h.remove)
}

// 商品一覧のデフォルトは12件/ページ
const productDefaultLimit = 12

func (h *ProductHandler) list(c echo.Context) error {
	p := pagination.Resolve(c.QueryParam("page"), c.QueryParam("limit"), productDefaultLimit)

	products, total, err := h.uc.List(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, listJSON(products, pagination.NewMeta(p, total)))
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid product ID"))
	}

	product, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dataJSON(product))
}

type ProductCreateRequest struct {
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	DiscountPrice *float64 `json:"discountPrice"`
	IsOnSale      bool     `json:"isOnSale"`
	ImageURL      *string  `json:"imageUrl"`
	Slug          *string  `json:"slug"`
	CategoryID    *int64   `json:"categoryId"`
	Category      string   `json:"category"`
	Stock         *int64   `json:"stock"`
	IsActive      *bool    `json:"isActive"`
}

func (h *ProductHandler) create(c echo.Context) error {
	var req ProductCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid request body"))
	}

	product, err := h.uc.Create(c.Request().Context(), usecase.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		IsOnSale:      req.IsOnSale,
		ImageURL:      req.ImageURL,
		Slug:          req.Slug,
		CategoryID:    req.CategoryID,
		CategoryName:  req.Category,
		Stock:         req.Stock,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dataJSON(product))
}

type ProductUpdateRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	DiscountPrice *float64 `json:"discountPrice"`
	IsOnSale      *bool    `json:"isOnSale"`
	ImageURL      *string  `json:"imageUrl"`
	Slug          *string  `json:"slug"`
	CategoryID    *int64   `json:"categoryId"`
	Stock         *int64   `json:"stock"`
	IsActive      *bool    `json:"isActive"`
}

func (h *ProductHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid product ID"))
	}

	var req ProductUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid request body"))
	}

	product, err := h.uc.Update(c.Request().Context(), id, usecase.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		IsOnSale:      req.IsOnSale,
		ImageURL:      req.ImageURL,
		Slug:          req.Slug,
		CategoryID:    req.CategoryID,
		Stock:         req.Stock,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dataJSON(product))
}

func (h *ProductHandler) remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid product ID"))
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Product deleted successfully"})
}
