package handler

import (
	"net/http"
	"strconv"

	"mistika/internal/pagination"
	"mistika/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/categories
type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/categories", h.list)
	g.GET("/categories/:id", h.detail)
	g.POST("/categories", h.create)
	g.PUT("/categories/:id", h.update)
	g.DELETE("/categories/:id", h.remove)
}

const categoryDefaultLimit = 20

func (h *CategoryHandler) list(c echo.Context) error {
	p := pagination.Resolve(c.QueryParam("page"), c.QueryParam("limit"), categoryDefaultLimit)
	activeOnly := c.QueryParam("activeOnly") == "true"

	categories, total, err := h.uc.List(c.Request().Context(), p, activeOnly)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, listJSON(categories, pagination.NewMeta(p, total)))
}

func (h *CategoryHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid category ID"))
	}

	category, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dataJSON(category))
}

type CategoryCreateRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

func (h *CategoryHandler) create(c echo.Context) error {
	var req CategoryCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid request body"))
	}

	category, err := h.uc.Create(c.Request().Context(), usecase.CreateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dataJSON(category))
}

type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

func (h *CategoryHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid category ID"))
	}

	var req CategoryUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid request body"))
	}

	category, err := h.uc.Update(c.Request().Context(), id, usecase.UpdateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dataJSON(category))
}

func (h *CategoryHandler) remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid category ID"))
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Category deleted successfully"})
}
