package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"mistika/internal/domain/model"
	"mistika/internal/pagination"
	repo "mistika/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string

	//呼び出し元には返さずログにだけ出す元エラー
	Err error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// WrapError はHTTPErrorに元エラーを抱かせる（500のログ用）。
func WrapError(status int, message string, err error) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Err:     err,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository

	//起動時に解決済みのデフォルトカテゴリ
	defaultCategoryID int64
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	defaultCategoryID int64,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:       productRepo,
		categoryRepo:      categoryRepo,
		defaultCategoryID: defaultCategoryID,
	}
}

func (u *ProductUsecase) List(ctx context.Context, p pagination.Params) ([]model.Product, int64, error) {
	products, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return []model.Product{}, 0, WrapError(http.StatusInternalServerError, "Failed to fetch products", err)
	}
	return products, total, nil
}

func (u *ProductUsecase) Get(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, WrapError(http.StatusInternalServerError, "Failed to fetch product", err)
	}
	return p, nil
}

type CreateProductInput struct {
	Name          string
	Description   *string
	Price         *float64
	DiscountPrice *float64
	IsOnSale      bool
	ImageURL      *string
	Slug          *string

	//categoryIdかcategory名のどちらかで指定。どちらも無ければデフォルトカテゴリ
	CategoryID   *int64
	CategoryName string

	Stock    *int64
	IsActive *bool
}

func (u *ProductUsecase) Create(ctx context.Context, in CreateProductInput) (model.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Product name is required")
	}
	if in.Price != nil && *in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Price must be >= 0")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Stock must be >= 0")
	}

	categoryID, err := u.resolveCategoryID(ctx, in.CategoryID, in.CategoryName)
	if err != nil {
		return model.Product{}, err
	}

	p := model.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		IsOnSale:      in.IsOnSale,
		ImageURL:      in.ImageURL,
		Slug:          in.Slug,
		CategoryID:    categoryID,
		IsActive:      true,
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	created, err := u.productRepo.Create(ctx, p)
	if err != nil {
		return model.Product{}, WrapError(http.StatusInternalServerError, "Failed to create product", err)
	}

	//レスポンスにはカテゴリ込みで返す
	return u.Get(ctx, created.ID)
}

type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *float64
	DiscountPrice *float64
	IsOnSale      *bool
	ImageURL      *string
	Slug          *string
	CategoryID    *int64
	Stock         *int64
	IsActive      *bool
}

func (u *ProductUsecase) Update(ctx context.Context, productID int64, in UpdateProductInput) (model.Product, error) {
	fields := map[string]interface{}{}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "Product name is required")
		}
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "Price must be >= 0")
		}
		fields["price"] = *in.Price
	}
	if in.DiscountPrice != nil {
		fields["discount_price"] = *in.DiscountPrice
	}
	if in.IsOnSale != nil {
		fields["is_on_sale"] = *in.IsOnSale
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	if in.Slug != nil {
		fields["slug"] = *in.Slug
	}
	if in.CategoryID != nil {
		if _, err := u.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return model.Product{}, NewHTTPError(http.StatusBadRequest, "Invalid categoryId")
			}
			return model.Product{}, WrapError(http.StatusInternalServerError, "Failed to update product", err)
		}
		fields["category_id"] = *in.CategoryID
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "Stock must be >= 0")
		}
		fields["stock"] = *in.Stock
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}

	if len(fields) > 0 {
		err := u.productRepo.Update(ctx, productID, fields)
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
		}
		if err != nil {
			return model.Product{}, WrapError(http.StatusInternalServerError, "Failed to update product", err)
		}
	}

	return u.Get(ctx, productID)
}

func (u *ProductUsecase) Delete(ctx context.Context, productID int64) error {
	err := u.productRepo.Delete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return WrapError(http.StatusInternalServerError, "Failed to delete product", err)
	}
	return nil
}

// カテゴリの解決。明示ID → 旧式の名前指定 → デフォルトカテゴリの順。
// 名前指定はヒットしなければデフォルトに落とす（実行時のid=1フォールバックはしない）。
func (u *ProductUsecase) resolveCategoryID(ctx context.Context, categoryID *int64, categoryName string) (int64, error) {
	if categoryID != nil {
		if _, err := u.categoryRepo.FindByID(ctx, *categoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return 0, NewHTTPError(http.StatusBadRequest, "Invalid categoryId")
			}
			return 0, WrapError(http.StatusInternalServerError, "Failed to create product", err)
		}
		return *categoryID, nil
	}

	if name := strings.TrimSpace(categoryName); name != "" {
		c, err := u.categoryRepo.FindByName(ctx, name)
		if err == nil {
			return c.ID, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return 0, WrapError(http.StatusInternalServerError, "Failed to create product", err)
		}
	}

	return u.defaultCategoryID, nil
}
