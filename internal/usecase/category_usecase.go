package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"mistika/internal/domain/model"
	"mistika/internal/pagination"
	repo "mistika/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
}

func NewCategoryUsecase(categoryRepo repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo}
}

func (u *CategoryUsecase) List(ctx context.Context, p pagination.Params, activeOnly bool) ([]model.Category, int64, error) {
	categories, total, err := u.categoryRepo.List(ctx, repo.CategoryListQuery{
		Limit:      p.Limit,
		Offset:     p.Offset,
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return []model.Category{}, 0, WrapError(http.StatusInternalServerError, "Failed to fetch categories", err)
	}
	return categories, total, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, categoryID int64) (model.Category, error) {
	c, err := u.categoryRepo.FindByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "Category not found")
	}
	if err != nil {
		return model.Category{}, WrapError(http.StatusInternalServerError, "Failed to fetch category", err)
	}
	return c, nil
}

type CreateCategoryInput struct {
	Name        string
	Slug        string
	Description *string
	IsActive    *bool
}

func (u *CategoryUsecase) Create(ctx context.Context, in CreateCategoryInput) (model.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "Category name is required")
	}
	if strings.TrimSpace(in.Slug) == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "Category slug is required")
	}

	c := model.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        strings.TrimSpace(in.Slug),
		Description: in.Description,
		IsActive:    true,
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}

	created, err := u.categoryRepo.Create(ctx, c)
	if errors.Is(err, repo.ErrConflict) {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "Category slug already exists")
	}
	if err != nil {
		return model.Category{}, WrapError(http.StatusInternalServerError, "Failed to create category", err)
	}
	return created, nil
}

type UpdateCategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
	IsActive    *bool
}

func (u *CategoryUsecase) Update(ctx context.Context, categoryID int64, in UpdateCategoryInput) (model.Category, error) {
	fields := map[string]interface{}{}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return model.Category{}, NewHTTPError(http.StatusBadRequest, "Category name is required")
		}
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		if strings.TrimSpace(*in.Slug) == "" {
			return model.Category{}, NewHTTPError(http.StatusBadRequest, "Category slug is required")
		}
		fields["slug"] = strings.TrimSpace(*in.Slug)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}

	if len(fields) > 0 {
		err := u.categoryRepo.Update(ctx, categoryID, fields)
		if errors.Is(err, repo.ErrNotFound) {
			return model.Category{}, NewHTTPError(http.StatusNotFound, "Category not found")
		}
		if errors.Is(err, repo.ErrConflict) {
			return model.Category{}, NewHTTPError(http.StatusBadRequest, "Category slug already exists")
		}
		if err != nil {
			return model.Category{}, WrapError(http.StatusInternalServerError, "Failed to update category", err)
		}
	}

	return u.Get(ctx, categoryID)
}

func (u *CategoryUsecase) Delete(ctx context.Context, categoryID int64) error {
	err := u.categoryRepo.Delete(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Category not found")
	}
	if err != nil {
		return WrapError(http.StatusInternalServerError, "Failed to delete category", err)
	}
	return nil
}
