package repository

import (
	"context"

	"mistika/internal/domain/model"
)

type CategoryListQuery struct {
	Limit      int
	Offset     int
	ActiveOnly bool
}

type CategoryRepository interface {
	List(ctx context.Context, q CategoryListQuery) ([]model.Category, int64, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	FindBySlug(ctx context.Context, slug string) (model.Category, error)
	FindByName(ctx context.Context, name string) (model.Category, error)

	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	Count(ctx context.Context) (int64, error)
}
