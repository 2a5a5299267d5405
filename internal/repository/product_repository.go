package repository

import (
	"context"
	"errors"

	"mistika/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（注文番号・カテゴリslugなど）
var ErrConflict = errors.New("conflict")

// 一覧検索の条件
type ProductListQuery struct {
	Limit  int
	Offset int
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	Count(ctx context.Context) (int64, error)
}
