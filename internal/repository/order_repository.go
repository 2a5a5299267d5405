package repository

import (
	"context"

	"mistika/internal/domain/model"
)

type OrderListFilter struct {
	Limit  int
	Offset int

	//statusの完全一致（空なら全件）
	Status string
}

type OrderRepository interface {
	//一覧と詳細は明細＋商品表示情報込みで返す
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//注文番号が衝突したら ErrConflict を返す
	Create(ctx context.Context, order model.Order) (int64, error)
	Update(ctx context.Context, orderID int64, fields map[string]interface{}) error
	Delete(ctx context.Context, orderID int64) error

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error)
}
