package repository

import (
	"context"

	"mistika/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	DeleteByOrderID(ctx context.Context, orderID int64) error
}
