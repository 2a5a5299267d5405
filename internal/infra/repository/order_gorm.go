package repository

import (
	"context"
	"errors"

	"mistika/internal/domain/model"
	repo "mistika/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// postgresの一意制約違反か
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	//status 絞り込み（完全一致）
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var orders []model.Order
	err := q.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id asc") }).
		Preload("Items.Product").
		Order("created_at desc").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return orders, total, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id asc") }).
		Preload("Items.Product").
		First(&o, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		//order_numberの衝突は呼び出し側で再発番する
		if isUniqueViolation(err) {
			return 0, repo.ErrConflict
		}
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) Update(ctx context.Context, orderID int64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", orderID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Order{}, orderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *OrderGormRepository) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ?", status).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
