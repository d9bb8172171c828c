package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order

	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	offset := (page - 1) * limit
	if err := tx.Order("id desc").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ステータスがfromの行だけ更新する。並行更新で別ステータスに変わっていたらfalse
func (r *OrderGormRepository) UpdateStatusIfCurrent(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderGormRepository) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	var o model.Order

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&o).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, false, nil
	}
	if err != nil {
		return model.Order{}, false, err
	}
	return o, true, nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Order{})

	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.UserID != nil {
		tx = tx.Where("user_id = ?", *f.UserID)
	}
	if f.From != nil {
		tx = tx.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	offset := (f.Page - 1) * f.Limit
	if err := tx.Order("id desc").Offset(offset).Limit(f.Limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ステータス別の件数（ダッシュボード用）
func (r *OrderGormRepository) CountByStatusSince(ctx context.Context, since time.Time) (map[model.OrderStatus]int64, error) {
	type row struct {
		Status model.OrderStatus
		Count  int64
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("status, count(*) as count").
		Where("created_at >= ?", since).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[model.OrderStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}

// キャンセル以外の売上合計
func (r *OrderGormRepository) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("sum(total_price)").
		Where("created_at >= ? AND status <> ?", since, model.OrderStatusCanceled).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}

	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
