package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistGormRepository struct {
	db *gorm.DB
}

func NewWishlistGormRepository(db *gorm.DB) *WishlistGormRepository {
	return &WishlistGormRepository{db: db}
}

func (r *WishlistGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	var items []model.WishlistItem

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// 既に入っていれば何もしない（ON CONFLICT DO NOTHING）
func (r *WishlistGormRepository) Add(ctx context.Context, userID int64, productID int64) error {
	item := model.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&item).Error
}

func (r *WishlistGormRepository) Remove(ctx context.Context, userID int64, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.WishlistItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *WishlistGormRepository) Exists(ctx context.Context, userID int64, productID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
