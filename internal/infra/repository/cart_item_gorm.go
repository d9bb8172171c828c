package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

func (r *CartItemGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

func (r *CartItemGormRepository) FindByID(ctx context.Context, id int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func (r *CartItemGormRepository) FindByCartAndProduct(ctx context.Context, cartID int64, productID int64, size string) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND size = ?", cartID, productID, size).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// 同一商品・同一サイズは数量加算。無ければ新規作成
func (r *CartItemGormRepository) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, size string, addQty int64, unitPriceSnapshot decimal.Decimal) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND product_id = ? AND size = ?", cartID, productID, size).
			First(&item).Error

		if err == nil {
			res := tx.Model(&model.CartItem{}).
				Where("id = ?", item.ID).
				Update("quantity", item.Quantity+addQty)

			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		newItem := model.CartItem{
			CartID:            cartID,
			ProductID:         productID,
			Size:              size,
			Quantity:          addQty,
			UnitPriceSnapshot: unitPriceSnapshot,
		}
		return tx.Create(&newItem).Error
	})
}

func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, id int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", id).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartItemGormRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CartItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細→カート→所有者の順にたどって本人のものか確認
func (r *CartItemGormRepository) IsOwnedByUser(ctx context.Context, id int64, userID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
