package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type AddressGormRepository struct {
	db *gorm.DB
}

func NewAddressGormRepository(db *gorm.DB) *AddressGormRepository {
	return &AddressGormRepository{db: db}
}

func (r *AddressGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	var list []model.Address

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default desc, id asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *AddressGormRepository) FindByID(ctx context.Context, id int64) (model.Address, error) {
	var a model.Address

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Address{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Address{}, err
	}
	return a, nil
}

func (r *AddressGormRepository) Create(ctx context.Context, a model.Address) (model.Address, error) {
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return model.Address{}, err
	}
	return a, nil
}

func (r *AddressGormRepository) Update(ctx context.Context, a model.Address) error {
	res := r.db.WithContext(ctx).
		Model(&model.Address{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"first_name":  a.FirstName,
			"last_name":   a.LastName,
			"postal_code": a.PostalCode,
			"prefecture":  a.Prefecture,
			"city":        a.City,
			"line1":       a.Line1,
			"line2":       a.Line2,
			"phone":       a.Phone,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *AddressGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Address{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *AddressGormRepository) IsOwnedByUser(ctx context.Context, id int64, userID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.Address{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// user内でdefaultは1つになるよう付け替える
func (r *AddressGormRepository) SetDefault(ctx context.Context, userID int64, addressID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Address{}).
			Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}

		res := tx.Model(&model.Address{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true)

		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
