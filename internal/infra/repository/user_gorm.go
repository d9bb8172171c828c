package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserGormRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserGormRepository) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserGormRepository) List(ctx context.Context, f repo.UserListFilter) ([]model.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.User{})

	if f.Q != "" {
		tx = tx.Where("email ILIKE ? OR display_name ILIKE ?", "%"+f.Q+"%", "%"+f.Q+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	offset := (f.Page - 1) * f.Limit
	if err := tx.Order("id asc").Offset(offset).Limit(f.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserGormRepository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	var ids []int64

	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("is_active = ?", true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *UserGormRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("is_active", active)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// token_versionを+1して新しい値を返す
func (r *UserGormRepository) BumpTokenVersion(ctx context.Context, userID int64) (int, error) {
	var newVersion int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ?", userID).
			Update("token_version", gorm.Expr("token_version + 1"))

		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		var u model.User
		if err := tx.Where("id = ?", userID).First(&u).Error; err != nil {
			return err
		}
		newVersion = u.TokenVersion
		return nil
	})

	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

func (r *UserGormRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
