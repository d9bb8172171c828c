package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) Create(ctx context.Context, n model.Notification) error {
	return r.db.WithContext(ctx).Create(&n).Error
}

func (r *NotificationGormRepository) CreateBulk(ctx context.Context, ns []model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	//一斉通知で件数が多くなるのでバッチで入れる
	return r.db.WithContext(ctx).CreateInBatches(&ns, 500).Error
}

func (r *NotificationGormRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	var list []model.Notification

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// 本人の通知だけ既読にできる
func (r *NotificationGormRepository) MarkRead(ctx context.Context, userID int64, notificationID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", time.Now())

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *NotificationGormRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
