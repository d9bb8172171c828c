package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n model.Notification) error
	CreateBulk(ctx context.Context, ns []model.Notification) error
	ListByUserID(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
	//本人の通知だけ既読にできる
	MarkRead(ctx context.Context, userID int64, notificationID int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
}
