package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/event"
	"storefront/internal/metric"
	repo "storefront/internal/repository"
)

type NotificationUsecase struct {
	notificationRepo repo.NotificationRepository
	userRepo         repo.UserRepository
}

func NewNotificationUsecase(
	notificationRepo repo.NotificationRepository,
	userRepo repo.UserRepository,
) *NotificationUsecase {
	return &NotificationUsecase{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

func (u *NotificationUsecase) ListMine(ctx context.Context, userID int64) ([]model.Notification, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	list, err := u.notificationRepo.ListByUserID(ctx, userID, 50)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

func (u *NotificationUsecase) MarkRead(ctx context.Context, userID int64, notificationID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if notificationID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.notificationRepo.MarkRead(ctx, userID, notificationID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

func (u *NotificationUsecase) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	n, err := u.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return n, nil
}

// 全アクティブユーザーへの一斉通知（管理者用）
func (u *NotificationUsecase) Broadcast(ctx context.Context, adminID int64, title string, body string) (int, error) {
	if adminID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(title) == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "title is required")
	}

	userIDs, err := u.userRepo.ListActiveIDs(ctx)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	ns := make([]model.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		ns = append(ns, model.Notification{
			UserID: id,
			Type:   model.NotificationTypeAnnouncement,
			Title:  strings.TrimSpace(title),
			Body:   body,
		})
	}

	if err := u.notificationRepo.CreateBulk(ctx, ns); err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	metric.NotificationsCreatedTotal.WithLabelValues(string(model.NotificationTypeAnnouncement)).Add(float64(len(ns)))
	return len(ns), nil
}

// Kafkaから受けた注文確定イベントを通知レコードに変換する。
// コンシューマのMessageProcessorとして使う
func (u *NotificationUsecase) HandleOrderPlaced(ctx context.Context, payload []byte) error {
	var ev event.OrderPlaced
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("unmarshal order placed event: %w", err)
	}
	if ev.OrderID <= 0 || ev.UserID <= 0 {
		return fmt.Errorf("invalid order placed event: order=%d user=%d", ev.OrderID, ev.UserID)
	}

	n := model.Notification{
		UserID: ev.UserID,
		Type:   model.NotificationTypeOrderPlaced,
		Title:  fmt.Sprintf("Order #%d confirmed", ev.OrderID),
		Body:   fmt.Sprintf("Your order of %d item(s) totaling %s has been placed.", ev.ItemCount, ev.Total),
	}

	if err := u.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	metric.NotificationsCreatedTotal.WithLabelValues(string(model.NotificationTypeOrderPlaced)).Inc()
	return nil
}
