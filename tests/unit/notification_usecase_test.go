package unit

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newNotificationFixture() (*notificationRepoMock, *userRepoMock, *usecase.NotificationUsecase) {
	nRepo := new(notificationRepoMock)
	uRepo := new(userRepoMock)
	return nRepo, uRepo, usecase.NewNotificationUsecase(nRepo, uRepo)
}

func TestNotificationUsecase_HandleOrderPlaced(t *testing.T) {
	ctx := context.Background()
	nRepo, _, uc := newNotificationFixture()

	nRepo.On("Create", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
		return n.UserID == 1 &&
			n.Type == model.NotificationTypeOrderPlaced &&
			n.Title == "Order #99 confirmed" &&
			n.Body == "Your order of 2 item(s) totaling 42.68 has been placed."
	})).Return(nil)

	payload := []byte(`{"order_id":99,"user_id":1,"item_count":2,"total":"42.68","placed_at":"2026-08-30T00:00:00Z"}`)
	err := uc.HandleOrderPlaced(ctx, payload)

	assert.NoError(t, err)
	nRepo.AssertExpectations(t)
}

func TestNotificationUsecase_HandleOrderPlaced_BadPayload(t *testing.T) {
	nRepo, _, uc := newNotificationFixture()

	err := uc.HandleOrderPlaced(context.Background(), []byte(`not json`))
	assert.Error(t, err)

	//order_idが無いイベントは捨てる
	err = uc.HandleOrderPlaced(context.Background(), []byte(`{"user_id":1}`))
	assert.Error(t, err)

	nRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNotificationUsecase_Broadcast(t *testing.T) {
	ctx := context.Background()
	nRepo, uRepo, uc := newNotificationFixture()

	uRepo.On("ListActiveIDs", mock.Anything).Return([]int64{1, 2, 3}, nil)
	nRepo.On("CreateBulk", mock.Anything, mock.MatchedBy(func(ns []model.Notification) bool {
		return len(ns) == 3 &&
			ns[0].Type == model.NotificationTypeAnnouncement &&
			ns[0].Title == "Maintenance"
	})).Return(nil)

	sent, err := uc.Broadcast(ctx, 9, "Maintenance", "The shop closes at midnight.")

	assert.NoError(t, err)
	assert.Equal(t, 3, sent)
}

func TestNotificationUsecase_Broadcast_RequiresTitle(t *testing.T) {
	_, _, uc := newNotificationFixture()

	_, err := uc.Broadcast(context.Background(), 9, "  ", "body")
	assertErrContains(t, err, "title is required")
}

func TestNotificationUsecase_MarkRead_NotFound(t *testing.T) {
	nRepo, _, uc := newNotificationFixture()

	nRepo.On("MarkRead", mock.Anything, int64(1), int64(5)).Return(repo.ErrNotFound)

	err := uc.MarkRead(context.Background(), 1, 5)
	assertErrContains(t, err, "not found")
}
