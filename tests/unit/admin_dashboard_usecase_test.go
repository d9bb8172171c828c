package unit

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newDashboardFixture() (*orderRepoMock, *userRepoMock, *productRepoMock, *usecase.AdminDashboardUsecase) {
	oRepo := new(orderRepoMock)
	uRepo := new(userRepoMock)
	pRepo := new(productRepoMock)
	return oRepo, uRepo, pRepo, usecase.NewAdminDashboardUsecase(oRepo, uRepo, pRepo, 5)
}

func TestAdminDashboardUsecase_GetSummary(t *testing.T) {
	ctx := context.Background()
	oRepo, uRepo, pRepo, uc := newDashboardFixture()

	oRepo.On("CountByStatusSince", mock.Anything, mock.AnythingOfType("time.Time")).Return(map[model.OrderStatus]int64{
		model.OrderStatusPending: 2,
		model.OrderStatusPaid:    5,
	}, nil)
	oRepo.On("RevenueSince", mock.Anything, mock.AnythingOfType("time.Time")).Return(dec("1234.5"), nil)
	uRepo.On("CountCreatedSince", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(3), nil)
	pRepo.On("ListLowStock", mock.Anything, int64(5), 20).Return([]model.Product{
		{ID: 1, Name: "Tee", Stock: 2},
	}, nil)

	out, err := uc.GetSummary(ctx, 9, 30)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.OrderCountByStatus[model.OrderStatusPaid])
	assert.Equal(t, "1234.50", out.Revenue)
	assert.Equal(t, int64(3), out.NewUserCount)
	assert.Len(t, out.LowStockProducts, 1)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -30), out.Since, time.Minute)
}

func TestAdminDashboardUsecase_GetSummary_InvalidDays(t *testing.T) {
	_, _, _, uc := newDashboardFixture()

	_, err := uc.GetSummary(context.Background(), 9, 0)
	assertErrContains(t, err, "invalid days")

	_, err = uc.GetSummary(context.Background(), 9, 366)
	assertErrContains(t, err, "invalid days")
}
