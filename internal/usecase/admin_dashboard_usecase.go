package usecase

import (
	"context"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AdminDashboardUsecase struct {
	orderRepo   repo.OrderRepository
	userRepo    repo.UserRepository
	productRepo repo.ProductRepository
	//在庫警告のしきい値
	lowStockThreshold int64
}

func NewAdminDashboardUsecase(
	orderRepo repo.OrderRepository,
	userRepo repo.UserRepository,
	productRepo repo.ProductRepository,
	lowStockThreshold int64,
) *AdminDashboardUsecase {
	return &AdminDashboardUsecase{
		orderRepo:         orderRepo,
		userRepo:          userRepo,
		productRepo:       productRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

type LowStockProduct struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
}

type DashboardOutput struct {
	OrderCountByStatus map[model.OrderStatus]int64 `json:"order_count_by_status"`
	//期間内のPAID以降の売上合計（文字列表現で精度を保つ）
	Revenue          string            `json:"revenue"`
	NewUserCount     int64             `json:"new_user_count"`
	LowStockProducts []LowStockProduct `json:"low_stock_products"`
	Since            time.Time         `json:"since"`
}

// 直近days日のサマリ
func (u *AdminDashboardUsecase) GetSummary(ctx context.Context, adminID int64, days int) (DashboardOutput, error) {
	if adminID <= 0 {
		return DashboardOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if days < 1 || days > 365 {
		return DashboardOutput{}, NewHTTPError(http.StatusBadRequest, "invalid days")
	}

	since := time.Now().UTC().AddDate(0, 0, -days)

	counts, err := u.orderRepo.CountByStatusSince(ctx, since)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	revenue, err := u.orderRepo.RevenueSince(ctx, since)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	newUsers, err := u.userRepo.CountCreatedSince(ctx, since)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lowStock, err := u.productRepo.ListLowStock(ctx, u.lowStockThreshold, 20)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := DashboardOutput{
		OrderCountByStatus: counts,
		Revenue:            revenue.StringFixed(2),
		NewUserCount:       newUsers,
		LowStockProducts:   make([]LowStockProduct, 0, len(lowStock)),
		Since:              since,
	}
	for _, p := range lowStock {
		out.LowStockProducts = append(out.LowStockProducts, LowStockProduct{
			ID:    p.ID,
			Name:  p.Name,
			Stock: p.Stock,
		})
	}

	return out, nil
}
