package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	//fromのままの行だけ更新する。他のリクエストに先を越されていたらfalse
	UpdateStatusIfCurrent(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) (bool, error)

	//同じキーなら同じ注文を返す（二重送信対策）
	FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error)
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)

	//ダッシュボード用の集計
	CountByStatusSince(ctx context.Context, since time.Time) (map[model.OrderStatus]int64, error)
	RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
}
