package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderItemRepository interface {
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
}
