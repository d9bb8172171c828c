package repository

import (
	"context"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, id int64) (model.CartItem, error)
	FindByCartAndProduct(ctx context.Context, cartID int64, productID int64, size string) (model.CartItem, error)
	//同一商品・同一サイズは数量加算
	UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, size string, addQty int64, unitPriceSnapshot decimal.Decimal) error
	UpdateQuantity(ctx context.Context, id int64, qty int64) error
	DeleteByID(ctx context.Context, id int64) error
	IsOwnedByUser(ctx context.Context, id int64, userID int64) (bool, error)
}
