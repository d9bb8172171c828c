package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 一覧検索の条件
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

// 商品の永続化だけを約束
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	//在庫がしきい値以下の商品（ダッシュボード用）
	ListLowStock(ctx context.Context, threshold int64, limit int) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error
}

// 在庫の更新と調整履歴
type InventoryRepository interface {
	SetStock(ctx context.Context, productID int64, newStock int64) error
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
	IncreaseStock(ctx context.Context, productID int64, qty int64) error
	CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error
	ListAdjustments(ctx context.Context, productID int64, limit int) ([]model.InventoryAdjustment, error)
}
