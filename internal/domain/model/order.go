package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusShipped  OrderStatus = "SHIPPED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// 注文。金額の内訳（小計・送料・税・合計）を確定時の値で保存する
type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64           `gorm:"not null;index" json:"user_id"`
	AddressID      int64           `gorm:"not null" json:"address_id"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	Subtotal       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	ShippingFee    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_fee"`
	Tax            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax"`
	TotalPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	IdempotencyKey string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
