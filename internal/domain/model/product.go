package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	//価格は小数2桁のdecimalで持つ
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	//サイズ展開（S,M,L などカンマ区切り。無ければ空）
	Sizes       string          `gorm:"type:varchar(255)" json:"sizes"`
	Stock       int64           `gorm:"not null" json:"stock"`
	IsActive    bool            `gorm:"not null;default:false" json:"is_active"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
