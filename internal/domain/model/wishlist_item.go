package model

import "time"

// お気に入り。同じ商品は1ユーザー1件まで
type WishlistItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"user_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"product_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
