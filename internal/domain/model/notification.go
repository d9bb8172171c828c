package model

import "time"

type NotificationType string

const (
	//注文確定の通知
	NotificationTypeOrderPlaced NotificationType = "ORDER_PLACED"
	//管理者からの一斉通知
	NotificationTypeAnnouncement NotificationType = "ANNOUNCEMENT"
)

type Notification struct {
	ID        int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64            `gorm:"not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Body      string           `gorm:"type:text" json:"body"`
	//未読ならnil
	ReadAt    *time.Time       `gorm:"index" json:"read_at"`
	CreatedAt time.Time        `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
