package event

import "time"

// 注文確定イベント。Kafka経由で通知サービスに渡す
type OrderPlaced struct {
	OrderID   int64     `json:"order_id"`
	UserID    int64     `json:"user_id"`
	ItemCount int       `json:"item_count"`
	//表示用に文字列で持つ（decimalの精度を落とさない）
	Total     string    `json:"total"`
	PlacedAt  time.Time `json:"placed_at"`
}
