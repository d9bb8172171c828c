package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	//確定した注文の件数
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Number of orders successfully placed",
	})

	//注文合計金額の分布
	OrderTotalAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: "orders",
		Name:      "total_amount",
		Help:      "Distribution of order grand totals",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000},
	})

	//Kafkaの送受信結果
	KafkaMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "kafka",
		Name:      "messages_total",
		Help:      "Kafka messages by outcome",
	}, []string{"status"})

	//作成された通知の件数
	NotificationsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "notifications",
		Name:      "created_total",
		Help:      "Notifications created by type",
	}, []string{"type"})
)
