package event

import (
	"encoding/json"
	"fmt"

	"storefront/internal/event"
	"storefront/internal/metric"

	"github.com/IBM/sarama"
)

type OrderEventProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewOrderEventProducer(brokers []string, topic string) (*OrderEventProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	//全ブローカーの確認を待つ
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &OrderEventProducer{producer: producer, topic: topic}, nil
}

func (p *OrderEventProducer) PublishOrderPlaced(ev event.OrderPlaced) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal order placed event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		//同じ注文は同じパーティションに入るようにする
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", ev.OrderID)),
		Value: sarama.ByteEncoder(data),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		metric.KafkaMessagesTotal.WithLabelValues("produce_error").Inc()
		return fmt.Errorf("send order placed event: %w", err)
	}

	metric.KafkaMessagesTotal.WithLabelValues("produced").Inc()
	return nil
}

func (p *OrderEventProducer) Close() error {
	return p.producer.Close()
}

// Kafka未設定のとき用。何もしない
type NopOrderEventProducer struct{}

func (NopOrderEventProducer) PublishOrderPlaced(event.OrderPlaced) error { return nil }
