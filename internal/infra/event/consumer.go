package event

import (
	"context"
	"fmt"
	"log"

	"storefront/internal/metric"

	"github.com/IBM/sarama"
)

type MessageProcessor func(ctx context.Context, payload []byte) error

// 注文イベントを読むコンシューマ
type OrderEventConsumer struct {
	consumer  sarama.Consumer
	topic     string
	processor MessageProcessor
}

func NewOrderEventConsumer(brokers []string, topic string, processor MessageProcessor) (*OrderEventConsumer, error) {
	conf := sarama.NewConfig()
	conf.Consumer.Offsets.Initial = sarama.OffsetNewest

	consumer, err := sarama.NewConsumer(brokers, conf)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}

	return &OrderEventConsumer{consumer: consumer, topic: topic, processor: processor}, nil
}

// ctxが止まるまで読み続ける
func (c *OrderEventConsumer) Start(ctx context.Context) error {
	partitionConsumer, err := c.consumer.ConsumePartition(c.topic, 0, sarama.OffsetNewest)
	if err != nil {
		return fmt.Errorf("consume partition: %w", err)
	}
	defer func() {
		if err := partitionConsumer.Close(); err != nil {
			log.Printf("failed to close partition consumer: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Println("kafka consumer stopping")
			return ctx.Err()
		case msg := <-partitionConsumer.Messages():
			if err := c.processor(ctx, msg.Value); err != nil {
				log.Printf("failed to process message: %v", err)
				metric.KafkaMessagesTotal.WithLabelValues("error").Inc()
			} else {
				metric.KafkaMessagesTotal.WithLabelValues("success").Inc()
			}
		}
	}
}

func (c *OrderEventConsumer) Close() error {
	return c.consumer.Close()
}
