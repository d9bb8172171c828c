package event

import (
	"fmt"
	"log"

	"github.com/IBM/sarama"
)

// トピックが無ければ作る（開発環境向け）
func EnsureTopicExists(brokers []string, topic string) error {
	config := sarama.NewConfig()

	admin, err := sarama.NewClusterAdmin(brokers, config)
	if err != nil {
		return fmt.Errorf("create kafka admin: %w", err)
	}
	defer func() {
		if err := admin.Close(); err != nil {
			log.Printf("failed to close kafka admin: %v", err)
		}
	}()

	topics, err := admin.ListTopics()
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	if _, exists := topics[topic]; exists {
		return nil
	}

	detail := &sarama.TopicDetail{
		NumPartitions:     1,
		ReplicationFactor: 1,
	}

	if err := admin.CreateTopic(topic, detail, false); err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}

	log.Printf("kafka: created topic %s", topic)
	return nil
}
