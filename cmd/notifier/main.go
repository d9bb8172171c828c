package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/db"
	infraevent "storefront/internal/infra/event"
	infrarepo "storefront/internal/infra/repository"
	"storefront/internal/usecase"

	"github.com/joho/godotenv"
)

// 注文イベントを購読して通知レコードを作るワーカー
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS is required for the notifier")
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.Notification{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	notificationRepo := infrarepo.NewNotificationGormRepository(gormDB)
	userRepo := infrarepo.NewUserGormRepository(gormDB)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, userRepo)

	if err := infraevent.EnsureTopicExists(cfg.KafkaBrokers, cfg.KafkaOrderTopic); err != nil {
		log.Fatalf("ensure kafka topic: %v", err)
	}

	consumer, err := infraevent.NewOrderEventConsumer(cfg.KafkaBrokers, cfg.KafkaOrderTopic, notificationUC.HandleOrderPlaced)
	if err != nil {
		log.Fatalf("create kafka consumer: %v", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Printf("close kafka consumer: %v", err)
		}
	}()

	//SIGINT/SIGTERMで止める
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("notifier: consuming %s", cfg.KafkaOrderTopic)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("consumer stopped: %v", err)
	}
}
