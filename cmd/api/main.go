package main

import (
	"log"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraevent "storefront/internal/infra/event"
	infrarepo "storefront/internal/infra/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"
	appvalidator "storefront/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Address{},
		&model.WishlistItem{},
		&model.Notification{},
		&model.AuditLog{},
		&model.InventoryAdjustment{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）
	userRepo := infrarepo.NewUserGormRepository(gormDB)
	rtRepo := infrarepo.NewRefreshTokenGormRepository(gormDB)
	productRepo := infrarepo.NewProductGormRepository(gormDB)
	inventoryRepo := infrarepo.NewInventoryGormRepository(gormDB)
	cartRepo := infrarepo.NewCartGormRepository(gormDB)
	cartItemRepo := infrarepo.NewCartItemGormRepository(gormDB)
	orderRepo := infrarepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infrarepo.NewOrderItemGormRepository(gormDB)
	addressRepo := infrarepo.NewAddressGormRepository(gormDB)
	wishlistRepo := infrarepo.NewWishlistGormRepository(gormDB)
	notificationRepo := infrarepo.NewNotificationGormRepository(gormDB)
	auditRepo := infrarepo.NewAuditLogGormRepository(gormDB)
	txManager := infrarepo.NewTxManagerGorm(gormDB)

	//Kafka未設定なら何もしないproducerにする
	var publisher usecase.OrderEventPublisher = infraevent.NopOrderEventProducer{}
	if len(cfg.KafkaBrokers) > 0 {
		if err := infraevent.EnsureTopicExists(cfg.KafkaBrokers, cfg.KafkaOrderTopic); err != nil {
			log.Fatalf("ensure kafka topic: %v", err)
		}
		p, err := infraevent.NewOrderEventProducer(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		if err != nil {
			log.Fatalf("create kafka producer: %v", err)
		}
		defer func() {
			if err := p.Close(); err != nil {
				log.Printf("close kafka producer: %v", err)
			}
		}()
		publisher = p
	}

	rounding := cfg.RoundingMode()
	cv := appvalidator.NewCheckoutValidator()
	authValidator := appvalidator.NewAuthValidator(userRepo)

	//Usecase
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, authValidator)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, auditRepo, cfg.CurrencySymbol)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo, rounding)
	checkoutUC := usecase.NewCheckoutUsecase(cartRepo, cartItemRepo, productRepo, addressRepo, cv, rounding)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo, cartRepo, cartItemRepo, productRepo, addressRepo, txManager, publisher, cv, rounding)
	addressUC := usecase.NewAddressUsecase(addressRepo, cv)
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, productRepo)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, userRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(orderRepo, orderItemRepo, txManager)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo, rtRepo, auditRepo)
	adminDashboardUC := usecase.NewAdminDashboardUsecase(orderRepo, userRepo, productRepo, cfg.LowStockThreshold)

	//Handler
	h := server.Handlers{
		Auth:           handler.NewAuthHandler(authUC, cfg),
		Product:        handler.NewProductHandler(productUC),
		Cart:           handler.NewCartHandler(cartUC),
		Checkout:       handler.NewCheckoutHandler(checkoutUC),
		Order:          handler.NewOrderHandler(orderUC),
		Address:        handler.NewAddressHandler(addressUC),
		Wishlist:       handler.NewWishlistHandler(wishlistUC),
		Notification:   handler.NewNotificationHandler(notificationUC),
		AdminProduct:   handler.NewAdminProductHandler(productUC),
		AdminOrder:     handler.NewAdminOrderHandler(adminOrderUC),
		AdminUser:      handler.NewAdminUserHandler(adminUserUC, notificationUC),
		AdminDashboard: handler.NewAdminDashboardHandler(adminDashboardUC),
	}

	e := server.New(cfg)
	server.RegisterRoutes(e, cfg, userRepo, h)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
