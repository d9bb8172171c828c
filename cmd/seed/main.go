package main

import (
	"fmt"
	"log"
	"strings"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/db"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var sizePool = []string{"XS", "S", "M", "L", "XL"}

// 開発用のデモデータ投入
func main() {
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
		&model.Product{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	gofakeit.Seed(42)

	//管理者（パスワードは開発専用）
	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	admin := model.User{
		Email:        "admin@example.com",
		PasswordHash: string(adminHash),
		DisplayName:  "Admin",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := gormDB.Where(model.User{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	//一般ユーザー
	userHash, err := bcrypt.GenerateFromPassword([]byte("user-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	for i := 0; i < 10; i++ {
		u := model.User{
			Email:        fmt.Sprintf("user%02d@example.com", i+1),
			PasswordHash: string(userHash),
			DisplayName:  gofakeit.Name(),
			Role:         model.RoleUser,
			IsActive:     true,
		}
		if err := gormDB.Where(model.User{Email: u.Email}).FirstOrCreate(&u).Error; err != nil {
			log.Fatalf("seed user: %v", err)
		}
	}

	//商品
	for i := 0; i < 40; i++ {
		//10.00〜250.00の範囲で2桁の価格を作る
		cents := gofakeit.Number(1000, 25000)
		price := decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100))

		nSizes := gofakeit.Number(2, len(sizePool))
		p := model.Product{
			Name:        gofakeit.ProductName(),
			Description: gofakeit.ProductDescription(),
			Price:       price,
			Sizes:       strings.Join(sizePool[:nSizes], ","),
			Stock:       int64(gofakeit.Number(0, 120)),
			IsActive:    gofakeit.Number(0, 9) > 0, // 1割は非公開
		}
		if err := gormDB.Where(model.Product{Name: p.Name}).FirstOrCreate(&p).Error; err != nil {
			log.Fatalf("seed product: %v", err)
		}
	}

	log.Println("seed done")
}
