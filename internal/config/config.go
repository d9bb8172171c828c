package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"storefront/internal/checkout"
)

// Configはアプリ全体の設定
type Config struct {
	Port string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret string

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSで使う）

	//Kafka（空なら通知イベントは無効）
	KafkaBrokers    []string
	KafkaOrderTopic string

	//税の丸め方（half_up / bankers）
	TaxRounding    string
	CurrencySymbol string

	//ダッシュボードの在庫少なめ判定
	LowStockThreshold int64
}

// Loadは環境変数から設定を組み立てる
func Load() (Config, error) {
	pgPort, err := mustAtoi("POSTGRES_PORT")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv: getenv("GO_ENV", "dev"),
		FEURL: os.Getenv("FE_URL"),

		KafkaOrderTopic: getenv("KAFKA_ORDER_TOPIC", "order-events"),

		TaxRounding:    getenv("TAX_ROUNDING", "half_up"),
		CurrencySymbol: getenv("CURRENCY_SYMBOL", "$"),
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}

	cfg.LowStockThreshold = 5
	if v := os.Getenv("LOW_STOCK_THRESHOLD"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("LOW_STOCK_THRESHOLD must be number: %w", err)
		}
		cfg.LowStockThreshold = n
	}

	//必須チェック
	if cfg.PostgresUser == "" {
		return Config{}, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return Config{}, fmt.Errorf("POSTGRES_DB is required")
	}
	if cfg.PostgresHost == "" {
		return Config{}, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TaxRounding != "half_up" && cfg.TaxRounding != "bankers" {
		return Config{}, fmt.Errorf("TAX_ROUNDING must be half_up or bankers")
	}

	return cfg, nil
}

// 設定値をcheckoutの丸めモードに変換する
func (c Config) RoundingMode() checkout.RoundingMode {
	if c.TaxRounding == "bankers" {
		return checkout.RoundBankers
	}
	return checkout.RoundHalfUp
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
