package config

import (
	"fmt"
	"os"
	"strconv"
)

// Configはアプリ全体の設定。DB接続はinfra/dbが環境変数から直接読む。
type Config struct {
	Port string // サーバーポート（8080）

	//送料テーブルと税率（コードに埋め込まない）
	ShippingRateStandard  float64
	ShippingRateExpress   float64
	ShippingRateOvernight float64
	TaxRate               float64

	//商品作成時のフォールバック先。起動時に一度だけ解決する
	DefaultCategorySlug string

	JWTSecret         string
	AdminEmail        string // 管理者ログイン用（未設定ならログイン不可）
	AdminPasswordHash string // bcryptハッシュ
}

// Loadは環境変数から設定を読む。未設定はデフォルトに落とす。
func Load() (Config, error) {
	standard, err := envFloat("SHIPPING_RATE_STANDARD", 150.0)
	if err != nil {
		return Config{}, err
	}
	express, err := envFloat("SHIPPING_RATE_EXPRESS", 250.0)
	if err != nil {
		return Config{}, err
	}
	overnight, err := envFloat("SHIPPING_RATE_OVERNIGHT", 500.0)
	if err != nil {
		return Config{}, err
	}
	taxRate, err := envFloat("TAX_RATE", 0.16)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		ShippingRateStandard:  standard,
		ShippingRateExpress:   express,
		ShippingRateOvernight: overnight,
		TaxRate:               taxRate,

		DefaultCategorySlug: getenv("DEFAULT_CATEGORY_SLUG", "general"),

		JWTSecret:         getenv("JWT_SECRET", "dev_secret_change_me"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	if cfg.ShippingRateStandard < 0 || cfg.ShippingRateExpress < 0 || cfg.ShippingRateOvernight < 0 {
		return Config{}, fmt.Errorf("shipping rates must be >= 0")
	}
	if cfg.TaxRate < 0 {
		return Config{}, fmt.Errorf("TAX_RATE must be >= 0")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return f, nil
}
