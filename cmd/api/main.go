package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"mistika/internal/config"
	"mistika/internal/domain/model"
	"mistika/internal/handler"
	"mistika/internal/infra/db"
	infraRepo "mistika/internal/infra/repository"
	repo "mistika/internal/repository"
	"mistika/internal/server"
	"mistika/internal/usecase"

	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// デフォルトカテゴリを起動時に一度だけ解決する。無ければ作る。
func resolveDefaultCategory(ctx context.Context, categories repo.CategoryRepository, slug string) (model.Category, error) {
	c, err := categories.FindBySlug(ctx, slug)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, err
	}

	return categories.Create(ctx, model.Category{
		Name:     "General",
		Slug:     slug,
		IsActive: true,
	})
}

func main() {
	//.envは無くてもよい（環境変数だけで動かす）
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		slog.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	if err := gormDB.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	//Repository（GORM実装）生成
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	defaultCategory, err := resolveDefaultCategory(context.Background(), categoryRepo, cfg.DefaultCategorySlug)
	if err != nil {
		slog.Error("default category resolution failed", "error", err)
		os.Exit(1)
	}

	//usecaseに渡す部品
	clock := &realClock{}
	numbers := &usecase.RandomOrderNumberGenerator{}

	pricing := usecase.NewPricingEngine(usecase.PricingConfig{
		ShippingRates: map[string]float64{
			"standard":  cfg.ShippingRateStandard,
			"express":   cfg.ShippingRateExpress,
			"overnight": cfg.ShippingRateOvernight,
		},
		DefaultShippingMethod: "standard",
		TaxRate:               cfg.TaxRate,
	})

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, defaultCategory.ID)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, pricing, numbers, clock)
	adminUC := usecase.NewAdminUsecase(productRepo, categoryRepo, orderRepo, usecase.AdminConfig{
		Email:        cfg.AdminEmail,
		PasswordHash: cfg.AdminPasswordHash,
		JWTSecret:    []byte(cfg.JWTSecret),
		TokenTTL:     24 * time.Hour,
	}, clock)

	//Handler生成
	productH := handler.NewProductHandler(productUC)
	categoryH := handler.NewCategoryHandler(categoryUC)
	orderH := handler.NewOrderHandler(orderUC)
	adminH := handler.NewAdminHandler(adminUC, []byte(cfg.JWTSecret))

	//Server起動
	e := server.New(productH, categoryH, orderH, adminH)

	addr := ":" + cfg.Port
	if err := e.Start(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
