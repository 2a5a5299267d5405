package usecase

import (
	"context"
	"net/http"
	"time"

	"mistika/internal/domain/model"
	repo "mistika/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// 管理者は環境変数で1人だけ設定する（会員機能は持たない）。
type AdminConfig struct {
	Email        string
	PasswordHash string
	JWTSecret    []byte
	TokenTTL     time.Duration
}

type AdminUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	orderRepo    repo.OrderRepository
	cfg          AdminConfig
	clock        Clock
}

func NewAdminUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	orderRepo repo.OrderRepository,
	cfg AdminConfig,
	clock Clock,
) *AdminUsecase {
	return &AdminUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		orderRepo:    orderRepo,
		cfg:          cfg,
		clock:        clock,
	}
}

type AdminLoginOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (u *AdminUsecase) Login(ctx context.Context, email, password string) (AdminLoginOutput, error) {
	if email == "" || password == "" {
		return AdminLoginOutput{}, NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}
	if u.cfg.Email == "" || u.cfg.PasswordHash == "" {
		//管理者が未設定ならログイン自体を閉じる
		return AdminLoginOutput{}, NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if email != u.cfg.Email {
		return AdminLoginOutput{}, NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.cfg.PasswordHash), []byte(password)); err != nil {
		return AdminLoginOutput{}, NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	now := u.clock.Now()
	expiresAt := now.Add(u.cfg.TokenTTL)

	claims := jwt.MapClaims{
		"sub":  email,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(u.cfg.JWTSecret)
	if err != nil {
		return AdminLoginOutput{}, WrapError(http.StatusInternalServerError, "Failed to login", err)
	}

	return AdminLoginOutput{Token: signed, ExpiresAt: expiresAt}, nil
}

type DashboardOutput struct {
	TotalProducts   int64 `json:"totalProducts"`
	TotalCategories int64 `json:"totalCategories"`
	TotalOrders     int64 `json:"totalOrders"`
	PendingOrders   int64 `json:"pendingOrders"`
}

// Dashboard は管理画面トップのカウントをまとめて返す。
func (u *AdminUsecase) Dashboard(ctx context.Context) (DashboardOutput, error) {
	products, err := u.productRepo.Count(ctx)
	if err != nil {
		return DashboardOutput{}, WrapError(http.StatusInternalServerError, "Failed to fetch dashboard", err)
	}
	categories, err := u.categoryRepo.Count(ctx)
	if err != nil {
		return DashboardOutput{}, WrapError(http.StatusInternalServerError, "Failed to fetch dashboard", err)
	}
	orders, err := u.orderRepo.Count(ctx)
	if err != nil {
		return DashboardOutput{}, WrapError(http.StatusInternalServerError, "Failed to fetch dashboard", err)
	}
	pending, err := u.orderRepo.CountByStatus(ctx, model.OrderStatusPending)
	if err != nil {
		return DashboardOutput{}, WrapError(http.StatusInternalServerError, "Failed to fetch dashboard", err)
	}

	return DashboardOutput{
		TotalProducts:   products,
		TotalCategories: categories,
		TotalOrders:     orders,
		PendingOrders:   pending,
	}, nil
}
