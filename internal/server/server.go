package server

import (
	"mistika/internal/handler"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はミドルウェアとルートを組んだechoインスタンスを返す。
func New(
	productH *handler.ProductHandler,
	categoryH *handler.CategoryHandler,
	orderH *handler.OrderHandler,
	adminH *handler.AdminHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())

	//リクエストIDはuuidで振る（ログ相関用）
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	RegisterRoutes(e, productH, categoryH, orderH, adminH)

	return e
}
