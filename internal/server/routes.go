package server

import (
	"mistika/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(
	e *echo.Echo,
	productH *handler.ProductHandler,
	categoryH *handler.CategoryHandler,
	orderH *handler.OrderHandler,
	adminH *handler.AdminHandler,
) {
	api := e.Group("/api")

	productH.RegisterRoutes(api)
	categoryH.RegisterRoutes(api)
	orderH.RegisterRoutes(api)
	adminH.RegisterRoutes(api)
}
