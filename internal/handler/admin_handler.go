package handler

import (
	"net/http"

	"mistika/internal/middleware"
	"mistika/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/admin（ログイン以外はJWT必須）
type AdminHandler struct {
	uc        *usecase.AdminUsecase
	jwtSecret []byte
}

func NewAdminHandler(uc *usecase.AdminUsecase, jwtSecret []byte) *AdminHandler {
	return &AdminHandler{uc: uc, jwtSecret: jwtSecret}
}

func (h *AdminHandler) RegisterRoutes(g *echo.Group) {
	admin := g.Group("/admin")
	admin.POST("/login", h.login)

	guarded := admin.Group("", middleware.AdminAuth(h.jwtSecret))
	guarded.GET("/dashboard", h.dashboard)
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AdminHandler) login(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid request body"))
	}

	out, err := h.uc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dataJSON(out))
}

func (h *AdminHandler) dashboard(c echo.Context) error {
	out, err := h.uc.Dashboard(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dataJSON(out))
}
