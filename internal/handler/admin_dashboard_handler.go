package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/config"
	"storefront/internal/middleware"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/dashboard のHTTP
type AdminDashboardHandler struct {
	uc *usecase.AdminDashboardUsecase
}

func NewAdminDashboardHandler(uc *usecase.AdminDashboardUsecase) *AdminDashboardHandler {
	return &AdminDashboardHandler{uc: uc}
}

func (h *AdminDashboardHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repo.UserRepository) {
	g := e.Group("/admin/dashboard")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.summary)
}

func (h *AdminDashboardHandler) summary(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	// 集計期間（default 30日）
	days := 30
	if v := c.QueryParam("days"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid days"})
		}
		days = d
	}

	out, err := h.uc.GetSummary(c.Request().Context(), adminID, days)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
