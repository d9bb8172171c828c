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

// /admin/users のHTTP
type AdminUserHandler struct {
	uc             *usecase.AdminUserUsecase
	notificationUC *usecase.NotificationUsecase
}

func NewAdminUserHandler(uc *usecase.AdminUserUsecase, notificationUC *usecase.NotificationUsecase) *AdminUserHandler {
	return &AdminUserHandler{uc: uc, notificationUC: notificationUC}
}

type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type BroadcastRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repo.UserRepository) {
	g := e.Group("/admin/users")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.list)
	g.PATCH("/:id/active", h.setActive)
	g.POST("/:id/force_logout", h.forceLogout)

	b := e.Group("/admin/notifications")
	b.Use(middleware.AuthJWT(cfg))
	b.Use(middleware.TokenVersionGuard(userRepo))
	b.Use(middleware.AdminRoleGuard())

	b.POST("/broadcast", h.broadcast)
}

func (h *AdminUserHandler) list(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.ListCustomers(c.Request().Context(), adminID, page, limit, c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) setActive(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SetActiveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetActive(c.Request().Context(), adminID, id, req.IsActive); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminUserHandler) forceLogout(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.ForceLogout(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminUserHandler) broadcast(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req BroadcastRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	n, err := h.notificationUC.Broadcast(c.Request().Context(), adminID, req.Title, req.Body)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int{"sent": n})
}
