package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/config"
	"storefront/internal/middleware"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /admin/products のHTTP
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

type SaveProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Sizes       []string `json:"sizes"`
	Stock       int64    `json:"stock"`
	IsActive    bool     `json:"is_active"`
}

type SetStockRequest struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

func (r SaveProductRequest) toInput() (usecase.SaveProductInput, error) {
	//金額は文字列で受けてdecimalに変換（floatを経由しない）
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return usecase.SaveProductInput{}, err
	}

	return usecase.SaveProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		Sizes:       r.Sizes,
		Stock:       r.Stock,
		IsActive:    r.IsActive,
	}, nil
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repo.UserRepository) {
	g := e.Group("/admin/products")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.Use(middleware.AdminRoleGuard())

	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.PUT("/:id/stock", h.setStock)
	g.GET("/:id/adjustments", h.listAdjustments)
}

func (h *AdminProductHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req SaveProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid price"})
	}

	out, err := h.uc.CreateProduct(c.Request().Context(), adminID, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) update(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SaveProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid price"})
	}

	out, err := h.uc.UpdateProduct(c.Request().Context(), adminID, id, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminProductHandler) setStock(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetStock(c.Request().Context(), adminID, id, usecase.SetStockInput{
		NewStock: req.Stock,
		Reason:   req.Reason,
	}); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminProductHandler) listAdjustments(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.ListAdjustments(c.Request().Context(), adminID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
