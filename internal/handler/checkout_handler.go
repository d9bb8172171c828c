package handler

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/middleware"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
	appvalidator "storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

// /checkout のHTTP。注文前の見積もりとバリデーション
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type PaymentRequest struct {
	Method     string `json:"method"`
	CardNumber string `json:"card_number"`
	CardHolder string `json:"card_holder"`
	ExpMonth   int    `json:"exp_month"`
	ExpYear    int    `json:"exp_year"`
}

type QuoteRequest struct {
	AddressID      int64          `json:"address_id"`
	Payment        PaymentRequest `json:"payment"`
	CurrentStep    string         `json:"current_step"`
	CompletedSteps []string       `json:"completed_steps"`
}

func toPaymentInput(r PaymentRequest) appvalidator.PaymentInput {
	return appvalidator.PaymentInput{
		Method:     r.Method,
		CardNumber: r.CardNumber,
		CardHolder: r.CardHolder,
		ExpMonth:   r.ExpMonth,
		ExpYear:    r.ExpYear,
	}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repo.UserRepository) {
	g := e.Group("/checkout")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.POST("/quote", h.quote)
}

func (h *CheckoutHandler) quote(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req QuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.GetQuote(c.Request().Context(), userID, usecase.QuoteInput{
		AddressID:      req.AddressID,
		Payment:        toPaymentInput(req.Payment),
		CurrentStep:    req.CurrentStep,
		CompletedSteps: req.CompletedSteps,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
