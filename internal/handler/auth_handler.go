package handler

import (
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/middleware"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	refreshCookieName = "refresh"
	csrfCookieName    = "csrf_token"
	csrfHeaderName    = "X-CSRF-Token"
	refreshCookieTTL  = 30 * 24 * time.Hour
)

// /auth のHTTP。refresh tokenはHttpOnly Cookieで持ち回す
type AuthHandler struct {
	uc           *usecase.AuthUsecase
	cookieSecure bool
}

func NewAuthHandler(uc *usecase.AuthUsecase, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		uc: uc,
		//devはhttpなのでSecureを落とす
		cookieSecure: cfg.GoEnv != "dev",
	}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repo.UserRepository) {
	e.POST("/auth/register", h.register)
	e.POST("/auth/login", h.login)
	e.POST("/auth/refresh", h.refresh)
	e.POST("/auth/logout", h.logout)

	g := e.Group("/auth")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.GET("/me", h.me)
	g.PATCH("/profile", h.updateProfile)
}

// usecaseのsentinel errorをHTTPステータスへ
func writeAuthError(c echo.Context, err error) error {
	switch err {
	case usecase.ErrValidation:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	case usecase.ErrUnauthorized, usecase.ErrSecurityIncident:
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case usecase.ErrForbidden:
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case usecase.ErrConflict:
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	userAgent := c.Request().Header.Get("User-Agent")

	out, err := h.uc.Login(c.Request().Context(), req, userAgent)
	if err != nil {
		return writeAuthError(c, err)
	}

	h.setRefreshCookie(c, out.RefreshTokenPlain)
	h.setCsrfCookie(c, out.CsrfTokenPlain)

	return c.JSON(http.StatusOK, out.Body)
}

func (h *AuthHandler) refresh(c echo.Context) error {
	//CSRFはdouble submit（cookieとheaderの一致）で確認
	csrfCookie, err := c.Cookie(csrfCookieName)
	if err != nil || csrfCookie.Value == "" || c.Request().Header.Get(csrfHeaderName) != csrfCookie.Value {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "csrf check failed"})
	}

	refreshCookie, err := c.Cookie(refreshCookieName)
	if err != nil || refreshCookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	userAgent := c.Request().Header.Get("User-Agent")

	out, err := h.uc.Refresh(c.Request().Context(), refreshCookie.Value, userAgent)
	if err != nil {
		//失効・再利用検知はcookieも消す
		h.clearAuthCookies(c)
		return writeAuthError(c, err)
	}

	h.setRefreshCookie(c, out.RefreshTokenPlain)
	h.setCsrfCookie(c, out.CsrfTokenPlain)

	return c.JSON(http.StatusOK, out.Body)
}

func (h *AuthHandler) logout(c echo.Context) error {
	refreshCookie, err := c.Cookie(refreshCookieName)
	if err != nil || refreshCookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Logout(c.Request().Context(), refreshCookie.Value)
	if err != nil {
		return writeAuthError(c, err)
	}

	h.clearAuthCookies(c)
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) updateProfile(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, plain string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    plain,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(refreshCookieTTL),
	})
}

// JSから読めるようHttpOnlyにしない
func (h *AuthHandler) setCsrfCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(refreshCookieTTL),
	})
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
	for _, name := range []string{refreshCookieName, csrfCookieName} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: name == refreshCookieName,
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}
