package server

import (
	"storefront/internal/config"
	"storefront/internal/handler"
	repo "storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

// Handlers はルート登録に必要なhandlerの束
type Handlers struct {
	Auth           *handler.AuthHandler
	Product        *handler.ProductHandler
	Cart           *handler.CartHandler
	Checkout       *handler.CheckoutHandler
	Order          *handler.OrderHandler
	Address        *handler.AddressHandler
	Wishlist       *handler.WishlistHandler
	Notification   *handler.NotificationHandler
	AdminProduct   *handler.AdminProductHandler
	AdminOrder     *handler.AdminOrderHandler
	AdminUser      *handler.AdminUserHandler
	AdminDashboard *handler.AdminDashboardHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repo.UserRepository, h Handlers) {
	h.Auth.RegisterRoutes(e, cfg, userRepo)
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg, userRepo)
	h.Checkout.RegisterRoutes(e, cfg, userRepo)
	h.Order.RegisterRoutes(e, cfg, userRepo)
	h.Address.RegisterRoutes(e, cfg, userRepo)
	h.Wishlist.RegisterRoutes(e, cfg, userRepo)
	h.Notification.RegisterRoutes(e, cfg, userRepo)
	h.AdminProduct.RegisterRoutes(e, cfg, userRepo)
	h.AdminOrder.RegisterRoutes(e, cfg, userRepo)
	h.AdminUser.RegisterRoutes(e, cfg, userRepo)
	h.AdminDashboard.RegisterRoutes(e, cfg, userRepo)
}
