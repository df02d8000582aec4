package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"pharmacy-backend/internal/config"
	"pharmacy-backend/internal/handler"
	"pharmacy-backend/internal/middleware"
)

type Server struct {
	echo           *echo.Echo
	authCfg        *config.Auth
	userHandler    *handler.UserHandler
	catalogHandler *handler.CatalogHandler
	cartHandler    *handler.CartHandler
	paymentHandler *handler.PaymentHandler
}

func NewServer(
	authCfg *config.Auth,
	userHandler *handler.UserHandler,
	catalogHandler *handler.CatalogHandler,
	cartHandler *handler.CartHandler,
	paymentHandler *handler.PaymentHandler,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:           e,
		authCfg:        authCfg,
		userHandler:    userHandler,
		catalogHandler: catalogHandler,
		cartHandler:    cartHandler,
		paymentHandler: paymentHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/auth/register", s.userHandler.Register)
	api.POST("/auth/login", s.userHandler.Login)

	api.GET("/products", s.catalogHandler.List)
	api.GET("/products/:productID", s.catalogHandler.Get)

	// -------- authenticated --------
	auth := api.Group("", middleware.JWT(s.authCfg))
	auth.GET("/me", s.userHandler.Me)

	auth.GET("/cart", s.cartHandler.Get)
	auth.POST("/cart/items", s.cartHandler.Add)
	auth.PUT("/cart/items/:productID", s.cartHandler.UpdateQuantity)
	auth.DELETE("/cart/items/:productID", s.cartHandler.Remove)

	auth.POST("/payments/checkout", s.paymentHandler.Checkout)
	auth.POST("/payments/checkout/card", s.paymentHandler.CheckoutWithCard)
	auth.GET("/payments/orders", s.paymentHandler.ListOrders)
	auth.POST("/payments/orders/:localID/cancel", s.paymentHandler.CancelOrder)

	// -------- paypal redirects --------
	api.GET("/payments/paypal/success", s.paymentHandler.PaypalSuccess)
	api.GET("/payments/paypal/cancel", s.paymentHandler.PaypalCancel)

	// -------- admin --------
	admin := api.Group("/admin", middleware.JWT(s.authCfg), middleware.RequireAdmin())
	admin.GET("/users", s.userHandler.AdminList)
	admin.PUT("/users/:userID/active", s.userHandler.AdminSetActive)
	admin.POST("/products", s.catalogHandler.Create)
	admin.PUT("/products/:productID", s.catalogHandler.Update)
	admin.DELETE("/products/:productID", s.catalogHandler.Delete)
	admin.PUT("/orders/:localID/status", s.paymentHandler.AdminUpdateOrderStatus)
	admin.POST("/sync", s.paymentHandler.AdminTriggerSync)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
