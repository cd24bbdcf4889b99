package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/mscheesy-pos/internal/config"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/mscheesy-pos/internal/domain/repository"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/metrics"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/handler"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/middleware"
	"github.com/sangkips/mscheesy-pos/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Kitchen  *handler.KitchenHandler
	Sales    *handler.SalesHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Metrics         *metrics.Registry
	RateLimiter     *middleware.RateLimiter
	Logger          *zap.Logger
	// Health reports whether backing services answer; nil means always healthy.
	Health func(*gin.Context) error
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	if deps.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(deps.Metrics))
	}

	router.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if deps.Health != nil {
			if err := deps.Health(c); err != nil {
				deps.Logger.Warn("health check failed", zap.Error(err))
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Metrics != nil && deps.Cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(rg *gin.RouterGroup, h *Handlers) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
	}
}

func registerProtectedRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	rg.GET("/profile", h.Auth.Profile)

	takeOrders := middleware.RequirePermission(entity.PermTakeOrders)
	manageProducts := middleware.RequirePermission(entity.PermManageProducts)
	manageKitchen := middleware.RequirePermission(entity.PermManageKitchen)
	viewReports := middleware.RequirePermission(entity.PermViewReports)
	manageSettings := middleware.RequirePermission(entity.PermManageSettings)

	// Cashier terminal
	catalog := rg.Group("/catalog", takeOrders)
	{
		catalog.GET("/products", h.Product.ListAvailable)
		catalog.GET("/categories", h.Product.Categories)
	}

	cart := rg.Group("/cart", takeOrders)
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:product_id", h.Cart.UpdateQuantity)
		cart.DELETE("/items/:product_id", h.Cart.RemoveItem)
		cart.PUT("/customer", h.Cart.SetCustomer)
	}

	rg.POST("/checkout", takeOrders, middleware.IdempotencyRequired(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		Logger: deps.Logger,
	}), h.Checkout.Checkout)

	// Back office
	products := rg.Group("/products", manageProducts)
	{
		products.GET("", h.Product.ListAll)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.PATCH("/:id/availability", h.Product.SetAvailability)
		products.DELETE("/:id", h.Product.Delete)
	}

	kitchen := rg.Group("/kitchen", manageKitchen)
	{
		kitchen.GET("/orders", h.Kitchen.ActiveOrders)
		kitchen.POST("/orders/:id/advance", h.Kitchen.Advance)
		kitchen.PUT("/orders/:id/status", h.Kitchen.UpdateStatus)
	}

	sales := rg.Group("/sales")
	{
		sales.GET("/report", viewReports, h.Sales.Report)
		sales.GET("/transactions", viewReports, h.Sales.Transactions)
		sales.GET("/export", viewReports, h.Sales.Export)
		sales.GET("/:id/receipt", takeOrders, h.Printer.PreviewReceipt)
		sales.POST("/:id/receipt/print", takeOrders, h.Printer.ReprintReceipt)
	}

	printer := rg.Group("/printer")
	{
		printer.GET("/status", manageSettings, h.Printer.GetStatus)
		printer.POST("/test", manageSettings, h.Printer.TestPrint)
		printer.GET("/settings", takeOrders, h.Printer.GetSettings)
		printer.PUT("/settings", manageSettings, h.Printer.UpdateSettings)
	}
}
