package router

import (
	"github.com/gin-gonic/gin"

	"github.com/muhohoweb/shoe-app/internal/infrastructure/auth"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/handler"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router wires up
type Handlers struct {
	Auth        *handler.AuthHandler
	Storefront  *handler.StorefrontHandler
	Category    *handler.CategoryHandler
	Product     *handler.ProductHandler
	Order       *handler.OrderHandler
	Location    *handler.DeliveryLocationHandler
	Transaction *handler.TransactionHandler
	Schedule    *handler.ScheduleHandler
	Mpesa       *handler.MpesaCallbackHandler
	WhatsApp    *handler.WhatsAppHandler
}

// Config carries the router's security settings
type Config struct {
	JWTService *auth.JWTService
	// CallbackSecret enables HMAC verification on gateway callbacks
	// when non-empty
	CallbackSecret string
}

// Setup registers all routes on the engine.
//
// Three route classes exist: the public storefront, unauthenticated
// gateway callbacks (Daraja and Meta call these), and the JWT-protected
// back office under /api.
func Setup(engine *gin.Engine, h Handlers, cfg Config) {
	// Public storefront
	shop := engine.Group("/shop")
	{
		shop.GET("", h.Storefront.Storefront)
		shop.GET("/products/:slug", h.Product.GetBySlug)
		shop.POST("/orders", h.Storefront.Checkout)
		shop.GET("/orders/track/:trackingNumber", h.Storefront.Track)
		shop.POST("/orders/:id/pay", h.Storefront.RetryPayment)
	}

	// Gateway callbacks
	mpesa := engine.Group("/mpesa", middleware.VerifySignature(cfg.CallbackSecret))
	{
		mpesa.POST("/callback", h.Mpesa.STKCallback)
		mpesa.POST("/balance/result", h.Mpesa.BalanceResult)
		mpesa.POST("/status/result", h.Mpesa.StatusResult)
		mpesa.POST("/timeout", h.Mpesa.QueueTimeout)
	}

	whatsapp := engine.Group("/whatsapp")
	{
		whatsapp.GET("/webhook", h.WhatsApp.Verify)
		whatsapp.POST("/webhook", h.WhatsApp.Receive)
	}

	// Back office
	engine.POST("/api/auth/login", h.Auth.Login)

	api := engine.Group("/api", middleware.JWTAuth(cfg.JWTService))
	{
		categories := api.Group("/categories")
		{
			categories.GET("", h.Category.List)
			categories.POST("", h.Category.Create)
			categories.GET("/:id", h.Category.GetByID)
			categories.PUT("/:id", h.Category.Update)
			categories.DELETE("/:id", h.Category.Delete)
		}

		products := api.Group("/products")
		{
			products.GET("", h.Product.List)
			products.POST("", h.Product.Create)
			products.GET("/:id", h.Product.GetByID)
			products.PUT("/:id", h.Product.Update)
			products.DELETE("/:id", h.Product.Delete)
			products.DELETE("/:id/images/:imageId", h.Product.RemoveImage)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", h.Order.List)
			orders.GET("/stats", h.Order.Stats)
			orders.GET("/:id", h.Order.GetByID)
			orders.PUT("/:id/status", h.Order.UpdateStatus)
			orders.DELETE("/:id", h.Order.Delete)
		}

		locations := api.Group("/locations")
		{
			locations.GET("", h.Location.List)
			locations.POST("", h.Location.Create)
			locations.PUT("/:id", h.Location.Update)
			locations.DELETE("/:id", h.Location.Delete)
		}

		transactions := api.Group("/transactions")
		{
			transactions.GET("", h.Transaction.List)
			transactions.GET("/stats", h.Transaction.Stats)
			transactions.GET("/:id/status", h.Transaction.QueryStatus)
		}

		api.GET("/mpesa/balance", h.Transaction.Balance)
		api.POST("/mpesa/balance/refresh", h.Transaction.RefreshBalance)

		jobs := api.Group("/jobs")
		{
			jobs.GET("", h.Schedule.List)
			jobs.POST("", h.Schedule.Upsert)
			jobs.POST("/trigger", h.Schedule.Trigger)
			jobs.POST("/:id/toggle", h.Schedule.Toggle)
			jobs.DELETE("/:id", h.Schedule.Delete)
		}
	}
}
