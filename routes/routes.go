package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"vitrin/auth"
	"vitrin/cart"
	"vitrin/catalog"
	"vitrin/middleware"
	"vitrin/orders"
	"vitrin/ratelim"
	"vitrin/realtime"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(h.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(middleware.Authenticate(h.RefreshToken)))
	router.GET("/api/auth/me", middleware.Authenticate(h.Me))
}

func AddProductRoutes(router *httprouter.Router, h *catalog.Handler) {
	router.GET("/api/products", h.ListProducts)
	router.GET("/api/products/:productid", h.GetProduct)
	// httprouter cannot mix /api/products/categories with :productid,
	// so category enumeration lives one level up.
	router.GET("/api/categories", h.ListCategories)
	router.POST("/api/products/:productid/image", middleware.Authenticate(h.UploadImage))
}

func AddCartRoutes(router *httprouter.Router, h *cart.Handler) {
	router.GET("/api/cart", middleware.OptionalAuth(h.GetCart))
	router.POST("/api/cart", middleware.OptionalAuth(h.AddItem))
	router.PUT("/api/cart", middleware.OptionalAuth(h.UpdateQuantity))
	router.DELETE("/api/cart", middleware.OptionalAuth(h.RemoveItem))
}

func AddOrderRoutes(router *httprouter.Router, h *orders.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(middleware.Authenticate(h.CreateOrder)))
	router.GET("/api/orders", middleware.Authenticate(h.ListMyOrders))
	// /api/orders/all would collide with :orderid in httprouter, so the
	// administrative listing is namespaced under /api/admin.
	router.GET("/api/admin/orders", middleware.Authenticate(h.ListAllOrders))
	router.GET("/api/orders/:orderid", middleware.Authenticate(h.GetOrder))
	router.PATCH("/api/orders/:orderid/status", middleware.Authenticate(h.UpdateStatus))
	router.GET("/api/orders/:orderid/invoice", middleware.Authenticate(h.PrintInvoice))
}

func AddRealtimeRoutes(router *httprouter.Router, hub *realtime.Hub) {
	router.GET("/ws/updates/:topic", realtime.Subscribe(hub))
}
