package routes

import (
	"net/http"

	"agribridge/auth"
	"agribridge/cart"
	"agribridge/globals"
	"agribridge/hubs"
	"agribridge/metrics"
	"agribridge/middleware"
	"agribridge/orders"
	"agribridge/products"
	"agribridge/profile"
	"agribridge/ratelim"
	"agribridge/realtime"
	"agribridge/verification"

	"github.com/julienschmidt/httprouter"
)

// NewOrderHandlers wires the order workflow once at startup: Mongo store,
// Mongo cart, Redis event publisher.
func NewOrderHandlers() *orders.Handlers {
	svc := orders.NewService(
		orders.NewMongoStore(),
		cart.MongoCarts{},
		realtime.PublishOrderEvent,
		globals.WhatsAppNumber,
	)
	return orders.NewHandlers(svc)
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
}

func AddCartRoutes(router *httprouter.Router) {
	router.POST("/api/cart", middleware.Authenticate(cart.AddToCart))
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.PUT("/api/cart/:productid", middleware.Authenticate(cart.SetQuantity))
	router.DELETE("/api/cart/:productid", middleware.Authenticate(cart.RemoveFromCart))
	router.DELETE("/api/cart", middleware.Authenticate(cart.ClearCart))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *orders.Handlers) {
	router.POST("/api/orders", rl.Limit(middleware.Authenticate(orders.Idempotency(h.PlaceOrder))))
	router.GET("/api/orders", middleware.Authenticate(middleware.RequireRole("admin", h.GetOrders)))
	router.GET("/api/myorders", middleware.Authenticate(h.GetMyOrders))
	router.GET("/api/orders/:id", middleware.Authenticate(h.GetOrder))
	router.GET("/api/orders/:id/receipt", middleware.Authenticate(h.Receipt))
	router.PATCH("/api/orders/:id/status", middleware.Authenticate(middleware.RequireRole("admin", h.UpdateStatus)))
	router.PATCH("/api/orders/:id/payment", middleware.Authenticate(middleware.RequireRole("admin", h.UpdatePayment)))
	router.DELETE("/api/orders/:id", middleware.Authenticate(middleware.RequireRole("admin", h.DeleteOrder)))
}

func AddHubRoutes(router *httprouter.Router) {
	router.GET("/api/hubs", hubs.GetHubs)
	router.GET("/api/hubs/:hubid", hubs.GetHub)
	router.POST("/api/hubs", middleware.Authenticate(middleware.RequireRole("admin", hubs.CreateHub)))
	router.PUT("/api/hubs/:hubid", middleware.Authenticate(middleware.RequireRole("admin", hubs.UpdateHub)))
	router.DELETE("/api/hubs/:hubid", middleware.Authenticate(middleware.RequireRole("admin", hubs.DeleteHub)))
}

func AddVerificationRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	svc := verification.NewService(verification.MongoProfiles{}, verification.DiskDocs{})
	h := verification.NewHandlers(svc)

	router.POST("/api/verification", rl.Limit(middleware.Authenticate(h.Submit)))
	router.GET("/api/verification/:farmerid/documents", middleware.Authenticate(middleware.RequireRole("admin", h.Documents)))
	router.POST("/api/verification/:farmerid/approve", middleware.Authenticate(middleware.RequireRole("admin", h.Approve)))
	router.POST("/api/verification/:farmerid/decline", middleware.Authenticate(middleware.RequireRole("admin", h.Decline)))
}

func AddProfileRoutes(router *httprouter.Router) {
	router.GET("/api/profile", middleware.Authenticate(profile.GetMyProfile))
	router.PUT("/api/profile", middleware.Authenticate(profile.EditProfile))
	router.GET("/api/farmers", middleware.Authenticate(middleware.RequireRole("admin", profile.ListFarmers)))
}

func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/products", middleware.OptionalAuth(products.GetProducts))
	router.GET("/api/products/:productid", middleware.OptionalAuth(products.GetProduct))
	router.POST("/api/products", middleware.Authenticate(products.CreateProduct))
	router.DELETE("/api/products/:productid", middleware.Authenticate(products.DeleteProduct))
}

func AddRealtimeRoutes(router *httprouter.Router, hub *realtime.Hub) {
	router.GET("/ws/orders/:orderid", middleware.Authenticate(hub.HandleWS))
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddMetricsRoutes(router *httprouter.Router) {
	router.Handler("GET", "/metrics", metrics.Handler())
}
