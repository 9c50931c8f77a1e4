// Package routes wires every endpoint to its controller.
package routes

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/lastbite/app/controllers"
	"github.com/shashiranjanraj/lastbite/app/services"
	"github.com/shashiranjanraj/lastbite/pkg/metrics"
	"github.com/shashiranjanraj/lastbite/pkg/middleware"
	"github.com/shashiranjanraj/lastbite/pkg/reqid"
	"github.com/shashiranjanraj/lastbite/pkg/response"
	"github.com/shashiranjanraj/lastbite/pkg/router"
)

// RegisterAPI mounts the full HTTP surface on r.
func RegisterAPI(r *router.Router) {
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	authController := controllers.NewAuthController()
	accountController := controllers.NewAccountController()
	catalogController := controllers.NewCatalogController()
	orderController := controllers.NewOrderController()
	cartController := controllers.NewCartController(services.NewRedisCartStore())
	vendorController := controllers.NewVendorController()
	emissionController := controllers.NewEmissionController()

	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")

	// Public
	api.Post("/register", "auth.register", authController.Register)
	api.Post("/login", "auth.login", authController.Login)
	api.Get("/items", "catalog.list", catalogController.List)
	api.Get("/items/{id}", "catalog.show", catalogController.Show)
	api.Post("/emissions/estimate", "emissions.estimate", emissionController.Estimate)
	api.Get("/emissions/factor", "emissions.factor", emissionController.Factor)

	// Authenticated consumers (and vendors acting as buyers)
	protected := api.Group("", middleware.Auth)
	protected.Get("/profile", "account.profile", accountController.Profile)
	protected.Post("/profile/addresses", "account.addresses.add", accountController.AddAddress)
	protected.Post("/profile/payment-methods", "account.payments.add", accountController.AddPaymentMethod)

	protected.Post("/orders", "orders.place", orderController.Place)
	protected.Get("/orders", "orders.list", orderController.List)
	protected.Get("/orders/{number}", "orders.show", orderController.Show)

	protected.Get("/cart", "cart.show", cartController.Show)
	protected.Put("/cart", "cart.update", cartController.Update)
	protected.Delete("/cart", "cart.clear", cartController.Clear)
	protected.Post("/cart/checkout", "cart.checkout", cartController.Checkout)

	// Vendor dashboard
	vendor := api.Group("/vendor", middleware.Auth, middleware.RequireVendor)
	vendor.Get("/items", "vendor.items", vendorController.Items)
	vendor.Post("/items", "vendor.items.create", vendorController.CreateItem)
	vendor.Put("/items/{id}", "vendor.items.update", vendorController.UpdateItem)
	vendor.Delete("/items/{id}", "vendor.items.delete", vendorController.DeleteItem)
	vendor.Post("/items/{id}/image", "vendor.items.image", vendorController.UploadImage)
	vendor.Get("/orders", "vendor.orders", vendorController.Orders)
	vendor.Patch("/orders/{number}/status", "vendor.orders.status", vendorController.UpdateOrderStatus)
	vendor.Get("/feed", "vendor.feed", vendorController.Feed)
}
