// Package routes mounts the HTTP API onto the router.
package routes

import (
	"time"

	"github.com/miraedance/atelier/app/controllers"
	"github.com/miraedance/atelier/internal/live"
	"github.com/miraedance/atelier/pkg/metrics"
	"github.com/miraedance/atelier/pkg/middleware"
	"github.com/miraedance/atelier/pkg/reqid"
	"github.com/miraedance/atelier/pkg/router"
)

// Controllers bundles every controller the API mounts, so callers build
// their dependency graph once and hand it over.
type Controllers struct {
	Auth          *controllers.AuthController
	Products      *controllers.ProductController
	Orders        *controllers.OrderController
	Customers     *controllers.CustomerController
	Consultations *controllers.ConsultationController
	Uploads       *controllers.UploadController

	Hub *live.Hub
}

func RegisterAPI(r *router.Router, c Controllers) {
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
	)

	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api", middleware.RateLimit(120, time.Minute))

	// Public storefront.
	api.Get("/products", "products.index", c.Products.Index)
	api.Get("/products/{id}", "products.show", c.Products.Show)
	api.Post("/consultations", "consultations.create", c.Consultations.Create)

	api.Post("/signup", "auth.signup", c.Auth.Signup, middleware.RateLimit(20, time.Minute))
	api.Post("/login", "auth.login", c.Auth.Login, middleware.RateLimit(20, time.Minute))

	// Signed-in customers.
	protected := api.Group("", middleware.Authenticate)
	protected.Post("/logout", "auth.logout", c.Auth.Logout)
	protected.Get("/profile", "profile.show", c.Customers.Profile)
	protected.Put("/profile", "profile.update", c.Customers.UpdateProfile)
	protected.Post("/orders", "orders.create", c.Orders.Create)
	protected.Get("/orders/mine", "orders.mine", c.Orders.Mine)

	// Back office.
	admin := api.Group("/admin", middleware.Authenticate, middleware.RequireAdmin)

	admin.Post("/products", "admin.products.create", c.Products.Create)
	admin.Put("/products/{id}", "admin.products.update", c.Products.Update)
	admin.Delete("/products/{id}", "admin.products.delete", c.Products.Delete)

	admin.Get("/customers", "admin.customers.index", c.Customers.Index)
	admin.Post("/customers", "admin.customers.create", c.Customers.Create)
	admin.Get("/customers/{id}", "admin.customers.show", c.Customers.Show)
	admin.Put("/customers/{id}", "admin.customers.update", c.Customers.Update)
	admin.Delete("/customers/{id}", "admin.customers.delete", c.Customers.Delete)

	admin.Get("/orders", "admin.orders.index", c.Orders.Index)
	admin.Get("/orders/{id}", "admin.orders.show", c.Orders.Show)
	admin.Patch("/orders/{id}/status", "admin.orders.transition", c.Orders.Transition)
	admin.Put("/orders/{id}/status", "admin.orders.status", c.Orders.SetStatus)
	admin.Delete("/orders/{id}", "admin.orders.delete", c.Orders.Delete)

	admin.Get("/consultations", "admin.consultations.index", c.Consultations.Index)
	admin.Patch("/consultations/{id}/status", "admin.consultations.status", c.Consultations.SetStatus)
	admin.Delete("/consultations/{id}", "admin.consultations.delete", c.Consultations.Delete)

	admin.Post("/uploads", "admin.uploads.create", c.Uploads.Image)

	if c.Hub != nil {
		admin.Get("/feed", "admin.feed", c.Hub.Serve)
	}
}
