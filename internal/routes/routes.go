package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/config"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Health        *handlers.HealthHandler
	Price         *handlers.PriceHandler
	VendorRequest *handlers.VendorRequestHandler
	Notification  *handlers.NotificationHandler
	Catalog       *handlers.CatalogHandler
	Contact       *handlers.ContactHandler
	AdminUser     *handlers.AdminUserHandler
}

func Setup(app *fiber.App, cfg *config.Config, authService *services.AuthService, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(perIPLimiter(60))

	api.Get("/health", h.Health.Check)

	// Auth: stricter 10 req/min per IP
	auth := api.Group("/auth")
	auth.Post("/register", perIPLimiter(10), h.Auth.Register)
	auth.Post("/login", perIPLimiter(10), h.Auth.Login)
	auth.Post("/logout", h.Auth.Logout)

	protected := []fiber.Handler{middleware.JWTProtected(cfg), middleware.CurrentUser(authService)}
	optional := middleware.OptionalAuth(authService)

	auth.Get("/me", append(protected, h.Auth.Me)...)

	// Catalog (public)
	api.Get("/categories", h.Catalog.Categories)
	api.Get("/products", h.Catalog.Products)
	api.Get("/markets", h.Catalog.Markets)

	// Prices
	api.Get("/prices", optional, h.Price.List)
	api.Get("/prices/:id", optional, h.Price.Get)
	api.Post("/prices", append(protected, h.Price.Create)...)
	api.Patch("/prices/:id", append(protected, h.Price.Edit)...)
	api.Delete("/prices/:id", append(protected, h.Price.Delete)...)

	// Vendor onboarding (public, keyed by email)
	api.Post("/vendor-requests", perIPLimiter(10), h.VendorRequest.Submit)
	api.Get("/vendor-requests", h.VendorRequest.Eligibility)

	// Notifications
	api.Get("/notifications", optional, h.Notification.List)
	api.Patch("/notifications", append(protected, h.Notification.Mark)...)

	// Contact form
	api.Post("/contact", perIPLimiter(5), h.Contact.Submit)

	// Admin panel (JWT + store-checked ADMIN role)
	admin := api.Group("/admin", append(protected, middleware.AdminRequired())...)
	admin.Get("/vendor-requests", h.VendorRequest.List)
	admin.Patch("/vendor-requests", h.VendorRequest.Review)
	admin.Put("/prices/:id/review", h.Price.Review)
	admin.Get("/users", h.AdminUser.List)
	admin.Patch("/users", h.AdminUser.Update)
	admin.Delete("/users", h.AdminUser.Delete)
	admin.Get("/contact-messages", h.Contact.List)
	admin.Patch("/contact-messages/:id", h.Contact.Update)
	admin.Delete("/contact-messages/:id", h.Contact.Delete)
}

func perIPLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
