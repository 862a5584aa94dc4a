package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows the configured web origins. The auth cookie only crosses
// origins with credentials, which browsers refuse for a wildcard origin, so
// credentials are enabled only for an explicit origin list.
func CORS(cfg *config.Config) fiber.Handler {
	origins := cfg.CORSOriginList()
	wildcard := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	allow := "*"
	if !wildcard {
		allow = strings.Join(origins, ",")
	}

	return cors.New(cors.Config{
		AllowOrigins:     allow,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		AllowCredentials: !wildcard,
		ExposeHeaders:    "Retry-After, X-Request-ID",
		MaxAge:           600,
	})
}
