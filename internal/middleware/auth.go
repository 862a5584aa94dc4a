package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/config"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthCookie carries the session token for browser clients.
const AuthCookie = "auth_token"

const currentUserKey = "currentUser"

// JWTProtected verifies the bearer token or the auth cookie.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		TokenLookup: "header:Authorization,cookie:" + AuthCookie,
		AuthScheme:  "Bearer",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Code:    "UNAUTHORIZED",
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// CurrentUser loads the token's user from the store. Role and status always
// come from the row, never from the token.
func CurrentUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return unauthorized(c, "Unauthorized")
		}
		sub, err := token.Claims.GetSubject()
		if err != nil {
			return unauthorized(c, "Invalid token claims")
		}
		userID, err := uuid.Parse(sub)
		if err != nil {
			return unauthorized(c, "Invalid token subject")
		}

		user, err := auth.Me(userID)
		if err != nil || !user.IsActive() {
			return unauthorized(c, "User not found or inactive")
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// OptionalAuth resolves the viewer when a valid token is present and carries
// on anonymously otherwise.
func OptionalAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			raw = c.Cookies(AuthCookie)
		}
		if raw == "" {
			return c.Next()
		}

		userID, err := auth.ParseToken(raw)
		if err != nil {
			return c.Next()
		}
		if user, err := auth.Me(userID); err == nil && user.IsActive() {
			c.Locals(currentUserKey, user)
		}
		return c.Next()
	}
}

// GetUser returns the resolved user, or nil for anonymous requests.
func GetUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Code: "UNAUTHORIZED", Message: msg,
	})
}
