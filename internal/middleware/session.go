package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"facade_backend/pkg/config"
	"facade_backend/pkg/logger"
	"facade_backend/pkg/utils/jwt"
)

const (
	SessionCookie       = "better-auth.session_token"
	SecureSessionCookie = "__Secure-better-auth.session_token"
)

// SessionCookieName returns the cookie the auth service sets; production
// deployments use the __Secure- prefixed name.
func SessionCookieName(production bool) string {
	if production {
		return SecureSessionCookie
	}
	return SessionCookie
}

// cookieValue undoes the URL encoding the auth service applies to the
// token. A value that does not decode is used as sent.
func cookieValue(raw string) string {
	if v, err := url.QueryUnescape(raw); err == nil {
		return v
	}
	return raw
}

// SessionGate lets a request through only with a non-blank session cookie.
// With a secret configured the cookie must also be a valid signed token.
func SessionGate(server config.ServerConfig, session config.SessionConfig) fiber.Handler {
	cookieName := SessionCookieName(server.IsProduction())

	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(cookieValue(c.Cookies(cookieName)))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if session.Secret != "" {
			claims, err := jwt.ValidateToken(session.Secret, token)
			if err != nil {
				logger.Log.WithError(err).Debug("Rejected session token")
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Unauthorized",
				})
			}
			c.Locals("session", claims)
		}

		return c.Next()
	}
}
