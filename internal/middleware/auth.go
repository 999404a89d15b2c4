package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/nutradaily/internal/services"
	"github.com/localnerve/nutradaily/internal/types"
)

// EmailKey is the fiber Locals key holding the signed-in user's email
const EmailKey = "email"

const authErrorType = "session.authorization"

// AuthUser validates the session token and stores the user's email in the context
func AuthUser(sessions *services.SessionIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Session cookie \"" + services.SessionCookie + "\" not found",
				Type:    authErrorType,
			}
		}

		claims, err := sessions.Validate(token)
		if err != nil {
			message := "Invalid session"
			if errors.Is(err, services.ErrSessionExpired) {
				message = "Session expired"
			}
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: message,
				Type:    authErrorType,
			}
		}

		c.Locals(EmailKey, claims.Email())
		return c.Next()
	}
}

// sessionToken reads the session cookie, falling back to a bearer token
func sessionToken(c *fiber.Ctx) string {
	if session := c.Cookies(services.SessionCookie); session != "" {
		return session
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
