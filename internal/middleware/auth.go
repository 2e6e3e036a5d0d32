// auth.go
//
// MealBridge donation-matching data service.

package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge/internal/config"
	"github.com/mealbridge/mealbridge/internal/models"
	"github.com/mealbridge/mealbridge/internal/services"
	"github.com/mealbridge/mealbridge/internal/types"
)

// SessionCookie names the cookie carrying the session. In mock mode its
// value is the user id; in Authorizer mode it is the Authorizer session.
const SessionCookie = "mb_session"

// Session resolves the session cookie to a User and stores it in
// c.Locals("user"). Requests without a resolvable session pass through
// anonymously; RequireRole decides whether that is acceptable per route.
func Session(cfg *config.Config, store *services.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(SessionCookie)
		if cookie == "" {
			return c.Next()
		}

		if cfg.AuthzURL != "" {
			if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err == nil {
				if user, err := store.ValidateAuthorizerSession(cookie, nil); err == nil {
					c.Locals("user", user)
				}
			}
			return c.Next()
		}

		if user, err := store.GetUser(cookie); err == nil {
			c.Locals("user", user)
		}
		return c.Next()
	}
}

// RequireRole validates that the request carries a session for a user with
// one of the given roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(models.User)
		if !ok {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: fmt.Sprintf("Session cookie %q not found or invalid", SessionCookie),
				Type:    "auth.session",
			}
		}

		for _, role := range roles {
			if user.Role != nil && *user.Role == role {
				return c.Next()
			}
		}

		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Insufficient role for this action",
			Type:    "auth.role",
		}
	}
}
