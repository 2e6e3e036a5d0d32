package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge/internal/contracts"
	"github.com/mealbridge/mealbridge/internal/middleware"
	"github.com/mealbridge/mealbridge/internal/services"
	"github.com/mealbridge/mealbridge/internal/utils"
)

// AuthHandler handles the /api/auth routes
type AuthHandler struct {
	Store *services.Store
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Mock login: resolves the username, creating the user with the given role on first login
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body contracts.LoginRequest true "Username and role"
// @Success 200 {object} models.User
// @Failure 401 {object} utils.MessageResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input contracts.LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.ValidationErrorResponse(c, &contracts.InvalidInputError)
	}

	if verr := input.Validate(); verr != nil {
		return utils.ValidationErrorResponse(c, verr)
	}

	user, err := h.Store.Login(input)
	if err != nil {
		return utils.UnauthorizedResponse(c, err.Error())
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    user.ID,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(fiber.StatusOK).JSON(user)
}

// CurrentUser handles GET /api/auth/user
// @Summary Current user
// @Description Return the user bound to the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.MessageResponseStruct
// @Router /auth/user [get]
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	user, ok := sessionUser(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Not logged in")
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie(middleware.SessionCookie)
	return c.SendStatus(fiber.StatusNoContent)
}
