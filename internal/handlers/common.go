package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge/internal/models"
)

// parseDonationID parses the :id route parameter. Non-numeric ids behave
// like absent ones: the caller answers 404, same as the listing lookup.
func parseDonationID(c *fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// sessionUser returns the authenticated user stored by the session
// middleware, if any.
func sessionUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals("user").(models.User)
	return user, ok
}
