// response.go
//
// MealBridge donation-matching data service.
//
// Error payloads here are wire-compatible with the existing web client:
// validation failures carry {message, field}, everything else {message}.

package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge/internal/types"
)

// ValidationErrorResponseStruct defines the schema for 400 responses
type ValidationErrorResponseStruct struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// MessageResponseStruct defines the schema for 401/404/500 responses
type MessageResponseStruct struct {
	Message string `json:"message"`
}

// ValidationErrorResponse sends a 400 naming the offending field
func ValidationErrorResponse(c *fiber.Ctx, err *types.CustomError) error {
	return c.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponseStruct{
		Message: err.Message,
		Field:   err.Field,
	})
}

// NotFoundResponse sends a 404 with a message
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(MessageResponseStruct{Message: message})
}

// UnauthorizedResponse sends a 401 with a message
func UnauthorizedResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(MessageResponseStruct{Message: message})
}

// ErrorResponse sends an error response, honoring the code and field of a
// *types.CustomError when err is one.
func ErrorResponse(c *fiber.Ctx, err error) error {
	if ce, ok := err.(*types.CustomError); ok {
		if ce.Field != "" {
			return c.Status(ce.Code).JSON(ValidationErrorResponseStruct{
				Message: ce.Message,
				Field:   ce.Field,
			})
		}
		return c.Status(ce.Code).JSON(MessageResponseStruct{Message: ce.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(MessageResponseStruct{Message: err.Error()})
}
