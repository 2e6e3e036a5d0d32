// donations.go
//
// MealBridge donation-matching data service.

package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge/internal/contracts"
	"github.com/mealbridge/mealbridge/internal/services"
	"github.com/mealbridge/mealbridge/internal/utils"
)

// DonationHandler handles the /api/donations routes
type DonationHandler struct {
	Store *services.Store
}

// ListDonations handles GET /api/donations
// @Summary List donations
// @Description Get all donation listings, newest first
// @Tags Donations
// @Produce json
// @Success 200 {array} models.Donation
// @Router /donations [get]
func (h *DonationHandler) ListDonations(c *fiber.Ctx) error {
	donations, err := h.Store.ListDonations()
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(donations)
}

// GetDonation handles GET /api/donations/:id
// @Summary Get a donation
// @Description Get a single donation listing by id
// @Tags Donations
// @Produce json
// @Param id path int true "Donation ID"
// @Success 200 {object} models.Donation
// @Failure 404 {object} utils.MessageResponseStruct
// @Router /donations/{id} [get]
func (h *DonationHandler) GetDonation(c *fiber.Ctx) error {
	id, ok := parseDonationID(c)
	if !ok {
		return utils.NotFoundResponse(c, "Donation not found")
	}

	donation, err := h.Store.GetDonation(id)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(donation)
}

// CreateDonation handles POST /api/donations
// @Summary Create a donation
// @Description Post a new surplus-food listing
// @Tags Donations
// @Accept json
// @Produce json
// @Param body body contracts.CreateDonationRequest true "Donation fields"
// @Success 201 {object} models.Donation
// @Failure 400 {object} utils.ValidationErrorResponseStruct
// @Router /donations [post]
func (h *DonationHandler) CreateDonation(c *fiber.Ctx) error {
	var input contracts.CreateDonationRequest
	if err := c.BodyParser(&input); err != nil {
		if strings.Contains(err.Error(), "FlexTime") {
			return utils.ValidationErrorResponse(c, &contracts.ExpiryTimeError)
		}
		return utils.ValidationErrorResponse(c, &contracts.InvalidInputError)
	}

	// An authenticated donor always posts as itself, regardless of what the
	// body carried.
	if user, ok := sessionUser(c); ok {
		input.DonorID = contracts.UserID(user)
	}

	if verr := input.Validate(); verr != nil {
		return utils.ValidationErrorResponse(c, verr)
	}

	donation, err := h.Store.CreateDonation(input)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(donation)
}

// UpdateDonationStatus handles PATCH /api/donations/:id/status
// @Summary Update donation status
// @Description Advance a listing through available -> requested -> collected
// @Tags Donations
// @Accept json
// @Produce json
// @Param id path int true "Donation ID"
// @Param body body contracts.UpdateDonationStatusRequest true "Target status and claiming NGO"
// @Success 200 {object} models.Donation
// @Failure 400 {object} utils.ValidationErrorResponseStruct
// @Failure 404 {object} utils.MessageResponseStruct
// @Failure 409 {object} utils.MessageResponseStruct
// @Router /donations/{id}/status [patch]
func (h *DonationHandler) UpdateDonationStatus(c *fiber.Ctx) error {
	id, ok := parseDonationID(c)
	if !ok {
		return utils.NotFoundResponse(c, "Donation not found")
	}

	var input contracts.UpdateDonationStatusRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.ValidationErrorResponse(c, &contracts.InvalidInputError)
	}

	if verr := input.Validate(); verr != nil {
		return utils.ValidationErrorResponse(c, verr)
	}

	donation, err := h.Store.UpdateDonationStatus(id, input)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(donation)
}
