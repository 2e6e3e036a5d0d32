// lifecycle.go
//
// Listing lifecycle rules. A donation only ever advances forward:
//
//	available -> requested -> collected
//
// The available -> requested transition binds the acting NGO's id to the
// listing; requested -> collected leaves it unchanged. There is no path back
// to available, no cancellation, and nothing is driven by expiryTime
// elapsing: an expired listing stays claimable.
//
// Historically none of this was checked server-side; clients were trusted to
// only send legal transitions. CanTransition and checkTransition are applied
// by the store only when strict lifecycle enforcement is switched on.

package services

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge/internal/contracts"
	"github.com/mealbridge/mealbridge/internal/models"
	"github.com/mealbridge/mealbridge/internal/types"
)

// CanTransition reports whether a listing may move from one status to the
// other.
func CanTransition(from, to models.DonationStatus) bool {
	switch from {
	case models.StatusAvailable:
		return to == models.StatusRequested
	case models.StatusRequested:
		return to == models.StatusCollected
	}
	return false
}

// checkTransition gates a status update in strict mode: the transition must
// move forward, a claim must name the claiming NGO, and only the NGO that
// requested a listing may mark it collected.
func checkTransition(donation models.Donation, input contracts.UpdateDonationStatusRequest) error {
	if !CanTransition(donation.Status, input.Status) {
		return conflictError("Cannot move donation from " + string(donation.Status) + " to " + string(input.Status))
	}

	if input.Status == models.StatusRequested && input.NgoID == nil {
		return &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: "An NGO id is required to request a donation",
			Type:    "donation.validation",
			Field:   "ngoId",
		}
	}

	if input.Status == models.StatusCollected && input.NgoID != nil &&
		donation.NgoID != nil && input.NgoID.String() != *donation.NgoID {
		return conflictError("Donation was requested by a different NGO")
	}

	return nil
}
