// donations.go
//
// MealBridge donation-matching data service.
//
// Single definition of the request shapes crossing the HTTP/store boundary.
// The store accepts these types directly, so the validated contract and the
// persisted record shape cannot drift apart.

package contracts

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge/internal/models"
	"github.com/mealbridge/mealbridge/internal/types"
)

// CreateDonationRequest carries every donation field except the
// server-assigned ones (id, status, ngoId, createdAt). The donor id comes
// from the caller's authenticated identity when auth is enforced, otherwise
// from the request body.
type CreateDonationRequest struct {
	FoodType   string         `json:"foodType"`
	Quantity   string         `json:"quantity"`
	Location   string         `json:"location"`
	ExpiryTime types.FlexTime `json:"expiryTime"`
	Notes      *string        `json:"notes"`
	DonorID    types.FlexID   `json:"donorId"`
}

// UpdateDonationStatusRequest is the status-transition input. NgoID is
// required in practice only for the available -> requested transition; the
// merge into the stored record only touches fields that were supplied.
type UpdateDonationStatusRequest struct {
	Status models.DonationStatus `json:"status"`
	NgoID  *types.FlexID         `json:"ngoId"`
}

// UpsertUserRequest mirrors the identity-provider payload for user records.
type UpsertUserRequest struct {
	ID              string  `json:"id"`
	Email           *string `json:"email"`
	Username        *string `json:"username"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
	Role            *string `json:"role"`
	Name            *string `json:"name"`
	Claims          []byte  `json:"-"`
}

// LoginRequest is the mock-login input.
type LoginRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Validation errors for failures detected before a request struct exists.
var (
	InvalidInputError = types.CustomError{
		Code:    fiber.StatusBadRequest,
		Message: "Invalid input",
		Type:    "donation.validation",
	}
	ExpiryTimeError = types.CustomError{
		Code:    fiber.StatusBadRequest,
		Message: "Expiry time must be a valid timestamp",
		Type:    "donation.validation",
		Field:   "expiryTime",
	}
)

// UserID adapts a stored user id to the contract id type.
func UserID(user models.User) types.FlexID {
	return types.FlexID(user.ID)
}

func validationError(field, message string) *types.CustomError {
	return &types.CustomError{
		Code:    fiber.StatusBadRequest,
		Message: message,
		Type:    "donation.validation",
		Field:   field,
	}
}

// Validate checks the required-field rules. The first violation encountered
// is reported; no multi-error aggregation.
func (r *CreateDonationRequest) Validate() *types.CustomError {
	if r.FoodType == "" {
		return validationError("foodType", "Food type is required")
	}
	if r.Quantity == "" {
		return validationError("quantity", "Quantity is required")
	}
	if r.Location == "" {
		return validationError("location", "Location is required")
	}
	if r.ExpiryTime.IsZero() {
		return validationError("expiryTime", "Expiry time must be a valid timestamp")
	}
	if r.DonorID == "" {
		return validationError("donorId", "Donor id is required")
	}
	return nil
}

// Validate checks that the target status names one of the lifecycle states.
func (r *UpdateDonationStatusRequest) Validate() *types.CustomError {
	if !r.Status.Valid() {
		return validationError("status", "Status must be one of available, requested, collected")
	}
	return nil
}

// Validate checks the mock-login input.
func (r *LoginRequest) Validate() *types.CustomError {
	if r.Username == "" {
		return validationError("username", "Username is required")
	}
	if r.Role != models.RoleDonor && r.Role != models.RoleNgo {
		return validationError("role", "Role must be donor or ngo")
	}
	return nil
}
