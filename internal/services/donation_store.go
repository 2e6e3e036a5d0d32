// donation_store.go
//
// MealBridge donation-matching data service.

package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge/internal/contracts"
	"github.com/mealbridge/mealbridge/internal/models"
)

// CreateDonation persists a new listing. The caller validates input against
// the contract before this is reached; the store forces the initial state
// regardless of what the input carried: status=available, ngoId=null,
// createdAt=now, next sequential id.
func (s *Store) CreateDonation(input contracts.CreateDonationRequest) (models.Donation, error) {
	donation := models.Donation{
		FoodType:   input.FoodType,
		Quantity:   input.Quantity,
		Location:   input.Location,
		ExpiryTime: input.ExpiryTime.Time(),
		Notes:      input.Notes,
		Status:     models.StatusAvailable,
		DonorID:    input.DonorID.String(),
		NgoID:      nil,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.db.Create(&donation).Error; err != nil {
		return models.Donation{}, err
	}
	return donation, nil
}

// ListDonations returns every listing, newest first. The ordering key is
// created_at with id as tie-breaker; recomputed on every call.
func (s *Store) ListDonations() ([]models.Donation, error) {
	donations := make([]models.Donation, 0)
	if err := s.db.Order("created_at DESC, id DESC").Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

// GetDonation looks a listing up by id.
func (s *Store) GetDonation(id int) (models.Donation, error) {
	var donation models.Donation
	err := s.db.Where("id = ?", id).First(&donation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Donation{}, notFoundError("Donation not found", "donation.notFound")
	}
	if err != nil {
		return models.Donation{}, err
	}
	return donation, nil
}

// UpdateDonationStatus applies a status transition as a shallow merge: the
// new status overwrites the old, and ngoId is written only when the request
// supplied one. Concurrent updates to the same listing resolve last-write-
// wins; there is no version check. With the strict option the lifecycle
// rules in lifecycle.go gate the merge first.
func (s *Store) UpdateDonationStatus(id int, input contracts.UpdateDonationStatusRequest) (models.Donation, error) {
	donation, err := s.GetDonation(id)
	if err != nil {
		return models.Donation{}, err
	}

	if s.strict {
		if err := checkTransition(donation, input); err != nil {
			return models.Donation{}, err
		}
	}

	fields := map[string]interface{}{"status": input.Status}
	if input.NgoID != nil {
		fields["ngo_id"] = input.NgoID.String()
	}

	if err := s.db.Model(&models.Donation{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return models.Donation{}, err
	}

	// Read back the merged record.
	return s.GetDonation(id)
}
