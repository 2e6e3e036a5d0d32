// data.go
//
// MealBridge donation-matching data service.

package helpers

import (
	"testing"
	"time"

	"github.com/mealbridge/mealbridge/internal/models"
	"gorm.io/gorm"
)

// CreateTestUser creates a user record with the given id and role
func CreateTestUser(t *testing.T, db *gorm.DB, id, username, role string) models.User {
	t.Helper()
	user := models.User{
		ID:       id,
		Username: &username,
		Role:     &role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// CreateTestDonation creates an available listing owned by the given donor
func CreateTestDonation(t *testing.T, db *gorm.DB, foodType, donorID string) models.Donation {
	t.Helper()
	donation := models.Donation{
		FoodType:   foodType,
		Quantity:   "1 box",
		Location:   "Test St",
		ExpiryTime: time.Now().UTC().Add(24 * time.Hour),
		Status:     models.StatusAvailable,
		DonorID:    donorID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.Create(&donation).Error; err != nil {
		t.Fatalf("Failed to create donation %s: %v", foodType, err)
	}
	return donation
}
