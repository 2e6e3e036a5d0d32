package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mealbridge/mealbridge/data"
	"github.com/mealbridge/mealbridge/internal/contracts"
	"github.com/mealbridge/mealbridge/internal/models"
	"github.com/mealbridge/mealbridge/internal/types"
)

type seedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

type seedDonation struct {
	FoodType          string  `json:"foodType"`
	Quantity          string  `json:"quantity"`
	Location          string  `json:"location"`
	ExpiryOffsetHours int     `json:"expiryOffsetHours"`
	Notes             *string `json:"notes"`
	Donor             string  `json:"donor"`
	ClaimedBy         string  `json:"claimedBy"`
}

type seedFile struct {
	Users     []seedUser     `json:"users"`
	Donations []seedDonation `json:"donations"`
}

// SeedDemo loads the embedded demo dataset through the store's own
// operations. It is a no-op when the first seed user already exists, so
// restarts do not duplicate listings.
func (s *Store) SeedDemo() error {
	var seed seedFile
	if err := json.Unmarshal(data.DemoSeed, &seed); err != nil {
		return fmt.Errorf("failed to parse demo seed: %w", err)
	}

	if len(seed.Users) > 0 {
		if _, err := s.GetUserByUsername(seed.Users[0].Username); err == nil {
			return nil
		}
	}

	userIDs := make(map[string]string, len(seed.Users))
	for _, u := range seed.Users {
		username, role, name := u.Username, u.Role, u.Name
		user, err := s.UpsertUser(contracts.UpsertUserRequest{
			ID:       u.ID,
			Username: &username,
			Role:     &role,
			Name:     &name,
		})
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Username, err)
		}
		userIDs[u.Username] = user.ID
	}

	for _, d := range seed.Donations {
		donation, err := s.CreateDonation(contracts.CreateDonationRequest{
			FoodType:   d.FoodType,
			Quantity:   d.Quantity,
			Location:   d.Location,
			ExpiryTime: types.FlexTime(time.Now().UTC().Add(time.Duration(d.ExpiryOffsetHours) * time.Hour)),
			Notes:      d.Notes,
			DonorID:    types.FlexID(userIDs[d.Donor]),
		})
		if err != nil {
			return fmt.Errorf("failed to seed donation %q: %w", d.FoodType, err)
		}

		// Pre-claimed demo listings go through the regular claim transition.
		if d.ClaimedBy != "" {
			ngoID := types.FlexID(userIDs[d.ClaimedBy])
			if _, err := s.UpdateDonationStatus(donation.ID, contracts.UpdateDonationStatusRequest{
				Status: models.StatusRequested,
				NgoID:  &ngoID,
			}); err != nil {
				return fmt.Errorf("failed to claim seeded donation %q: %w", d.FoodType, err)
			}
		}
	}

	log.Printf("Seeded demo data: %d users, %d donations", len(seed.Users), len(seed.Donations))
	return nil
}
