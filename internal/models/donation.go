// donation.go
//
// MealBridge donation-matching data service.

package models

import (
	"time"
)

// DonationStatus is the lifecycle state of a listing.
type DonationStatus string

const (
	StatusAvailable DonationStatus = "available"
	StatusRequested DonationStatus = "requested"
	StatusCollected DonationStatus = "collected"
)

// Valid reports whether s is one of the three lifecycle states.
func (s DonationStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusRequested, StatusCollected:
		return true
	}
	return false
}

// Donation is a listed unit of surplus food. Ids are assigned sequentially
// and never reused; donor_id is set once at creation and never changes;
// ngo_id is null exactly while the listing is still available.
type Donation struct {
	ID         int            `gorm:"primaryKey;autoIncrement" json:"id"`
	FoodType   string         `gorm:"not null" json:"foodType"`
	Quantity   string         `gorm:"not null" json:"quantity"`
	Location   string         `gorm:"not null" json:"location"`
	ExpiryTime time.Time      `gorm:"not null" json:"expiryTime"`
	Notes      *string        `json:"notes"`
	Status     DonationStatus `gorm:"size:32;not null;default:available" json:"status"`
	DonorID    string         `gorm:"type:char(36);not null;index" json:"donorId"`
	NgoID      *string        `gorm:"type:char(36);index" json:"ngoId"`
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`
}

// TableName overrides the table name for Donation
func (Donation) TableName() string {
	return "donations"
}
