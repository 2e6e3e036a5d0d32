package models

import (
	"time"
)

// Roles a user can hold. A role is assigned once at first login and is not
// transitioned afterwards.
const (
	RoleDonor = "donor"
	RoleNgo   = "ngo"
)

// User is an identity record supplied by the login boundary.
type User struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	Email           *string   `gorm:"uniqueIndex;size:255" json:"email"`
	Username        *string   `gorm:"size:255;index" json:"username"`
	FirstName       *string   `gorm:"size:255" json:"firstName"`
	LastName        *string   `gorm:"size:255" json:"lastName"`
	ProfileImageURL *string   `gorm:"size:512" json:"profileImageUrl"`
	Role            *string   `gorm:"size:32" json:"role"`
	Name            *string   `gorm:"size:255" json:"name"`
	Claims          JSON      `gorm:"type:json" json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
