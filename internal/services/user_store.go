package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge/internal/contracts"
	"github.com/mealbridge/mealbridge/internal/models"
)

// UpsertUser writes the user record keyed by id, generating a new id when
// none is supplied. Fields absent from the input reset to null; createdAt is
// preserved across re-upserts of the same id. Always succeeds barring a
// storage failure.
func (s *Store) UpsertUser(input contracts.UpsertUserRequest) (models.User, error) {
	user := models.User{
		ID:              input.ID,
		Email:           input.Email,
		Username:        input.Username,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		ProfileImageURL: input.ProfileImageURL,
		Role:            input.Role,
		Name:            input.Name,
	}
	if len(input.Claims) > 0 {
		user.Claims = models.JSON{JSON: datatypes.JSON(input.Claims)}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	var existing models.User
	err := s.db.Where("id = ?", user.ID).First(&existing).Error
	switch {
	case err == nil:
		user.CreatedAt = existing.CreatedAt
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first sighting of this id
	default:
		return models.User{}, err
	}

	if err := s.db.Save(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUser looks a user up by id.
func (s *Store) GetUser(id string) (models.User, error) {
	var user models.User
	err := s.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, notFoundError("User not found", "user.notFound")
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUserByUsername looks a user up by exact, case-sensitive username.
// Duplicates are not prevented; the lowest id wins.
func (s *Store) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).Order("id").First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, notFoundError("User not found", "user.notFound")
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}
