// store.go
//
// MealBridge donation-matching data service.

package services

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge/internal/types"
)

// Store is the single source of truth for User and Donation records. It is
// constructed once at startup with its backing *gorm.DB and handed to every
// consumer explicitly; there is no package-level instance.
type Store struct {
	db     *gorm.DB
	strict bool
}

// Option configures a Store.
type Option func(*Store)

// WithStrictLifecycle enables server-side enforcement of forward-only status
// transitions and collector identity. The default is the permissive legacy
// behavior where the store applies whatever transition the caller sends.
func WithStrictLifecycle() Option {
	return func(s *Store) {
		s.strict = true
	}
}

// NewStore creates a Store backed by db.
func NewStore(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the backing handle for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFoundError(message, errorType string) *types.CustomError {
	return &types.CustomError{
		Code:    fiber.StatusNotFound,
		Message: message,
		Type:    errorType,
	}
}

func conflictError(message string) *types.CustomError {
	return &types.CustomError{
		Code:    fiber.StatusConflict,
		Message: message,
		Type:    "donation.lifecycle",
	}
}
