package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/authorizerdev/authorizer-go"

	"github.com/mealbridge/mealbridge/internal/config"
	"github.com/mealbridge/mealbridge/internal/contracts"
	"github.com/mealbridge/mealbridge/internal/models"
	"github.com/mealbridge/mealbridge/internal/utils"
)

var (
	authClient *authorizer.AuthorizerClient
	authOnce   sync.Once
)

// IsAuthorizerInitialized returns true if the Authorizer client is initialized
func IsAuthorizerInitialized() bool {
	return authClient != nil
}

// InitAuthorizer initializes the Authorizer client (singleton pattern).
// Only called when AUTHZ_URL is configured; without it the service runs on
// mock cookie sessions.
func InitAuthorizer(cfg *config.Config, requestProtocol, requestHost string) error {
	var initErr error

	authOnce.Do(func() {
		// Ping the Authorizer service first
		if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
			initErr = fmt.Errorf("authorizer ping failed: %w", err)
			return
		}

		redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)
		log.Printf("Initializing Authorizer: authorizerURL=%s, clientID=%s, redirectURL=%s",
			cfg.AuthzURL, cfg.AuthzClientID, redirectURL)

		var err error
		authClient, err = authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, redirectURL, nil)
		if err != nil {
			initErr = fmt.Errorf("failed to create authorizer client: %w", err)
			return
		}
	})

	return initErr
}

// ValidateAuthorizerSession validates a session cookie against the
// Authorizer instance and mirrors the external identity into the user table
// so donations can reference it. The raw profile lands in the claims column.
func (s *Store) ValidateAuthorizerSession(cookie string, roles []string) (models.User, error) {
	if authClient == nil {
		return models.User{}, fmt.Errorf("authorizer client not initialized")
	}

	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := authClient.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid {
		return models.User{}, fmt.Errorf("session is not valid")
	}

	claims, err := json.Marshal(res.User)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to encode identity claims: %w", err)
	}

	// The profile fields follow the OIDC claim names.
	var profile struct {
		ID                string  `json:"id"`
		Email             *string `json:"email"`
		GivenName         *string `json:"given_name"`
		FamilyName        *string `json:"family_name"`
		Picture           *string `json:"picture"`
		PreferredUsername *string `json:"preferred_username"`
	}
	if err := json.Unmarshal(claims, &profile); err != nil {
		return models.User{}, fmt.Errorf("failed to decode identity claims: %w", err)
	}
	if profile.ID == "" {
		return models.User{}, fmt.Errorf("session carries no user id")
	}

	input := contracts.UpsertUserRequest{
		ID:              profile.ID,
		Email:           profile.Email,
		FirstName:       profile.GivenName,
		LastName:        profile.FamilyName,
		ProfileImageURL: profile.Picture,
		Username:        profile.PreferredUsername,
		Claims:          claims,
	}
	if len(roles) > 0 {
		role := roles[0]
		input.Role = &role
	}

	return s.UpsertUser(input)
}

// Login implements the mock session flow: resolve the username, creating the
// user with the requested role on first login. An existing user whose role
// does not match the requested one is rejected.
func (s *Store) Login(input contracts.LoginRequest) (models.User, error) {
	user, err := s.GetUserByUsername(input.Username)
	if err == nil {
		if user.Role != nil && *user.Role != input.Role {
			return models.User{}, fmt.Errorf("user %s is registered as %s", input.Username, *user.Role)
		}
		return user, nil
	}

	username, role := input.Username, input.Role
	return s.UpsertUser(contracts.UpsertUserRequest{
		Username: &username,
		Role:     &role,
		Name:     &username,
	})
}
