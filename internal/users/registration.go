package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tubestream/backend/internal/logging"
	"github.com/tubestream/backend/internal/models"
	"github.com/tubestream/backend/internal/repositories"
)

// userInfo mirrors the profile claims returned by the identity provider's
// userinfo endpoint. Every field may be absent.
type userInfo struct {
	Sub        string `json:"sub"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// RegistrationService creates user records from identity-provider profiles.
type RegistrationService struct {
	endpoint string
	client   *http.Client
	users    repositories.UserRepository
}

// NewRegistrationService wires the registration flow against the provider's
// userinfo endpoint.
func NewRegistrationService(endpoint string, timeout time.Duration, users repositories.UserRepository) *RegistrationService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RegistrationService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		users:    users,
	}
}

// Register fetches the caller's profile with their bearer token and upserts
// the user record keyed by the subject claim.
func (s *RegistrationService) Register(ctx context.Context, token string) error {
	ctx, span := logging.StartSpan(ctx, "users.register")
	defer span.End()

	logger := logging.FromContext(ctx)

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.Sub == "" {
		return fmt.Errorf("userinfo response has no sub claim")
	}

	existing, err := s.users.FindBySub(ctx, info.Sub)
	switch {
	case err == nil:
		existing.FirstName = info.GivenName
		existing.LastName = info.FamilyName
		existing.FullName = info.Name
		existing.Email = info.Email
		if err := s.users.UpdateProfile(ctx, existing); err != nil {
			return fmt.Errorf("refresh user profile: %w", err)
		}
		logger.Info("user profile refreshed", "userId", existing.ID)
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		user := models.User{
			Sub:       info.Sub,
			FirstName: info.GivenName,
			LastName:  info.FamilyName,
			FullName:  info.Name,
			Email:     info.Email,
		}
		created, err := s.users.Insert(ctx, user)
		if err != nil {
			// A concurrent registration may have won the insert.
			if errors.Is(err, repositories.ErrConflict) {
				return nil
			}
			return fmt.Errorf("persist user: %w", err)
		}
		logger.Info("user registered", "userId", created.ID)
		return nil
	default:
		return fmt.Errorf("look up user by sub: %w", err)
	}
}

func (s *RegistrationService) fetchUserInfo(ctx context.Context, token string) (userInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return userInfo{}, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return userInfo{}, fmt.Errorf("call userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return userInfo{}, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return userInfo{}, fmt.Errorf("decode userinfo response: %w", err)
	}
	return info, nil
}
