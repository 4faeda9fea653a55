package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wastewise/wastewise-console/internal/shared"
	"github.com/wastewise/wastewise-console/internal/upstream"
)

// Service is the console's session store: it exchanges credentials for an
// upstream bearer token and keeps the console-side session registry.
type Service struct {
	client *upstream.Client
	repo   Repository
}

// NewService constructs a new Service.
func NewService(client *upstream.Client, repo Repository) *Service {
	return &Service{client: client, repo: repo}
}

// Login exchanges credentials against the upstream login endpoint and
// returns the complete principal (identity plus token) in one value.
// Failures come back as errors, never panics: rejected credentials map to
// shared.ErrInvalidCredentials, other upstream rejections keep their
// message for display.
func (s *Service) Login(ctx context.Context, email, password string) (*shared.Principal, error) {
	body := map[string]string{"email": email, "password": password}
	var payload loginPayload
	err := s.client.Do(ctx, http.MethodPost, "/api/auth/login", "", body, &payload)
	if err != nil {
		if errors.Is(err, shared.ErrSessionInvalid) {
			return nil, shared.ErrInvalidCredentials
		}
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) && (statusErr.Status == http.StatusBadRequest || statusErr.Status == http.StatusForbidden) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if payload.Token == "" {
		return nil, fmt.Errorf("auth: login response missing token")
	}
	if !shared.KnownRole(payload.Role) {
		return nil, fmt.Errorf("auth: unsupported role %q", payload.Role)
	}
	return &shared.Principal{
		ID:       payload.identifier(),
		FullName: payload.FullName,
		Email:    payload.Email,
		Role:     payload.Role,
		Token:    payload.Token,
	}, nil
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, p shared.Principal, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, p.ID, p.Role, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres. Logout never calls
// the upstream; only the console's own state is touched.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
