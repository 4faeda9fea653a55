package admins

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/wastewise/wastewise-console/internal/upstream"
)

// Service proxies admin-account operations to the upstream and reconciles
// its shape-divergent responses. Mutations are confirm-then-apply: the
// record handed back is always the upstream's version.
type Service struct {
	client *upstream.Client
}

// NewService builds Service instance.
func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

// List fetches all admin accounts.
func (s *Service) List(ctx context.Context, token string) ([]Admin, error) {
	raw, err := s.client.GetRaw(ctx, "/api/admin/allAdmin", token)
	if err != nil {
		return nil, err
	}
	return upstream.List[Admin](raw, "admins", "allAdmin")
}

// Create registers a new admin and returns the record the upstream created.
func (s *Service) Create(ctx context.Context, token string, form CreateAdminForm) (*Admin, error) {
	var raw json.RawMessage
	if err := s.client.Do(ctx, http.MethodPost, "/api/admin/create", token, form, &raw); err != nil {
		return nil, err
	}
	return upstream.Record[Admin](raw, "admin")
}

// Delete removes an admin by identifier.
func (s *Service) Delete(ctx context.Context, token, id string) error {
	return s.client.Do(ctx, http.MethodDelete, "/api/admin/allAdmin/"+url.PathEscape(id), token, nil, nil)
}

// SetStatus flips the active flag and applies the upstream's answer. When
// the upstream confirms without echoing the record, the confirmed value is
// applied as sent; either way the flag ends in one of the two valid states.
func (s *Service) SetStatus(ctx context.Context, token, id string, isActive bool) (*Admin, error) {
	var raw json.RawMessage
	err := s.client.Do(ctx, http.MethodPatch, "/api/admin/allAdmin/"+url.PathEscape(id)+"/status", token, StatusForm{IsActive: isActive}, &raw)
	if err != nil {
		return nil, err
	}
	if record, err := upstream.Record[Admin](raw, "admin"); err == nil && record.ID != "" {
		return record, nil
	}
	return &Admin{ID: id, IsActive: isActive}, nil
}

// Filter narrows a loaded collection by case-insensitive substring match
// over the display fields. Pure: no network, input slice untouched.
func Filter(records []Admin, term string) []Admin {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	filtered := make([]Admin, 0, len(records))
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.FullName), term) ||
			strings.Contains(strings.ToLower(record.Email), term) ||
			strings.Contains(strings.ToLower(record.PhoneNumber), term) ||
			strings.Contains(strings.ToLower(record.ID), term) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
