package dwellers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/wastewise/wastewise-console/internal/upstream"
)

// Service proxies resident-account operations to the upstream.
type Service struct {
	client *upstream.Client
}

// NewService builds Service instance.
func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

// List fetches all resident accounts.
func (s *Service) List(ctx context.Context, token string) ([]Dweller, error) {
	raw, err := s.client.GetRaw(ctx, "/api/user/all", token)
	if err != nil {
		return nil, err
	}
	return upstream.List[Dweller](raw, "users", "dwellers")
}

// Get fetches one resident account by identifier.
func (s *Service) Get(ctx context.Context, token, id string) (*Dweller, error) {
	raw, err := s.client.GetRaw(ctx, "/api/user/"+url.PathEscape(id), token)
	if err != nil {
		return nil, err
	}
	return upstream.Record[Dweller](raw, "user", "dweller")
}

// Create registers a resident through the multipart endpoint. The picture
// is optional; when present it is streamed as the profilePicture part and
// the multipart writer picks the boundary.
func (s *Service) Create(ctx context.Context, token string, form CreateDwellerForm, picture *upstream.FilePart) (*Dweller, error) {
	multipartForm := upstream.MultipartForm{
		Fields: map[string]string{
			"fullName":     form.FullName,
			"email":        form.Email,
			"phoneNumber":  form.PhoneNumber,
			"password":     form.Password,
			"addressLine1": form.AddressLine1,
			"houseNumber":  form.HouseNumber,
			"city":         form.City,
			"postalCode":   form.PostalCode,
		},
	}
	if picture != nil {
		multipartForm.Files = append(multipartForm.Files, *picture)
	}

	var raw json.RawMessage
	if err := s.client.DoMultipart(ctx, http.MethodPost, "/api/user/create", token, multipartForm, &raw); err != nil {
		return nil, err
	}
	return upstream.Record[Dweller](raw, "user", "dweller")
}

// Delete removes a resident by identifier.
func (s *Service) Delete(ctx context.Context, token, id string) error {
	return s.client.Do(ctx, http.MethodDelete, "/api/user/"+url.PathEscape(id), token, nil, nil)
}

// SetStatus flips the active flag, confirm-then-apply.
func (s *Service) SetStatus(ctx context.Context, token, id string, isActive bool) (*Dweller, error) {
	var raw json.RawMessage
	err := s.client.Do(ctx, http.MethodPatch, "/api/user/"+url.PathEscape(id)+"/status", token, StatusForm{IsActive: isActive}, &raw)
	if err != nil {
		return nil, err
	}
	if record, err := upstream.Record[Dweller](raw, "user", "dweller"); err == nil && record.ID != "" {
		return record, nil
	}
	return &Dweller{ID: id, IsActive: isActive}, nil
}

// Filter narrows a loaded collection by case-insensitive substring match
// over the display fields.
func Filter(records []Dweller, term string) []Dweller {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	filtered := make([]Dweller, 0, len(records))
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.FullName), term) ||
			strings.Contains(strings.ToLower(record.Email), term) ||
			strings.Contains(strings.ToLower(record.PhoneNumber), term) ||
			strings.Contains(strings.ToLower(record.City), term) ||
			strings.Contains(strings.ToLower(record.ID), term) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
