package collectors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/wastewise/wastewise-console/internal/upstream"
)

// Service proxies collector-account operations to the upstream.
type Service struct {
	client *upstream.Client
}

// NewService builds Service instance.
func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

// List fetches all collector accounts.
func (s *Service) List(ctx context.Context, token string) ([]Collector, error) {
	raw, err := s.client.GetRaw(ctx, "/api/collector/getcollectors", token)
	if err != nil {
		return nil, err
	}
	return upstream.List[Collector](raw, "collectors")
}

// Get fetches a single collector by identifier.
func (s *Service) Get(ctx context.Context, token, id string) (*Collector, error) {
	raw, err := s.client.GetRaw(ctx, "/api/collector/getcollector/"+url.PathEscape(id), token)
	if err != nil {
		return nil, err
	}
	return upstream.Record[Collector](raw, "collector")
}

// Register creates a collector through the multipart endpoint.
func (s *Service) Register(ctx context.Context, token string, form RegisterCollectorForm, picture *upstream.FilePart) (*Collector, error) {
	multipartForm := upstream.MultipartForm{
		Fields: map[string]string{
			"fullName":      form.FullName,
			"email":         form.Email,
			"phoneNumber":   form.PhoneNumber,
			"password":      form.Password,
			"addressLine1":  form.AddressLine1,
			"houseNumber":   form.HouseNumber,
			"city":          form.City,
			"aTaxNumber":    form.TaxNumber,
			"postalCode":    form.PostalCode,
			"vehicleType":   form.VehicleType,
			"vehicleNumber": form.VehicleNumber,
		},
	}
	if picture != nil {
		multipartForm.Files = append(multipartForm.Files, *picture)
	}

	var raw json.RawMessage
	if err := s.client.DoMultipart(ctx, http.MethodPost, "/api/collector/register", token, multipartForm, &raw); err != nil {
		return nil, err
	}
	return upstream.Record[Collector](raw, "collector")
}

// Delete removes a collector by identifier.
func (s *Service) Delete(ctx context.Context, token, id string) error {
	return s.client.Do(ctx, http.MethodDelete, "/api/collector/"+url.PathEscape(id), token, nil, nil)
}

// SetStatus flips the duty flag, confirm-then-apply. Issuing the same
// toggle twice just reapplies the upstream's answer: the flag always lands
// in one of the two valid states.
func (s *Service) SetStatus(ctx context.Context, token, id string, isOnline bool) (*Collector, error) {
	var raw json.RawMessage
	err := s.client.Do(ctx, http.MethodPatch, "/api/collector/"+url.PathEscape(id)+"/status", token, StatusForm{IsOnline: isOnline}, &raw)
	if err != nil {
		return nil, err
	}
	if record, err := upstream.Record[Collector](raw, "collector"); err == nil && record.ID != "" {
		return record, nil
	}
	return &Collector{ID: id, IsOnline: isOnline}, nil
}

// Filter narrows a loaded collection by case-insensitive substring match
// over the display fields.
func Filter(records []Collector, term string) []Collector {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	filtered := make([]Collector, 0, len(records))
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.FullName), term) ||
			strings.Contains(strings.ToLower(record.Email), term) ||
			strings.Contains(strings.ToLower(record.PhoneNumber), term) ||
			strings.Contains(strings.ToLower(record.VehicleNumber), term) ||
			strings.Contains(strings.ToLower(record.ID), term) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
