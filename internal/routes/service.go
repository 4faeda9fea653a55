package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/wastewise/wastewise-console/internal/upstream"
)

// Service proxies route operations to the upstream.
type Service struct {
	client *upstream.Client
}

// NewService builds Service instance.
func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

// List fetches all routes.
func (s *Service) List(ctx context.Context, token string) ([]Route, error) {
	raw, err := s.client.GetRaw(ctx, "/api/route/getAllRoutes", token)
	if err != nil {
		return nil, err
	}
	return upstream.List[Route](raw, "routes")
}

// Create adds a route and returns the record the upstream created.
func (s *Service) Create(ctx context.Context, token string, form RouteForm) (*Route, error) {
	var raw json.RawMessage
	if err := s.client.Do(ctx, http.MethodPost, "/api/route/createRoutes", token, form, &raw); err != nil {
		return nil, err
	}
	return upstream.Record[Route](raw, "route")
}

// Update replaces a route, confirm-then-apply.
func (s *Service) Update(ctx context.Context, token, id string, form RouteForm) (*Route, error) {
	var raw json.RawMessage
	err := s.client.Do(ctx, http.MethodPut, "/api/route/updateRouteById/"+url.PathEscape(id), token, form, &raw)
	if err != nil {
		return nil, err
	}
	if record, err := upstream.Record[Route](raw, "route"); err == nil && record.ID != "" {
		return record, nil
	}
	applied := &Route{
		ID:            id,
		RouteName:     form.RouteName,
		StartLocation: form.StartLocation,
		EndLocation:   form.EndLocation,
		Date:          form.Date,
		Time:          form.Time,
		IsActive:      form.IsActive,
	}
	return applied, nil
}

// Delete removes a route by identifier.
func (s *Service) Delete(ctx context.Context, token, id string) error {
	return s.client.Do(ctx, http.MethodDelete, "/api/route/deleteRouteById/"+url.PathEscape(id), token, nil, nil)
}

// Filter narrows a loaded collection by case-insensitive substring match
// over the display fields.
func Filter(records []Route, term string) []Route {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	filtered := make([]Route, 0, len(records))
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.RouteName), term) ||
			strings.Contains(strings.ToLower(record.StartLocation), term) ||
			strings.Contains(strings.ToLower(record.EndLocation), term) ||
			strings.Contains(strings.ToLower(record.RouteID), term) ||
			strings.Contains(strings.ToLower(record.ID), term) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
