package timetables

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/wastewise/wastewise-console/internal/upstream"
)

// Service proxies timetable operations to the upstream.
type Service struct {
	client *upstream.Client
}

// NewService builds Service instance.
func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

// List fetches all timetables.
func (s *Service) List(ctx context.Context, token string) ([]Timetable, error) {
	raw, err := s.client.GetRaw(ctx, "/api/timetable/all", token)
	if err != nil {
		return nil, err
	}
	return upstream.List[Timetable](raw, "timetables", "timetable")
}

// ByCollector fetches the timetables assigned to one collector.
func (s *Service) ByCollector(ctx context.Context, token, collectorID string) ([]Timetable, error) {
	raw, err := s.client.GetRaw(ctx, "/api/timetable/getTimetablebyCollector/"+url.PathEscape(collectorID), token)
	if err != nil {
		return nil, err
	}
	return upstream.List[Timetable](raw, "timetables", "timetable")
}

// CrewMembers fetches the crew assigned to a timetable.
func (s *Service) CrewMembers(ctx context.Context, token, timetableID string) ([]CrewMember, error) {
	raw, err := s.client.GetRaw(ctx, "/api/timetable/getCrewMembers/"+url.PathEscape(timetableID), token)
	if err != nil {
		return nil, err
	}
	return upstream.List[CrewMember](raw, "crewMembers", "crew")
}

// Create adds a timetable and returns the record the upstream created.
func (s *Service) Create(ctx context.Context, token string, form TimetableForm) (*Timetable, error) {
	var raw json.RawMessage
	if err := s.client.Do(ctx, http.MethodPost, "/api/timetable/create", token, form, &raw); err != nil {
		return nil, err
	}
	return upstream.Record[Timetable](raw, "timetable")
}

// Update replaces a timetable, confirm-then-apply.
func (s *Service) Update(ctx context.Context, token, id string, form TimetableForm) (*Timetable, error) {
	var raw json.RawMessage
	err := s.client.Do(ctx, http.MethodPut, "/api/timetable/"+url.PathEscape(id), token, form, &raw)
	if err != nil {
		return nil, err
	}
	if record, err := upstream.Record[Timetable](raw, "timetable"); err == nil && record.ID != "" {
		return record, nil
	}
	return &Timetable{
		ID:             id,
		RouteName:      form.RouteName,
		Day:            form.Day,
		CollectionTime: form.CollectionTime,
		CollectorID:    form.CollectorID,
		Area:           form.Area,
		IsActive:       form.IsActive,
	}, nil
}

// Delete removes a timetable by identifier.
func (s *Service) Delete(ctx context.Context, token, id string) error {
	return s.client.Do(ctx, http.MethodDelete, "/api/timetable/"+url.PathEscape(id), token, nil, nil)
}

// Filter narrows a loaded collection by case-insensitive substring match
// over the display fields.
func Filter(records []Timetable, term string) []Timetable {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	filtered := make([]Timetable, 0, len(records))
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.RouteName), term) ||
			strings.Contains(strings.ToLower(record.Day), term) ||
			strings.Contains(strings.ToLower(record.Area), term) ||
			strings.Contains(strings.ToLower(record.ID), term) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
