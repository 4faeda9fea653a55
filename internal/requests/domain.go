package requests

import (
	"net/url"
	"strconv"
	"time"

	"github.com/wastewise/wastewise-console/internal/shared"
)

// Statuses and types the service request workflow recognizes.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"

	TypeGeneral   = "General"
	TypeUrgent    = "Urgent"
	TypeEmergency = "Emergency"
)

// KnownStatus reports whether status is a valid workflow state.
func KnownStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// KnownType reports whether t is a valid request type.
func KnownType(t string) bool {
	switch t {
	case TypeGeneral, TypeUrgent, TypeEmergency:
		return true
	}
	return false
}

// Request is a dweller-raised service request.
type Request struct {
	ID          string    `json:"_id"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	DwellerID   string    `json:"dwellerId"`
	CollectorID string    `json:"collectorId"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListParams are the server-side pagination, sorting and filter inputs of
// the requests listing. The upstream owns totals; the console only clamps.
type ListParams struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
	Q         string `json:"q"`
	Status    string `json:"status"`
	Type      string `json:"type"`
	DateFrom  string `json:"dateFrom"`
	DateTo    string `json:"dateTo"`
}

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Sanitize clamps the params into their valid ranges and fills defaults.
func (p ListParams) Sanitize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	switch p.SortBy {
	case "createdAt", "updatedAt", "status", "type", "date":
	default:
		p.SortBy = "createdAt"
	}
	if p.SortOrder != "asc" {
		p.SortOrder = "desc"
	}
	if !KnownStatus(p.Status) {
		p.Status = ""
	}
	if !KnownType(p.Type) {
		p.Type = ""
	}
	return p
}

// FiltersEqual reports whether two parameter sets ask for the same slice
// of data, page aside.
func (p ListParams) FiltersEqual(other ListParams) bool {
	return p.Limit == other.Limit &&
		p.SortBy == other.SortBy &&
		p.SortOrder == other.SortOrder &&
		p.Q == other.Q &&
		p.Status == other.Status &&
		p.Type == other.Type &&
		p.DateFrom == other.DateFrom &&
		p.DateTo == other.DateTo
}

// ResetPage returns the params with page forced back to 1 whenever any
// filter differs from the previous load.
func (p ListParams) ResetPage(prev ListParams) ListParams {
	if !p.FiltersEqual(prev) {
		p.Page = 1
	}
	return p
}

// Values encodes the params as an upstream query string.
func (p ListParams) Values() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(p.Page))
	values.Set("limit", strconv.Itoa(p.Limit))
	values.Set("sortBy", p.SortBy)
	values.Set("sortOrder", p.SortOrder)
	if p.Q != "" {
		values.Set("q", p.Q)
	}
	if p.Status != "" {
		values.Set("status", p.Status)
	}
	if p.Type != "" {
		values.Set("type", p.Type)
	}
	if p.DateFrom != "" {
		values.Set("dateFrom", p.DateFrom)
	}
	if p.DateTo != "" {
		values.Set("dateTo", p.DateTo)
	}
	return values
}

// ListResult is one loaded page plus the upstream's pagination meta.
type ListResult struct {
	Data []Request         `json:"data"`
	Meta shared.Pagination `json:"meta"`
}

// Summary aggregates the analytics endpoint's counts.
type Summary struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	ByType   map[string]int `json:"byType"`
}

// StatusForm moves a request to a new workflow state.
type StatusForm struct {
	Status string `json:"status" validate:"required"`
}
