package requests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/wastewise/wastewise-console/internal/shared"
	"github.com/wastewise/wastewise-console/internal/upstream"
)

// Service proxies service-request operations to the upstream.
type Service struct {
	client *upstream.Client
	cache  *Cache
}

// NewService builds Service instance. The cache may be nil.
func NewService(client *upstream.Client, cache *Cache) *Service {
	return &Service{client: client, cache: cache}
}

// List loads one page. Params are clamped first; the upstream's meta is
// authoritative and only derived fields it omitted are recomputed.
func (s *Service) List(ctx context.Context, token string, params ListParams) (*ListResult, error) {
	params = params.Sanitize()
	var result ListResult
	path := "/api/requests?" + params.Values().Encode()
	if err := s.client.Do(ctx, http.MethodGet, path, token, nil, &result); err != nil {
		return nil, err
	}
	result.Meta = reconcileMeta(result.Meta, params, len(result.Data))
	return &result, nil
}

// ForCollector fetches the requests assigned to one collector.
func (s *Service) ForCollector(ctx context.Context, token, collectorID string) ([]Request, error) {
	raw, err := s.client.GetRaw(ctx, "/api/requests/collector/"+url.PathEscape(collectorID), token)
	if err != nil {
		return nil, err
	}
	return upstream.List[Request](raw, "requests")
}

// Analytics returns the summary, preferring the warmed cache. A cache miss
// or a cache error falls through to the upstream and repopulates the
// cache best-effort.
func (s *Service) Analytics(ctx context.Context, token string) (*Summary, error) {
	if cached, err := s.cache.GetSummary(ctx); err == nil && cached != nil {
		return cached, nil
	}
	summary, err := s.FetchAnalytics(ctx, token)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetSummary(ctx, *summary)
	return summary, nil
}

// FetchAnalytics always hits the upstream. The warmup job uses it so a
// stale cache never feeds itself.
func (s *Service) FetchAnalytics(ctx context.Context, token string) (*Summary, error) {
	var envelope struct {
		Data Summary `json:"data"`
	}
	if err := s.client.Do(ctx, http.MethodGet, "/api/requests/analytics/summary", token, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// UpdateStatus moves a request to a new state, confirm-then-apply. The
// state must be one of the known workflow states.
func (s *Service) UpdateStatus(ctx context.Context, token, id, status string) (*Request, error) {
	if !KnownStatus(status) {
		return nil, fmt.Errorf("requests: unknown status %q", status)
	}
	var raw json.RawMessage
	err := s.client.Do(ctx, http.MethodPut, "/api/requests/"+url.PathEscape(id), token, StatusForm{Status: status}, &raw)
	if err != nil {
		return nil, err
	}
	if record, err := upstream.Record[Request](raw, "request"); err == nil && record.ID != "" {
		return record, nil
	}
	return &Request{ID: id, Status: status}, nil
}

// reconcileMeta trusts the upstream's totals and fills in whatever it left
// out so the paging controls always have page, limit and totalPages.
func reconcileMeta(meta shared.Pagination, params ListParams, loaded int) shared.Pagination {
	if meta.Page == 0 {
		meta.Page = params.Page
	}
	if meta.PerPage == 0 {
		meta.PerPage = params.Limit
	}
	if meta.Total == 0 && loaded > 0 && meta.TotalPages == 0 {
		meta.Total = loaded
	}
	if meta.TotalPages == 0 && meta.Total > 0 {
		meta.TotalPages = shared.NewPagination(meta.Page, meta.PerPage, meta.Total).TotalPages
	}
	return meta
}
