package requests_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-console/internal/requests"
	"github.com/wastewise/wastewise-console/internal/upstream"
	_ "github.com/wastewise/wastewise-console/testing"
)

func newService(t *testing.T, handler http.HandlerFunc) *requests.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	mr := miniredis.RunT(t)
	cache := requests.NewCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	return requests.NewService(upstream.NewClient(server.URL, time.Second), cache)
}

func TestListForwardsParamsAndDecodesMeta(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "/api/requests", r.URL.Path)
		require.Equal(t, "2", q.Get("page"))
		require.Equal(t, "10", q.Get("limit"))
		require.Equal(t, requests.StatusPending, q.Get("status"))
		_, _ = w.Write([]byte(`{"data":[{"_id":"r-1","status":"Pending"}],"meta":{"page":2,"limit":10,"total":23,"totalPages":3}}`))
	})

	result, err := service.List(context.Background(), "tok", requests.ListParams{Page: 2, Limit: 10, Status: requests.StatusPending})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, 3, result.Meta.TotalPages)
	assert.True(t, result.Meta.HasNext())
	assert.True(t, result.Meta.HasPrev())
}

func TestListFillsDerivedMetaWhenUpstreamOmitsIt(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"_id":"r-1"}],"meta":{"total":23}}`))
	})

	result, err := service.List(context.Background(), "tok", requests.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Meta.Page)
	assert.Equal(t, 10, result.Meta.PerPage)
	assert.Equal(t, 3, result.Meta.TotalPages)
}

func TestAnalyticsReadsThroughCache(t *testing.T) {
	calls := 0
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "/api/requests/analytics/summary", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"total":42,"byStatus":{"Pending":10},"byType":{"General":30}}}`))
	})

	first, err := service.Analytics(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 42, first.Total)

	second, err := service.Analytics(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 42, second.Total)
	assert.Equal(t, 10, second.ByStatus["Pending"])

	assert.Equal(t, 1, calls, "second read must come from cache")
}

func TestFetchAnalyticsBypassesCache(t *testing.T) {
	calls := 0
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"data":{"total":1}}`))
	})

	_, err := service.FetchAnalytics(context.Background(), "svc-token")
	require.NoError(t, err)
	_, err = service.FetchAnalytics(context.Background(), "svc-token")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestForCollector(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/requests/collector/c-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"requests":[{"_id":"r-1","collectorId":"c-1"}]}`))
	})

	records, err := service.ForCollector(context.Background(), "tok", "c-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "c-1", records[0].CollectorID)
}

func TestUpdateStatusRejectsUnknownState(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for an invalid status")
	})

	_, err := service.UpdateStatus(context.Background(), "tok", "r-1", "Done")
	require.Error(t, err)
}

func TestUpdateStatusAppliesUpstreamAnswer(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/requests/r-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"request":{"_id":"r-1","status":"Completed"}}`))
	})

	record, err := service.UpdateStatus(context.Background(), "tok", "r-1", requests.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, requests.StatusCompleted, record.Status)
}
