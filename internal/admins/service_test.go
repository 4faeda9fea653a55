package admins_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-console/internal/admins"
	"github.com/wastewise/wastewise-console/internal/upstream"
	_ "github.com/wastewise/wastewise-console/testing"
)

func newService(t *testing.T, handler http.HandlerFunc) *admins.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return admins.NewService(upstream.NewClient(server.URL, time.Second))
}

func TestListDecodesEnvelope(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/allAdmin", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"_id":"a-1","fullName":"Amaya Silva"},{"_id":"a-2","fullName":"Nimal Perera"}]}`))
	})

	records, err := service.List(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a-1", records[0].ID)
	assert.Equal(t, "Nimal Perera", records[1].FullName)
}

func TestCreateReturnsUpstreamRecord(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/admin/create", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"admin":{"_id":"a-9","fullName":"New Admin","isActive":true}}`))
	})

	record, err := service.Create(context.Background(), "tok", admins.CreateAdminForm{
		FullName:    "New Admin",
		Email:       "new@wastewise.local",
		PhoneNumber: "0771234567",
		Password:    "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "a-9", record.ID)
	assert.True(t, record.IsActive)
}

func TestCreateFailureLeavesNoRecord(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"email already registered"}`))
	})

	record, err := service.Create(context.Background(), "tok", admins.CreateAdminForm{FullName: "x"})
	require.Error(t, err)
	assert.Nil(t, record)

	var statusErr *upstream.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "email already registered", statusErr.Message)
}

func TestSetStatusFallsBackToConfirmedValue(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/admin/allAdmin/a-1/status", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"updated"}`))
	})

	record, err := service.SetStatus(context.Background(), "tok", "a-1", false)
	require.NoError(t, err)
	assert.Equal(t, "a-1", record.ID)
	assert.False(t, record.IsActive)
}

func TestDelete(t *testing.T) {
	var gotPath string
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"message":"deleted"}`))
	})

	require.NoError(t, service.Delete(context.Background(), "tok", "a-1"))
	assert.Equal(t, "/api/admin/allAdmin/a-1", gotPath)
}

func TestFilter(t *testing.T) {
	records := []admins.Admin{
		{ID: "a-1", FullName: "Amaya Silva", Email: "amaya@wastewise.local"},
		{ID: "a-2", FullName: "Nimal Perera", Email: "nimal@wastewise.local", PhoneNumber: "0771112222"},
	}

	assert.Len(t, admins.Filter(records, ""), 2)
	assert.Len(t, admins.Filter(records, "  "), 2)

	matched := admins.Filter(records, "NIMAL")
	require.Len(t, matched, 1)
	assert.Equal(t, "a-2", matched[0].ID)

	assert.Len(t, admins.Filter(records, "0771112222"), 1)
	assert.Empty(t, admins.Filter(records, "zzz"))
	assert.Len(t, records, 2)
}
