package collectors_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-console/internal/collectors"
	"github.com/wastewise/wastewise-console/internal/upstream"
	_ "github.com/wastewise/wastewise-console/testing"
)

func newService(t *testing.T, handler http.HandlerFunc) *collectors.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return collectors.NewService(upstream.NewClient(server.URL, time.Second))
}

func TestListNormalizesBareArray(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/collector/getcollectors", r.URL.Path)
		_, _ = w.Write([]byte(`[{"_id":"c-1","fullName":"Rajesh Perera","isOnline":true},{"_id":"c-2","fullName":"Kumari Silva"}]`))
	})

	records, err := service.List(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c-1", records[0].ID)
	assert.True(t, records[0].IsOnline)
}

func TestRegisterSendsMultipart(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/collector/register", r.URL.Path)
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Rajesh Perera", r.FormValue("fullName"))
		require.Equal(t, "truck", r.FormValue("vehicleType"))
		file, header, err := r.FormFile("profilePicture")
		require.NoError(t, err)
		_ = file.Close()
		require.Equal(t, "rajesh.png", header.Filename)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"collector":{"_id":"c-3","fullName":"Rajesh Perera","vehicleType":"truck"}}`))
	})

	record, err := service.Register(context.Background(), "tok", collectors.RegisterCollectorForm{
		FullName:      "Rajesh Perera",
		Email:         "rajesh@wastewise.local",
		PhoneNumber:   "0770001111",
		Password:      "pw",
		VehicleType:   "truck",
		VehicleNumber: "WP-1234",
	}, &upstream.FilePart{Field: "profilePicture", Filename: "rajesh.png", Content: strings.NewReader("png")})
	require.NoError(t, err)
	assert.Equal(t, "c-3", record.ID)
}

func TestSetStatusIsIdempotent(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})

	first, err := service.SetStatus(context.Background(), "tok", "c-1", true)
	require.NoError(t, err)
	second, err := service.SetStatus(context.Background(), "tok", "c-1", true)
	require.NoError(t, err)

	assert.Equal(t, first.IsOnline, second.IsOnline)
	assert.True(t, second.IsOnline)
}

func TestFilterMatchesPartialName(t *testing.T) {
	records := []collectors.Collector{
		{ID: "c-1", FullName: "Rajesh Perera", VehicleNumber: "WP-1234"},
		{ID: "c-2", FullName: "Kumari Silva", VehicleNumber: "WP-5678"},
	}

	matched := collectors.Filter(records, "rajesh")
	require.Len(t, matched, 1)
	assert.Equal(t, "Rajesh Perera", matched[0].FullName)

	byVehicle := collectors.Filter(records, "wp-5678")
	require.Len(t, byVehicle, 1)
	assert.Equal(t, "c-2", byVehicle[0].ID)
}
