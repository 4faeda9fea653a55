package admins_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-console/internal/admins"
	"github.com/wastewise/wastewise-console/internal/shared"
	"github.com/wastewise/wastewise-console/internal/upstream"
	_ "github.com/wastewise/wastewise-console/testing"
)

func newRouter(t *testing.T, backend http.HandlerFunc) chi.Router {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	service := admins.NewService(upstream.NewClient(server.URL, time.Second))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := admins.NewHandler(logger, service, nil)

	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func adminRequest(t *testing.T, method, target string, body io.Reader) *http.Request {
	t.Helper()
	mr := miniredis.RunT(t)
	manager := shared.NewSessionManager(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test_session", "secret", time.Hour, false)

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	sess, err := manager.Load(context.Background(), req)
	require.NoError(t, err)
	sess.SetPrincipal(shared.Principal{ID: "a-1", Role: shared.RoleAdmin, Token: "tok"})
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	upstreamCalls := 0
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
		_, _ = w.Write([]byte(`{}`))
	})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, adminRequest(t, http.MethodDelete, "/a-2", nil))

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, 0, upstreamCalls, "unconfirmed delete must not reach the upstream")
}

func TestDeleteWithConfirmation(t *testing.T) {
	var gotPath string
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"message":"deleted"}`))
	})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, adminRequest(t, http.MethodDelete, "/a-2?confirm=true", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "/api/admin/allAdmin/a-2", gotPath)
	assert.Contains(t, res.Body.String(), `"deleted":"a-2"`)
}

func TestCreateValidatesBeforeProxying(t *testing.T) {
	upstreamCalls := 0
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
		_, _ = w.Write([]byte(`{}`))
	})

	res := httptest.NewRecorder()
	body := strings.NewReader(`{"fullName":"","email":"not-an-email"}`)
	router.ServeHTTP(res, adminRequest(t, http.MethodPost, "/", body))

	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Equal(t, 0, upstreamCalls, "invalid form must not reach the upstream")
}

func TestExpiredTokenEndsSessionOnce(t *testing.T) {
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	req := adminRequest(t, http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, shared.LoginPath, res.Header().Get("Location"))

	sess := shared.SessionFromContext(req.Context())
	require.NotNil(t, sess)
	assert.Nil(t, sess.Principal(), "invalid token must clear the principal")
}
