package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/wastewise/wastewise-console/internal/auth"
	"github.com/wastewise/wastewise-console/internal/dwellers"
	"github.com/wastewise/wastewise-console/internal/shared"
	"github.com/wastewise/wastewise-console/internal/upstream"
	"github.com/wastewise/wastewise-console/internal/view"
	_ "github.com/wastewise/wastewise-console/testing"
)

type stubRepo struct {
	created []string
	deleted []string
}

func (s *stubRepo) CreateSession(ctx context.Context, id, principalID, role string, expiresAt time.Time, ip, ua string) error {
	s.created = append(s.created, id)
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loginBackend(t *testing.T, handler http.HandlerFunc) *upstream.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return upstream.NewClient(server.URL, time.Second)
}

func newAuthHandler(t *testing.T, client *upstream.Client, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	logger := discardLogger()
	handler := auth.NewHandler(logger, auth.NewService(client, repo), dwellers.NewService(client), templates, sessionManager, csrfManager)
	return handler, sessionManager
}

func sessionRequest(t *testing.T, manager *shared.SessionManager, method, target string, body *url.Values) (*http.Request, *shared.Session) {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	sess, err := manager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess)), sess
}

func TestLoginPage(t *testing.T) {
	client := loginBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	handler, manager := newAuthHandler(t, client, &stubRepo{})

	req, _ := sessionRequest(t, manager, http.MethodGet, "/auth/login", nil)
	res := httptest.NewRecorder()
	handler.ShowLoginForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "<form") {
		t.Fatalf("expected login form in body")
	}
}

func TestLoginSuccessStoresPrincipalAtomically(t *testing.T) {
	client := loginBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != "admin@wastewise.local" || creds["password"] != "secret123" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"jwt-abc","_id":"a-1","fullName":"Amaya Silva","email":"admin@wastewise.local","role":"admin"}`))
	})
	repo := &stubRepo{}
	handler, manager := newAuthHandler(t, client, repo)

	form := url.Values{}
	form.Set("email", "admin@wastewise.local")
	form.Set("password", "secret123")
	req, sess := sessionRequest(t, manager, http.MethodPost, "/auth/login", &form)

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)

	if res.Code != http.StatusSeeOther || res.Header().Get("Location") != shared.HomePath {
		t.Fatalf("expected redirect home, got %d %q", res.Code, res.Header().Get("Location"))
	}
	p := sess.Principal()
	if p == nil {
		t.Fatalf("principal not stored")
	}
	if p.Token != "jwt-abc" || p.ID != "a-1" || p.Role != shared.RoleAdmin {
		t.Fatalf("principal incomplete: %+v", p)
	}
	if len(repo.created) != 1 {
		t.Fatalf("session registry not written")
	}
}

func TestLoginInvalidCredentialsLeavesSessionAnonymous(t *testing.T) {
	client := loginBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	})
	handler, manager := newAuthHandler(t, client, &stubRepo{})

	form := url.Values{}
	form.Set("email", "admin@wastewise.local")
	form.Set("password", "wrong")
	req, sess := sessionRequest(t, manager, http.MethodPost, "/auth/login", &form)

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 re-render, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Invalid email or password") {
		t.Fatalf("expected credential error in body")
	}
	if sess.Principal() != nil {
		t.Fatalf("failed login must not store a principal")
	}
}

func TestLoginUpstreamDownShowsRetryMessage(t *testing.T) {
	client := upstream.NewClient("http://127.0.0.1:0", time.Second)
	handler, manager := newAuthHandler(t, client, &stubRepo{})

	form := url.Values{}
	form.Set("email", "admin@wastewise.local")
	form.Set("password", "secret123")
	req, sess := sessionRequest(t, manager, http.MethodPost, "/auth/login", &form)

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 re-render, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "unavailable right now") {
		t.Fatalf("expected retry message in body")
	}
	if sess.Principal() != nil {
		t.Fatalf("transport failure must not store a principal")
	}
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	client := loginBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"jwt-abc","_id":"x-1","role":"janitor"}`))
	})
	service := auth.NewService(client, &stubRepo{})
	if _, err := service.Login(context.Background(), "a@b.c", "pw"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestLoginMapsUnauthorizedToInvalidCredentials(t *testing.T) {
	client := loginBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	service := auth.NewService(client, &stubRepo{})
	_, err := service.Login(context.Background(), "a@b.c", "pw")
	if !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func registerRequest(t *testing.T, manager *shared.SessionManager, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			t.Fatalf("write field %s: %v", field, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/register", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	sess, err := manager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestRegisterPage(t *testing.T) {
	client := loginBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	handler, manager := newAuthHandler(t, client, &stubRepo{})

	req, _ := sessionRequest(t, manager, http.MethodGet, "/auth/register", nil)
	res := httptest.NewRecorder()
	handler.ShowRegisterForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), `enctype="multipart/form-data"`) {
		t.Fatalf("expected multipart registration form in body")
	}
}

func TestRegisterCreatesAccountAnonymously(t *testing.T) {
	var gotPath, gotAuthz, gotName string
	client := loginBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuthz = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotName = r.PostFormValue("fullName")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"user":{"_id":"d-9","fullName":"Nimal Perera","email":"nimal@wastewise.local"}}`))
	})
	handler, manager := newAuthHandler(t, client, &stubRepo{})

	req := registerRequest(t, manager, map[string]string{
		"fullName":    "Nimal Perera",
		"email":       "nimal@wastewise.local",
		"phoneNumber": "0771234567",
		"password":    "secret123",
	})
	res := httptest.NewRecorder()
	handler.HandleRegisterForTest(res, req)

	if res.Code != http.StatusSeeOther || res.Header().Get("Location") != shared.LoginPath {
		t.Fatalf("expected redirect to login, got %d %q", res.Code, res.Header().Get("Location"))
	}
	if gotPath != "/api/user/create" {
		t.Fatalf("expected upstream create path, got %q", gotPath)
	}
	if gotAuthz != "" {
		t.Fatalf("registration must be anonymous, saw Authorization %q", gotAuthz)
	}
	if gotName != "Nimal Perera" {
		t.Fatalf("multipart field not forwarded, got %q", gotName)
	}
}

func TestRegisterValidationFailureSkipsUpstream(t *testing.T) {
	calls := 0
	client := loginBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})
	handler, manager := newAuthHandler(t, client, &stubRepo{})

	req := registerRequest(t, manager, map[string]string{
		"fullName": "Nimal Perera",
		"password": "secret123",
	})
	res := httptest.NewRecorder()
	handler.HandleRegisterForTest(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 re-render, got %d", res.Code)
	}
	if calls != 0 {
		t.Fatalf("invalid registration must not reach the upstream, saw %d calls", calls)
	}
	if !strings.Contains(res.Body.String(), "Email") {
		t.Fatalf("expected the missing field named in body")
	}
}

func TestRegisterRelaysUpstreamConflict(t *testing.T) {
	client := loginBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"email already registered"}`))
	})
	handler, manager := newAuthHandler(t, client, &stubRepo{})

	req := registerRequest(t, manager, map[string]string{
		"fullName":    "Nimal Perera",
		"email":       "nimal@wastewise.local",
		"phoneNumber": "0771234567",
		"password":    "secret123",
	})
	res := httptest.NewRecorder()
	handler.HandleRegisterForTest(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 re-render, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "email already registered") {
		t.Fatalf("expected upstream message in body")
	}
}

func TestLogoutDestroysSessionWithoutUpstreamCall(t *testing.T) {
	calls := 0
	client := loginBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{}`))
	})
	repo := &stubRepo{}
	handler, manager := newAuthHandler(t, client, repo)

	req, sess := sessionRequest(t, manager, http.MethodPost, "/auth/logout", nil)
	sess.SetPrincipal(shared.Principal{ID: "a-1", Role: shared.RoleAdmin, Token: "tok"})

	res := httptest.NewRecorder()
	handler.HandleLogoutForTest(res, req)

	if res.Code != http.StatusSeeOther || res.Header().Get("Location") != shared.LoginPath {
		t.Fatalf("expected redirect to login, got %d %q", res.Code, res.Header().Get("Location"))
	}
	if calls != 0 {
		t.Fatalf("logout must not call the upstream, saw %d calls", calls)
	}
	if len(repo.deleted) != 1 {
		t.Fatalf("session registry record not removed")
	}
}
