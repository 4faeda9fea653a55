package view_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wastewise/wastewise-console/internal/shared"
	"github.com/wastewise/wastewise-console/internal/view"
	_ "github.com/wastewise/wastewise-console/testing"
)

func TestRenderLoginPage(t *testing.T) {
	engine, err := view.NewEngine()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	rr := httptest.NewRecorder()
	err = engine.Render(rr, "pages/login.html", view.TemplateData{
		Title:     "Sign in",
		CSRFToken: "token-123",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	body := rr.Body.String()
	if !strings.Contains(body, `name="csrf_token" value="token-123"`) {
		t.Fatalf("expected csrf token in form, got: %s", body)
	}
	if !strings.Contains(body, `action="/auth/login"`) {
		t.Fatalf("expected login form action, got: %s", body)
	}
}

func TestRenderHomeShowsRoleNavigation(t *testing.T) {
	engine, err := view.NewEngine()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	rr := httptest.NewRecorder()
	err = engine.Render(rr, "pages/home.html", view.TemplateData{
		Title: "Home",
		Principal: &shared.Principal{
			FullName: "Rajesh Perera",
			Role:     shared.RoleCollector,
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "/collector/timetables") {
		t.Fatalf("collector nav missing, got: %s", body)
	}
	if strings.Contains(body, "/admin/admins") {
		t.Fatalf("admin nav must not show for a collector")
	}
}
