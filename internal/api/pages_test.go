package api

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestStaticPagesArePublic(t *testing.T) {
	f := newFakeStore()
	router := newTestServer(f)

	for _, path := range []string{"/", "/login", "/user/signup", "/org/signup"} {
		w := performRequest(router, http.MethodGet, path, nil, "")
		if w.Code != http.StatusOK {
			t.Errorf("GET %s returned %d, want 200", path, w.Code)
		}
	}
}

func TestDashboardPagesRequireAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	f := newFakeStore()
	router := newTestServer(f)

	for _, path := range []string{"/user/dashboard", "/org/dashboard", "/logs/view"} {
		w := performRequest(router, http.MethodGet, path, nil, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s returned %d, want 401", path, w.Code)
		}
	}
}

func TestUserDashboardRenders(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	f := newFakeStore()
	router := newTestServer(f)
	seedUser(t, f, "Ana", "ana@example.com", "secret1")
	token := loginAs(t, router, "ana@example.com", "secret1", "user")

	w := performRequest(router, http.MethodGet, "/user/dashboard", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard returned %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "user-dashboard.html") {
		t.Errorf("unexpected template rendered: %s", w.Body.String())
	}
}

func TestOrgDashboardRenders(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	f := newFakeStore()
	router := newTestServer(f)
	seedOrg(t, f, "Helping Hands", "org@example.com", "secret2")
	token := loginAs(t, router, "org@example.com", "secret2", "org")

	w := performRequest(router, http.MethodGet, "/org/dashboard", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard returned %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "org-dashboard.html") {
		t.Errorf("unexpected template rendered: %s", w.Body.String())
	}
}

func TestLogsViewIsOrgOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	f := newFakeStore()
	router := newTestServer(f)
	seedUser(t, f, "Ana", "ana@example.com", "secret1")
	seedOrg(t, f, "Helping Hands", "org@example.com", "secret2")
	userToken := loginAs(t, router, "ana@example.com", "secret1", "user")
	orgToken := loginAs(t, router, "org@example.com", "secret2", "org")

	w := performRequest(router, http.MethodGet, "/logs/view", nil, userToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("user on /logs/view returned %d, want 403", w.Code)
	}
	w = performRequest(router, http.MethodGet, "/logs/view", nil, orgToken)
	if w.Code != http.StatusOK {
		t.Fatalf("org on /logs/view returned %d: %s", w.Code, w.Body.String())
	}
}

func TestCompositePageFailsAsAWhole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	f := newFakeStore()
	router := newTestServer(f)
	seedUser(t, f, "Ana", "ana@example.com", "secret1")
	token := loginAs(t, router, "ana@example.com", "secret1", "user")

	f.caseErr = errors.New("store down")
	w := performRequest(router, http.MethodGet, "/user/dashboard", nil, token)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("dashboard with failing case store returned %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "error:500:") {
		t.Errorf("error page not rendered: %s", w.Body.String())
	}
}
