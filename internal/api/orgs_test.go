package api

import (
	"net/http"
	"testing"

	"github.com/casebridge/casebridge/internal/models"
)

func TestOrgSignup(t *testing.T) {
	f := newFakeStore()
	router := newTestServer(f)

	number := 100
	signup := models.OrgCreateRequest{
		Name: "Helping Hands", Email: "org@example.com", Password: "secret1",
		Address: "Av. Central", Number: &number, City: "Recife", UF: "PE",
	}

	// Phone is optional for organizations
	w := performRequest(router, http.MethodPost, "/orgs", signup, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("org signup returned %d: %s", w.Code, w.Body.String())
	}

	w = performRequest(router, http.MethodPost, "/orgs", signup, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate org signup returned %d, want 409", w.Code)
	}
}

func TestOrgDirectoryIsPublic(t *testing.T) {
	f := newFakeStore()
	router := newTestServer(f)
	seedOrg(t, f, "Helping Hands", "org@example.com", "secret1")

	w := performRequest(router, http.MethodGet, "/orgs", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /orgs returned %d, want 200", w.Code)
	}
	var orgs []models.Organization
	decodeBody(t, w, &orgs)
	if len(orgs) != 1 || orgs[0].Name != "Helping Hands" {
		t.Errorf("org directory = %+v", orgs)
	}

	w = performRequest(router, http.MethodGet, "/orgs/1", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /orgs/1 returned %d, want 200", w.Code)
	}

	w = performRequest(router, http.MethodGet, "/orgs/999", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /orgs/999 returned %d, want 404", w.Code)
	}
}

func TestUpdateMyOrgIsAudited(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	f := newFakeStore()
	router := newTestServer(f)
	orgID := seedOrg(t, f, "Helping Hands", "org@example.com", "secret1")
	token := loginAs(t, router, "org@example.com", "secret1", "org")

	name := "Helping Hands International"
	w := performRequest(router, http.MethodPost, "/update/orgs/", models.OrgUpdateRequest{
		Name: &name,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("org update returned %d: %s", w.Code, w.Body.String())
	}
	var updated models.Organization
	decodeBody(t, w, &updated)
	if updated.Name != name {
		t.Errorf("name = %q, want %q", updated.Name, name)
	}
	if updated.Email != "org@example.com" {
		t.Errorf("untouched email changed: %q", updated.Email)
	}

	logs, err := f.GetLogsForPrincipal(nil, models.Principal{Type: models.PrincipalOrg, ID: orgID})
	if err != nil {
		t.Fatalf("get logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Title != "Organization updated" {
		t.Fatalf("audit trail = %+v, want one profile-change entry", logs)
	}

	// A no-op update returns the record but is not worth an audit entry
	w = performRequest(router, http.MethodPost, "/update/orgs/", map[string]interface{}{}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("empty org update returned %d", w.Code)
	}
	logs, _ = f.GetLogsForPrincipal(nil, models.Principal{Type: models.PrincipalOrg, ID: orgID})
	if len(logs) != 1 {
		t.Errorf("no-op update grew the audit trail: %+v", logs)
	}
}

func TestDeleteMyOrg(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	f := newFakeStore()
	router := newTestServer(f)
	seedOrg(t, f, "Helping Hands", "org@example.com", "secret1")
	token := loginAs(t, router, "org@example.com", "secret1", "org")

	w := performRequest(router, http.MethodDelete, "/orgs/", nil, token)
	if w.Code != http.StatusNoContent {
		t.Fatalf("org delete returned %d, want 204", w.Code)
	}

	w = performRequest(router, http.MethodGet, "/orgs/1", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted org still readable: %d", w.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	f := newFakeStore()
	router := newTestServer(f)

	w := performRequest(router, http.MethodGet, "/live", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("/live returned %d, want 200", w.Code)
	}

	// Readiness fails closed while the database handle is absent
	w = performRequest(router, http.MethodGet, "/ready", nil, "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("/ready without a database returned %d, want 503", w.Code)
	}
}
