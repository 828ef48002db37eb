package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/maplecrest/rinkside/middleware"
	"github.com/maplecrest/rinkside/sessions"
)

func newRegisterRouter(t *testing.T, store sessions.Store, authSvc *stubAuthService) *chi.Mux {
	t.Helper()

	base := newTestBase(t, store, authSvc)
	handler := NewAuthHandler(base, authSvc)

	router := chi.NewRouter()
	router.Use(middleware.NewAuth(base.sessions).LoadSession)
	router.Post("/auth/register", handler.Register)
	return router
}

func postRegisterForm(t *testing.T, router http.Handler) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{
		"username": {"petra"},
		"email":    {"petra@example.com"},
		"password": {"secret-password"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func storedFlashes(store *memoryStore) []sessions.Flash {
	var flashes []sessions.Flash
	for _, session := range store.sessions {
		flashes = append(flashes, session.Flash...)
	}
	return flashes
}

func TestRegisterTakenUsernameFlashesBeforeInsert(t *testing.T) {
	store := newMemoryStore()
	authSvc := &stubAuthService{usernameTaken: true}
	router := newRegisterRouter(t, store, authSvc)

	rec := postRegisterForm(t, router)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/register" {
		t.Errorf("redirected to %q, want /auth/register", loc)
	}
	if authSvc.registered != nil {
		t.Error("register reached the service despite the taken username")
	}

	flashes := storedFlashes(store)
	if len(flashes) != 1 || !strings.Contains(flashes[0].Message, "username is already taken") {
		t.Errorf("expected a taken-username flash, got %v", flashes)
	}
}

func TestRegisterUsedEmailFlashesBeforeInsert(t *testing.T) {
	store := newMemoryStore()
	authSvc := &stubAuthService{emailInUse: true}
	router := newRegisterRouter(t, store, authSvc)

	rec := postRegisterForm(t, router)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/register" {
		t.Errorf("redirected to %q, want /auth/register", loc)
	}
	if authSvc.registered != nil {
		t.Error("register reached the service despite the used email")
	}

	flashes := storedFlashes(store)
	if len(flashes) != 1 || !strings.Contains(flashes[0].Message, "email address is already in use") {
		t.Errorf("expected a used-email flash, got %v", flashes)
	}
}

func TestRegisterCleanChecksProceeds(t *testing.T) {
	store := newMemoryStore()
	authSvc := &stubAuthService{}
	router := newRegisterRouter(t, store, authSvc)

	rec := postRegisterForm(t, router)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("redirected to %q, want /dashboard", loc)
	}
	if authSvc.registered == nil {
		t.Fatal("register never reached the service")
	}
	if authSvc.registered.Username != "petra" {
		t.Errorf("service received username %q", authSvc.registered.Username)
	}
}
