package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maplecrest/rinkside/middleware"
	"github.com/maplecrest/rinkside/models"
	"github.com/maplecrest/rinkside/services"
	"github.com/maplecrest/rinkside/sessions"
	"github.com/maplecrest/rinkside/views"
)

// Base bundles the pieces every page handler needs: the template
// renderer, the session manager for flashes, and the auth service for
// resolving the logged-in user shown in the nav.
type Base struct {
	views    *views.Renderer
	sessions *sessions.Manager
	auth     services.AuthService
	logger   *slog.Logger
}

func NewBase(renderer *views.Renderer, manager *sessions.Manager, auth services.AuthService, logger *slog.Logger) *Base {
	return &Base{
		views:    renderer,
		sessions: manager,
		auth:     auth,
		logger:   logger,
	}
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s URL parameter: %q", paramName, idStr)
	}
	return id, nil
}

// formPtr reports a form field as a pointer: nil when the field was not
// submitted at all, a pointer to the raw value (possibly empty) when it
// was. Partial updates depend on that distinction.
func formPtr(r *http.Request, name string) *string {
	values, ok := r.PostForm[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// parseFormInt reads an optional numeric field. Empty or unparseable
// input degrades to nil instead of failing the submit.
func parseFormInt(r *http.Request, name string) *int {
	raw := strings.TrimSpace(r.PostForm.Get(name))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// formCheckbox treats an absent checkbox as an explicit false, which is
// how browsers submit unchecked boxes.
func formCheckbox(r *http.Request, name string) *bool {
	v := r.PostForm.Get(name) == "true"
	return &v
}

// currentUser resolves the session user for the nav bar. A stale session
// pointing at a deleted user degrades to anonymous rather than erroring.
func (b *Base) currentUser(r *http.Request) *models.User {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return nil
	}
	user, err := b.auth.GetProfile(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, services.ErrUserNotFound) {
			b.logger.Error("failed to load session user", slog.Int("user_id", userID), slog.Any("error", err))
		}
		return nil
	}
	return user
}

func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data interface{}) {
	b.views.Render(w, status, page, &views.PageData{
		Title:   title,
		User:    b.currentUser(r),
		Flashes: b.sessions.PopFlashes(r.Context(), r),
		Data:    data,
	})
}

func (b *Base) flashAndRedirect(w http.ResponseWriter, r *http.Request, kind, message, target string) {
	b.sessions.AddFlash(r.Context(), w, r, kind, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (b *Base) notFound(w http.ResponseWriter, r *http.Request) {
	b.render(w, r, http.StatusNotFound, "not_found", "Not found", nil)
}

func (b *Base) serverError(w http.ResponseWriter, r *http.Request, err error) {
	b.logger.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	b.render(w, r, http.StatusInternalServerError, "server_error", "Server error", nil)
}

// handleServiceError is the page-flow counterpart of an API error mapper:
// not-found errors become the 404 page, validation and conflict errors
// become a flash followed by a redirect back to fallbackURL, and anything
// else is a 500.
func (b *Base) handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallbackURL string) {
	var inUse *services.TeamInUseError

	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrCharacterNotFound),
		errors.Is(err, services.ErrConnectionNotFound):
		b.notFound(w, r)

	case errors.As(err, &inUse):
		b.flashAndRedirect(w, r, "error", inUse.Error(), fallbackURL)

	case errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrTeamNameConflict),
		errors.Is(err, services.ErrCharacterNameRequired),
		errors.Is(err, services.ErrCharacterRoleInvalid),
		errors.Is(err, services.ErrRelationshipRequired),
		errors.Is(err, services.ErrSelfConnection),
		errors.Is(err, services.ErrImageURLRequired),
		errors.Is(err, services.ErrSpotifyURLRequired),
		errors.Is(err, services.ErrUsernameRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrPasswordRequired),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUploadsDisabled):
		b.flashAndRedirect(w, r, "error", err.Error(), fallbackURL)

	default:
		b.serverError(w, r, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}
