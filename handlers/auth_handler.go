package handlers

import (
	"net/http"

	"github.com/maplecrest/rinkside/middleware"
	"github.com/maplecrest/rinkside/services"
)

type AuthHandler struct {
	*Base
	authService services.AuthService
}

func NewAuthHandler(base *Base, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		Base:        base,
		authService: authService,
	}
}

func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", "Log in", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "invalid form submission", "/auth/login")
		return
	}

	user, err := h.authService.Login(r.Context(), services.LoginInput{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		h.handleServiceError(w, r, err, "/auth/login")
		return
	}

	if err := h.sessions.Issue(r.Context(), w, r, user.ID); err != nil {
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", "Register", nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "invalid form submission", "/auth/register")
		return
	}

	input := services.RegisterInput{
		Username:    r.PostForm.Get("username"),
		Email:       r.PostForm.Get("email"),
		Password:    r.PostForm.Get("password"),
		DisplayName: r.PostForm.Get("display_name"),
	}

	// Check the unique fields up front so the common conflicts flash
	// back without attempting the insert.
	taken, err := h.authService.UsernameExists(r.Context(), input.Username)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if taken {
		h.handleServiceError(w, r, services.ErrUsernameTaken, "/auth/register")
		return
	}

	taken, err = h.authService.EmailExists(r.Context(), input.Email)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if taken {
		h.handleServiceError(w, r, services.ErrEmailTaken, "/auth/register")
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, r, err, "/auth/register")
		return
	}

	if err := h.sessions.Issue(r.Context(), w, r, user.ID); err != nil {
		h.serverError(w, r, err)
		return
	}

	h.flashAndRedirect(w, r, "success", "Welcome to Rinkside!", "/dashboard")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(r.Context(), w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) ShowProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	user, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, err, "/")
		return
	}

	h.render(w, r, http.StatusOK, "profile", "Your profile", user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "invalid form submission", "/profile")
		return
	}

	_, err := h.authService.UpdateProfile(r.Context(), userID, services.UpdateProfileInput{
		Email:       formPtr(r, "email"),
		DisplayName: formPtr(r, "display_name"),
	})
	if err != nil {
		h.handleServiceError(w, r, err, "/profile")
		return
	}

	h.flashAndRedirect(w, r, "success", "Profile updated", "/profile")
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "invalid form submission", "/profile")
		return
	}

	err := h.authService.ChangePassword(r.Context(), userID,
		r.PostForm.Get("current_password"),
		r.PostForm.Get("new_password"),
	)
	if err != nil {
		h.handleServiceError(w, r, err, "/profile")
		return
	}

	h.flashAndRedirect(w, r, "success", "Password changed", "/profile")
}
