package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/maplecrest/rinkside/models"
	"github.com/maplecrest/rinkside/services"
)

const maxUploadBytes = 10 << 20 // 10MB

type TeamHandler struct {
	*Base
	teamService services.TeamService
}

func NewTeamHandler(base *Base, teamService services.TeamService) *TeamHandler {
	return &TeamHandler{
		Base:        base,
		teamService: teamService,
	}
}

func (h *TeamHandler) Index(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.AllTeamsWithCounts(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "teams_index", "Teams", teams)
}

func (h *TeamHandler) ShowCreate(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "team_create", "New team", nil)
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "invalid form submission", "/teams/create")
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), services.CreateTeamInput{
		Name:           r.PostForm.Get("name"),
		Description:    formPtr(r, "description"),
		City:           formPtr(r, "city"),
		Mascot:         formPtr(r, "mascot"),
		LogoURL:        formPtr(r, "logo_url"),
		PrimaryColor:   formPtr(r, "primary_color"),
		SecondaryColor: formPtr(r, "secondary_color"),
		AccentColor:    formPtr(r, "accent_color"),
		IsActive:       true,
	})
	if err != nil {
		h.handleServiceError(w, r, err, "/teams/create")
		return
	}

	h.flashAndRedirect(w, r, "success", "Team created", fmt.Sprintf("/teams/%d", team.ID))
}

func (h *TeamHandler) Show(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		h.notFound(w, r)
		return
	}

	details, err := h.teamService.TeamDetails(r.Context(), teamID)
	if err != nil {
		h.handleServiceError(w, r, err, "/teams")
		return
	}

	h.render(w, r, http.StatusOK, "team_show", details.Team.Name, details)
}

func (h *TeamHandler) ShowEdit(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		h.notFound(w, r)
		return
	}

	team, err := h.teamService.GetTeamByID(r.Context(), teamID)
	if err != nil {
		h.handleServiceError(w, r, err, "/teams")
		return
	}

	h.render(w, r, http.StatusOK, "team_edit", "Edit "+team.Name, team)
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		h.notFound(w, r)
		return
	}

	editURL := fmt.Sprintf("/teams/%d/edit", teamID)
	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "invalid form submission", editURL)
		return
	}

	_, err = h.teamService.UpdateTeam(r.Context(), teamID, services.UpdateTeamInput{
		Name:           formPtr(r, "name"),
		Description:    formPtr(r, "description"),
		City:           formPtr(r, "city"),
		Mascot:         formPtr(r, "mascot"),
		LogoURL:        formPtr(r, "logo_url"),
		PrimaryColor:   formPtr(r, "primary_color"),
		SecondaryColor: formPtr(r, "secondary_color"),
		AccentColor:    formPtr(r, "accent_color"),
		IsActive:       formCheckbox(r, "is_active"),
	})
	if err != nil {
		h.handleServiceError(w, r, err, editURL)
		return
	}

	h.flashAndRedirect(w, r, "success", "Team updated", fmt.Sprintf("/teams/%d", teamID))
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		h.notFound(w, r)
		return
	}

	if err := h.teamService.DeleteTeam(r.Context(), teamID); err != nil {
		h.handleServiceError(w, r, err, fmt.Sprintf("/teams/%d/edit", teamID))
		return
	}

	h.flashAndRedirect(w, r, "success", "Team deleted", "/teams")
}

func (h *TeamHandler) Roster(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		h.notFound(w, r)
		return
	}

	roster, err := h.teamService.TeamRoster(r.Context(), teamID)
	if err != nil {
		h.handleServiceError(w, r, err, "/teams")
		return
	}

	h.render(w, r, http.StatusOK, "team_roster", roster.Team.Name+" roster", roster)
}

// Members is the one JSON endpoint; the roster widgets fetch it.
func (h *TeamHandler) Members(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		_ = writeJSON(w, http.StatusNotFound, map[string]string{"error": "team not found"})
		return
	}

	var role *models.CharacterRole
	if raw := r.URL.Query().Get("role"); raw != "" {
		candidate := models.CharacterRole(raw)
		if !candidate.Valid() {
			_ = writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid role filter"})
			return
		}
		role = &candidate
	}

	members, err := h.teamService.TeamMembers(r.Context(), teamID, role)
	if err != nil {
		h.memberError(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

func (h *TeamHandler) memberError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrTeamNotFound):
		_ = writeJSON(w, http.StatusNotFound, map[string]string{"error": "team not found"})
	default:
		h.logger.Error("failed to list team members", "error", err)
		_ = writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "the server encountered a problem"})
	}
}

func (h *TeamHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		h.notFound(w, r)
		return
	}

	editURL := fmt.Sprintf("/teams/%d/edit", teamID)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.flashAndRedirect(w, r, "error", "upload too large or malformed", editURL)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		h.flashAndRedirect(w, r, "error", "no logo file submitted", editURL)
		return
	}
	defer file.Close()

	_, err = h.teamService.UpdateLogo(r.Context(), teamID, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.handleServiceError(w, r, err, editURL)
		return
	}

	h.flashAndRedirect(w, r, "success", "Logo updated", fmt.Sprintf("/teams/%d", teamID))
}
