package handlers

import (
	"net/http"

	"github.com/maplecrest/rinkside/services"
)

type HomeHandler struct {
	*Base
	teamService services.TeamService
}

func NewHomeHandler(base *Base, teamService services.TeamService) *HomeHandler {
	return &HomeHandler{
		Base:        base,
		teamService: teamService,
	}
}

func (h *HomeHandler) Show(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ActiveTeams(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "home", "Home", teams)
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r)
}
