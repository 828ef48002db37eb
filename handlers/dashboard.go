package handlers

import (
	"net/http"

	"github.com/maplecrest/rinkside/middleware"
	"github.com/maplecrest/rinkside/services"
)

type DashboardHandler struct {
	*Base
	characterService services.CharacterService
}

func NewDashboardHandler(base *Base, characterService services.CharacterService) *DashboardHandler {
	return &DashboardHandler{
		Base:             base,
		characterService: characterService,
	}
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	characters, err := h.characterService.ListByCreator(r.Context(), userID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "dashboard", "Dashboard", characters)
}
