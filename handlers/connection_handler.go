package handlers

import (
	"fmt"
	"net/http"

	"github.com/maplecrest/rinkside/middleware"
	"github.com/maplecrest/rinkside/models"
	"github.com/maplecrest/rinkside/services"
)

type ConnectionHandler struct {
	*Base
	connectionService services.ConnectionService
	characterService  services.CharacterService
}

func NewConnectionHandler(base *Base, connectionService services.ConnectionService, characterService services.CharacterService) *ConnectionHandler {
	return &ConnectionHandler{
		Base:              base,
		connectionService: connectionService,
		characterService:  characterService,
	}
}

// connectionView backs the connection page: the connection with both
// endpoints and its songs, plus whether the viewer owns the source
// character and may add songs.
type connectionView struct {
	Connection *models.Connection
	IsOwner    bool
}

func (h *ConnectionHandler) Show(w http.ResponseWriter, r *http.Request) {
	connectionID, err := getIDFromURL(r, "connectionID")
	if err != nil {
		h.notFound(w, r)
		return
	}

	connection, err := h.connectionService.GetConnection(r.Context(), connectionID)
	if err != nil {
		h.handleServiceError(w, r, err, "/characters")
		return
	}

	h.render(w, r, http.StatusOK, "connection_view", "Connection", &connectionView{
		Connection: connection,
		IsOwner:    h.viewerOwnsSource(r, connection),
	})
}

func (h *ConnectionHandler) AddSong(w http.ResponseWriter, r *http.Request) {
	connectionID, err := getIDFromURL(r, "connectionID")
	if err != nil {
		h.notFound(w, r)
		return
	}

	connectionURL := fmt.Sprintf("/connections/%d", connectionID)

	connection, err := h.connectionService.GetConnection(r.Context(), connectionID)
	if err != nil {
		h.handleServiceError(w, r, err, "/characters")
		return
	}
	if !h.viewerOwnsSource(r, connection) {
		h.flashAndRedirect(w, r, "error", "You can only add songs to your own connections", connectionURL)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "invalid form submission", connectionURL)
		return
	}

	_, err = h.connectionService.AddSong(r.Context(), connectionID, services.AddSongInput{
		Title:      formPtr(r, "title"),
		SpotifyURL: r.PostForm.Get("spotify_url"),
	})
	if err != nil {
		h.handleServiceError(w, r, err, connectionURL)
		return
	}

	h.flashAndRedirect(w, r, "success", "Song added", connectionURL)
}

func (h *ConnectionHandler) viewerOwnsSource(r *http.Request, connection *models.Connection) bool {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return false
	}

	character, err := h.characterService.GetCharacter(r.Context(), connection.CharacterID)
	if err != nil {
		return false
	}
	return character.CreatedBy == userID
}
