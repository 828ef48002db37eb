package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/maplecrest/rinkside/middleware"
	"github.com/maplecrest/rinkside/models"
	"github.com/maplecrest/rinkside/services"
)

type CharacterHandler struct {
	*Base
	characterService services.CharacterService
	teamService      services.TeamService
}

func NewCharacterHandler(base *Base, characterService services.CharacterService, teamService services.TeamService) *CharacterHandler {
	return &CharacterHandler{
		Base:             base,
		characterService: characterService,
		teamService:      teamService,
	}
}

// characterFormData backs the edit form: the character, the team picker
// options, and the gallery flattened to a comma list for the textarea.
type characterFormData struct {
	Character   *models.Character
	Teams       []models.Team
	GalleryList string
}

func (h *CharacterHandler) Index(w http.ResponseWriter, r *http.Request) {
	characters, err := h.characterService.ListCharacters(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "characters_index", "Characters", characters)
}

func (h *CharacterHandler) ShowCreate(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ActiveTeams(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "character_create", "New character", teams)
}

func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "invalid form submission", "/characters/create")
		return
	}

	input := services.CreateCharacterInput{
		Name:      r.PostForm.Get("name"),
		Role:      r.PostForm.Get("role"),
		Nickname:  formPtr(r, "nickname"),
		AvatarURL: formPtr(r, "avatar_url"),
		Position:  formPtr(r, "position"),
		Bio:       formPtr(r, "bio"),
		CreatedBy: userID,
	}
	input.TeamID = parseFormInt(r, "team_id")
	input.JerseyNumber = parseFormInt(r, "jersey_number")

	_, err := h.characterService.CreateCharacter(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, r, err, "/characters/create")
		return
	}

	h.flashAndRedirect(w, r, "success", "Character created", "/characters")
}

func (h *CharacterHandler) Profile(w http.ResponseWriter, r *http.Request) {
	characterID, err := getIDFromURL(r, "characterID")
	if err != nil {
		h.notFound(w, r)
		return
	}

	viewerID, _ := middleware.UserIDFromContext(r.Context())

	profile, err := h.characterService.GetProfile(r.Context(), characterID, viewerID)
	if err != nil {
		h.handleServiceError(w, r, err, "/characters")
		return
	}

	h.render(w, r, http.StatusOK, "character_profile", profile.Character.Name, profile)
}

func (h *CharacterHandler) ShowEdit(w http.ResponseWriter, r *http.Request) {
	character, ok := h.ownedCharacter(w, r)
	if !ok {
		return
	}

	teams, err := h.teamService.ActiveTeams(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	gallery := models.ParseGallery(character.GalleryRaw)
	urls := make([]string, 0, len(gallery))
	for _, img := range gallery {
		urls = append(urls, img.URL)
	}

	h.render(w, r, http.StatusOK, "character_edit", "Edit "+character.Name, &characterFormData{
		Character:   character,
		Teams:       teams,
		GalleryList: strings.Join(urls, ", "),
	})
}

func (h *CharacterHandler) Update(w http.ResponseWriter, r *http.Request) {
	character, ok := h.ownedCharacter(w, r)
	if !ok {
		return
	}

	editURL := fmt.Sprintf("/characters/%d/edit", character.ID)
	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "invalid form submission", editURL)
		return
	}

	input := services.UpdateCharacterInput{
		Name:         formPtr(r, "name"),
		Nickname:     formPtr(r, "nickname"),
		Age:          formPtr(r, "age"),
		Birthday:     formPtr(r, "birthday"),
		Zodiac:       formPtr(r, "zodiac"),
		Hometown:     formPtr(r, "hometown"),
		Education:    formPtr(r, "education"),
		Occupation:   formPtr(r, "occupation"),
		Sexuality:    formPtr(r, "sexuality"),
		Pronouns:     formPtr(r, "pronouns"),
		Languages:    formPtr(r, "languages"),
		Religion:     formPtr(r, "religion"),
		Gender:       formPtr(r, "gender"),
		URL:          formPtr(r, "url"),
		Role:         formPtr(r, "role"),
		Position:     formPtr(r, "position"),
		JerseyNumber: formPtr(r, "jersey_number"),
		TeamID:       formPtr(r, "team_id"),
		Job:          formPtr(r, "job"),
		Bio:          formPtr(r, "bio"),
		Faceclaim:    formPtr(r, "faceclaim"),
		AvatarURL:    formPtr(r, "avatar_url"),
		BannerURL:    formPtr(r, "banner_url"),
		SidebarURL:   formPtr(r, "sidebar_url"),
		SpotifyEmbed: formPtr(r, "spotify_embed"),
		Quote:        formPtr(r, "quote"),
		Personality:  formPtr(r, "personality"),
		Strengths:    formPtr(r, "strengths"),
		Weaknesses:   formPtr(r, "weaknesses"),
		Likes:        formPtr(r, "likes"),
		Dislikes:     formPtr(r, "dislikes"),
		Fears:        formPtr(r, "fears"),
		Goals:        formPtr(r, "goals"),
		Appearance:   formPtr(r, "appearance"),
		Background:   formPtr(r, "background"),
		Skills:       formPtr(r, "skills"),
		FavFood:      formPtr(r, "fav_food"),
		FavMusic:     formPtr(r, "fav_music"),
		FavMovies:    formPtr(r, "fav_movies"),
		FavColor:     formPtr(r, "fav_color"),
		FavSports:    formPtr(r, "fav_sports"),
		Inspiration:  formPtr(r, "inspiration"),
		FullBio:      formPtr(r, "full_bio"),
		IsPrivate:    formCheckbox(r, "is_private"),
		IsArchived:   formCheckbox(r, "is_archived"),
		Gallery:      formPtr(r, "gallery"),
	}

	_, err := h.characterService.UpdateCharacter(r.Context(), character.ID, input)
	if err != nil {
		h.handleServiceError(w, r, err, editURL)
		return
	}

	h.flashAndRedirect(w, r, "success", "Character updated", fmt.Sprintf("/characters/%d", character.ID))
}

func (h *CharacterHandler) AddGalleryImage(w http.ResponseWriter, r *http.Request) {
	character, ok := h.ownedCharacter(w, r)
	if !ok {
		return
	}

	profileURL := fmt.Sprintf("/characters/%d", character.ID)
	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "invalid form submission", profileURL+"#instagram")
		return
	}

	_, err := h.characterService.AddGalleryImage(r.Context(), character.ID,
		r.PostForm.Get("image_url"),
		r.PostForm.Get("caption"),
	)
	if err != nil {
		// A missing URL answers 400 rather than the usual flash, matching
		// the gallery endpoint's contract.
		if errors.Is(err, services.ErrImageURLRequired) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.handleServiceError(w, r, err, profileURL+"#instagram")
		return
	}

	http.Redirect(w, r, profileURL+"#instagram", http.StatusSeeOther)
}

func (h *CharacterHandler) AddConnection(w http.ResponseWriter, r *http.Request) {
	character, ok := h.ownedCharacter(w, r)
	if !ok {
		return
	}

	profileURL := fmt.Sprintf("/characters/%d", character.ID)
	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "invalid form submission", profileURL+"#connections")
		return
	}

	connectedID := parseFormInt(r, "connected_character_id")
	if connectedID == nil {
		h.flashAndRedirect(w, r, "error", "select a character to connect to", profileURL+"#connections")
		return
	}

	_, err := h.characterService.AddConnection(r.Context(), character.ID, services.AddConnectionInput{
		ConnectedCharacterID: *connectedID,
		Relationship:         r.PostForm.Get("relationship"),
		Details:              formPtr(r, "details"),
	})
	if err != nil {
		h.handleServiceError(w, r, err, profileURL+"#connections")
		return
	}

	http.Redirect(w, r, profileURL+"#connections", http.StatusSeeOther)
}

func (h *CharacterHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	character, ok := h.ownedCharacter(w, r)
	if !ok {
		return
	}

	profileURL := fmt.Sprintf("/characters/%d", character.ID)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.flashAndRedirect(w, r, "error", "upload too large or malformed", profileURL)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		h.flashAndRedirect(w, r, "error", "no avatar file submitted", profileURL)
		return
	}
	defer file.Close()

	_, err = h.characterService.UpdateAvatar(r.Context(), character.ID, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.handleServiceError(w, r, err, profileURL)
		return
	}

	h.flashAndRedirect(w, r, "success", "Avatar updated", profileURL)
}

// ownedCharacter loads the character from the URL and verifies the
// session user created it. Writing endpoints all go through here.
func (h *CharacterHandler) ownedCharacter(w http.ResponseWriter, r *http.Request) (*models.Character, bool) {
	characterID, err := getIDFromURL(r, "characterID")
	if err != nil {
		h.notFound(w, r)
		return nil, false
	}

	character, err := h.characterService.GetCharacter(r.Context(), characterID)
	if err != nil {
		h.handleServiceError(w, r, err, "/characters")
		return nil, false
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	if character.CreatedBy != userID {
		h.flashAndRedirect(w, r, "error", "You can only edit your own characters",
			fmt.Sprintf("/characters/%d", character.ID))
		return nil, false
	}

	return character, true
}
