package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/maplecrest/rinkside/models"
	"github.com/maplecrest/rinkside/services"
	"github.com/maplecrest/rinkside/sessions"
	"github.com/maplecrest/rinkside/views"
)

// memoryStore is an in-memory sessions.Store so handler tests run without
// redis.
type memoryStore struct {
	sessions map[string]*sessions.Session
	nextID   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]*sessions.Session)}
}

func (s *memoryStore) Create(_ context.Context, session *sessions.Session) (string, error) {
	s.nextID++
	id := fmt.Sprintf("sess-%d", s.nextID)
	copied := *session
	s.sessions[id] = &copied
	return id, nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*sessions.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, sessions.ErrNoSession
	}
	copied := *session
	return &copied, nil
}

func (s *memoryStore) Save(_ context.Context, id string, session *sessions.Session) error {
	copied := *session
	s.sessions[id] = &copied
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

// stubAuthService covers the auth calls handlers make. Methods not
// overridden here fall through to the embedded nil interface.
type stubAuthService struct {
	services.AuthService
	user          *models.User
	usernameTaken bool
	emailInUse    bool
	registered    *services.RegisterInput
}

func (s *stubAuthService) GetProfile(_ context.Context, _ int) (*models.User, error) {
	if s.user == nil {
		return nil, services.ErrUserNotFound
	}
	copied := *s.user
	return &copied, nil
}

func (s *stubAuthService) UsernameExists(_ context.Context, _ string) (bool, error) {
	return s.usernameTaken, nil
}

func (s *stubAuthService) EmailExists(_ context.Context, _ string) (bool, error) {
	return s.emailInUse, nil
}

func (s *stubAuthService) Register(_ context.Context, input services.RegisterInput) (*models.User, error) {
	s.registered = &input
	return &models.User{ID: 1, Username: input.Username, Email: input.Email}, nil
}

type stubCharacterService struct {
	services.CharacterService
	character  *models.Character
	galleryErr error
	addedURLs  []string
}

func (s *stubCharacterService) GetCharacter(_ context.Context, id int) (*models.Character, error) {
	if s.character == nil || s.character.ID != id {
		return nil, services.ErrCharacterNotFound
	}
	copied := *s.character
	return &copied, nil
}

func (s *stubCharacterService) AddGalleryImage(_ context.Context, _ int, imgURL, _ string) (models.Gallery, error) {
	if s.galleryErr != nil {
		return nil, s.galleryErr
	}
	s.addedURLs = append(s.addedURLs, imgURL)
	return models.Gallery{{URL: imgURL}}, nil
}

func newTestBase(t *testing.T, store sessions.Store, auth services.AuthService) *Base {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	renderer, err := views.New(logger)
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}
	return NewBase(renderer, sessions.NewManager(store), auth, logger)
}
