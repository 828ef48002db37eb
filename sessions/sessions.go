package sessions

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	CookieName = "session_id"
	TTL        = 7 * 24 * time.Hour
)

var ErrNoSession = errors.New("no session")

// Flash is a one-shot message rendered on the next page load.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

// Session is the server-side state bound to one cookie. UserID zero means
// an anonymous visitor who only carries flash messages.
type Session struct {
	UserID int
	Flash  []Flash
}

// Store persists sessions keyed by opaque id.
type Store interface {
	Create(ctx context.Context, session *Session) (string, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, id string, session *Session) error
	Delete(ctx context.Context, id string) error
}

type redisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client, prefix: "session:"}
}

func (s *redisStore) Create(ctx context.Context, session *Session) (string, error) {
	id := uuid.New().String()
	if err := s.Save(ctx, id, session); err != nil {
		return "", err
	}
	return id, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	res := s.client.Get(ctx, s.prefix+id)
	if err := res.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	b, err := res.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read session bytes: %w", err)
	}

	var session Session
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &session, nil
}

func (s *redisStore) Save(ctx context.Context, id string, session *Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session); err != nil {
		return fmt.Errorf("failed to encode session %s: %w", id, err)
	}
	if err := s.client.SetEX(ctx, s.prefix+id, buf.Bytes(), TTL).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", id, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// Manager ties the store to the session cookie and owns the flash flow.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Load resolves the request's session cookie. A missing or stale cookie
// yields ErrNoSession, not a failure.
func (m *Manager) Load(ctx context.Context, r *http.Request) (string, *Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", nil, ErrNoSession
	}
	session, err := m.store.Get(ctx, cookie.Value)
	if err != nil {
		return "", nil, err
	}
	return cookie.Value, session, nil
}

// Issue creates a fresh session for userID, carrying over any pending
// flashes from the previous (anonymous) session, and sets the cookie.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, r *http.Request, userID int) error {
	session := &Session{UserID: userID}

	if oldID, old, err := m.Load(ctx, r); err == nil {
		session.Flash = old.Flash
		_ = m.store.Delete(ctx, oldID)
	}

	id, err := m.store.Create(ctx, session)
	if err != nil {
		return err
	}
	setCookie(w, id)
	return nil
}

// Clear removes the session and expires the cookie.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if id, _, err := m.Load(ctx, r); err == nil {
		_ = m.store.Delete(ctx, id)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// AddFlash queues a one-shot message. Anonymous visitors get a session
// created on the spot so the message survives the redirect.
func (m *Manager) AddFlash(ctx context.Context, w http.ResponseWriter, r *http.Request, kind, message string) {
	id, session, err := m.Load(ctx, r)
	if err != nil {
		session = &Session{}
		id, err = m.store.Create(ctx, session)
		if err != nil {
			return
		}
		setCookie(w, id)
	}
	session.Flash = append(session.Flash, Flash{Kind: kind, Message: message})
	_ = m.store.Save(ctx, id, session)
}

// PopFlashes returns pending flashes and clears them.
func (m *Manager) PopFlashes(ctx context.Context, r *http.Request) []Flash {
	id, session, err := m.Load(ctx, r)
	if err != nil || len(session.Flash) == 0 {
		return nil
	}
	flashes := session.Flash
	session.Flash = nil
	_ = m.store.Save(ctx, id, session)
	return flashes
}

func setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(TTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
