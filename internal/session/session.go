package session

import (
	"ctchen222/Workout-Log/internal/api/models"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

// CookieName is the name of the browser cookie carrying the session.
const CookieName = "workoutlog_session"

const (
	keyUserID   = "user_id"
	keyUsername = "username"
)

// Options returns the cookie options shared by every backend.
func Options(maxAge time.Duration) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewCookieStore keeps the whole session inside a signed cookie.
func NewCookieStore(secret []byte, maxAge time.Duration) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = Options(maxAge)
	store.MaxAge(store.Options.MaxAge)
	return store
}

// Manager reads and writes the authenticated user of a browser session.
type Manager struct {
	store sessions.Store
}

// NewManager creates a Manager over any gorilla sessions.Store.
func NewManager(store sessions.Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) get(r *http.Request) *sessions.Session {
	s, err := m.store.Get(r, CookieName)
	if err != nil {
		// Tampered, expired or undecodable sessions start over.
		slog.DebugContext(r.Context(), "Discarding unreadable session", "error", err)
	}
	return s
}

// Login records user as the owner of the session.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, user *models.User) error {
	s := m.get(r)
	s.Values[keyUserID] = user.ID
	s.Values[keyUsername] = user.Username
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// UserID returns the id stored at login, if any.
func (m *Manager) UserID(r *http.Request) (int64, bool) {
	id, ok := m.get(r).Values[keyUserID].(int64)
	return id, ok
}

// Clear destroys the session. Clearing a request without a session only
// expires the cookie.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	s := m.get(r)
	s.Values = map[any]any{}
	s.Options.MaxAge = -1
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// AddFlash queues a one-shot message for the next page render.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, msg string) error {
	s := m.get(r)
	s.AddFlash(msg)
	return s.Save(r, w)
}

// Flashes pops the queued messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	s := m.get(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		slog.WarnContext(r.Context(), "Failed to save session after reading flashes", "error", err)
	}
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}
