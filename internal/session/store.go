// Package session is the single source of truth for "who is signed in".
// Sessions are durable rows in the local SQLite database, addressed by a
// random ID carried in a signed cookie. Every mutation is also appended to
// an event log and broadcast to subscribers, so concurrently open views can
// re-derive their authentication state; the notification is at-least-once
// and watchers re-read the authoritative row on every event.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/model"
)

// ErrNoStore is returned by mutations when no session storage is available.
// Reads on a missing store simply answer "not authenticated".
var ErrNoStore = errors.New("no session storage available")

// Session is the locally cached identity of the signed-in user.
type Session struct {
	ID        string
	UserID    string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}

// Profile is the cached name/email triple.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
}

// Profile returns the cached profile, or nil if any field is missing. A
// missing field means an incomplete session, not an error.
func (s *Session) Profile() *Profile {
	if s == nil || s.FirstName == "" || s.LastName == "" || s.Email == "" {
		return nil
	}
	return &Profile{FirstName: s.FirstName, LastName: s.LastName, Email: s.Email}
}

// EventKind labels a session mutation.
type EventKind string

const (
	EventLogin  EventKind = "login"
	EventLogout EventKind = "logout"
)

// Event notifies watchers that session state changed. It is a trigger, not
// data: consumers re-read the session row.
type Event struct {
	Kind   EventKind
	UserID string
	At     time.Time
}

// Store manages sessions and their change notifications.
type Store struct {
	db *sql.DB

	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// New creates a session store over the given database.
func New(db *sql.DB) *Store {
	return &Store{db: db, subs: make(map[chan Event]struct{})}
}

// Create stores a new session for the user after a successful login or
// registration and returns its ID.
func (s *Store) Create(ctx context.Context, user model.User) (string, error) {
	if s == nil || s.db == nil {
		return "", ErrNoStore
	}

	sid := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, first_name, last_name, email) VALUES (?, ?, ?, ?, ?)`,
		sid, user.UserID, user.FirstName, user.LastName, user.Email,
	)
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}

	s.recordEvent(ctx, EventLogin, user.UserID)
	return sid, nil
}

// Get returns the session with the given ID, or nil if it no longer exists
// (logged out, possibly from another view). A nil store knows no sessions.
func (s *Store) Get(ctx context.Context, sid string) (*Session, error) {
	if s == nil || s.db == nil || sid == "" {
		return nil, nil
	}

	sess := &Session{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, first_name, last_name, email, created_at FROM sessions WHERE id = ?`, sid,
	).Scan(&sess.ID, &sess.UserID, &sess.FirstName, &sess.LastName, &sess.Email, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return sess, nil
}

// Delete removes a session (logout). The whole row goes in one statement,
// so no reader ever observes a partially cleared session.
func (s *Store) Delete(ctx context.Context, sid string) error {
	if s == nil || s.db == nil {
		return ErrNoStore
	}

	var userID string
	err := s.db.QueryRowContext(ctx, `SELECT user_id FROM sessions WHERE id = ?`, sid).Scan(&userID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up session: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sid); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	s.recordEvent(ctx, EventLogout, userID)
	return nil
}

// Watch subscribes to session events until ctx is cancelled. A nil store
// returns a nil channel, which never delivers.
func (s *Store) Watch(ctx context.Context) <-chan Event {
	if s == nil || s.db == nil {
		return nil
	}

	ch := make(chan Event, 8)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}()

	return ch
}

// recordEvent appends the sentinel row and notifies subscribers. Failures
// to persist the event are logged by the caller's request logging; the
// session mutation itself already succeeded, so the event is best-effort
// beyond the in-process broadcast.
func (s *Store) recordEvent(ctx context.Context, kind EventKind, userID string) {
	_, _ = s.db.ExecContext(ctx,
		`INSERT INTO session_events (kind, user_id) VALUES (?, ?)`, string(kind), userID,
	)
	// Opportunistically trim old trigger rows.
	_, _ = s.db.ExecContext(ctx,
		`DELETE FROM session_events WHERE occurred_at < ?`, time.Now().Add(-24*time.Hour),
	)

	ev := Event{Kind: kind, UserID: userID, At: time.Now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// Slow subscriber; it will re-read state on its next event.
		}
	}
}
