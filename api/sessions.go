package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hoshinonyaruko/snake-in-grid/snake"
	"github.com/hoshinonyaruko/snake-in-grid/sqlite"
)

var (
	ErrInvalidSessionID = errors.New("invalid session id")
	ErrSessionNotFound  = errors.New("session not found")
)

// Session is one game plus the lock that serialises every request on it.
type Session struct {
	ID string

	mu      sync.Mutex
	game    *snake.Game
	touched time.Time
	deleted bool // set by Store.Delete; Persist never writes it back
}

// Store keeps live sessions in memory and mirrors them into sqlite so a
// restarted server can pick them up again.
type Store struct {
	db       *sql.DB
	settings snake.Settings
	opts     []snake.Option

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore uses settings for new games and restores; db may be nil.
func NewStore(db *sql.DB, settings snake.Settings, opts ...snake.Option) *Store {
	return &Store{
		db:       db,
		settings: settings,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Settings returns the base settings new games start from.
func (s *Store) Settings() snake.Settings { return s.settings }

// Create starts a new game with settings and registers it.
func (s *Store) Create(settings snake.Settings) (*Session, error) {
	game, err := snake.New(settings, s.opts...)
	if err != nil {
		return nil, err
	}
	sess := &Session{ID: uuid.NewString(), game: game, touched: time.Now()}
	if err := s.Persist(sess); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get returns the live session, restoring it from sqlite on a miss.
func (s *Store) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	if s.db == nil {
		return nil, ErrSessionNotFound
	}

	snap, err := sqlite.LoadSession(s.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	game, err := snake.Restore(s.settings, snap, s.opts...)
	if err != nil {
		// 存档损坏，直接丢掉
		log.Printf("dropping session %s: %v", id, err)
		if err := sqlite.DeleteSession(s.db, id); err != nil {
			log.Printf("delete session %s: %v", id, err)
		}
		return nil, ErrSessionNotFound
	}
	sess := &Session{ID: id, game: game, touched: time.Now()}
	s.sessions[id] = sess
	log.Printf("session %s restored", id)
	return sess, nil
}

// Persist saves a running session and removes a terminated one. The caller
// holds sess.mu.
func (s *Store) Persist(sess *Session) error {
	sess.touched = time.Now()
	if s.db == nil || sess.deleted {
		return nil
	}
	if sess.game.Terminated() {
		return sqlite.DeleteSession(s.db, sess.ID)
	}
	return sqlite.SaveSession(s.db, sess.ID, sess.game.Snapshot())
}

// Delete forgets a session in memory and in sqlite. It waits for any
// request or websocket frame holding the session, and later ones see it
// as deleted.
func (s *Store) Delete(id string) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	sess.deleted = true
	sess.game.Quit()
	sess.mu.Unlock()

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	return sqlite.DeleteSession(s.db, id)
}

// Sweep drops terminated sessions and sessions idle for longer than maxAge,
// returning how many were evicted from memory. Stale sqlite rows go too.
func (s *Store) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		stale := sess.game.Terminated() || sess.touched.Before(cutoff)
		sess.mu.Unlock()
		if stale {
			delete(s.sessions, id)
			removed++
		}
	}
	s.mu.Unlock()

	if s.db != nil {
		if n, err := sqlite.PurgeStale(s.db, cutoff); err != nil {
			log.Printf("purge stale sessions: %v", err)
		} else if n > 0 {
			log.Printf("purged %d stale sessions", n)
		}
	}
	return removed
}
