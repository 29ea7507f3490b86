package cache

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"pcbuilder/internal/logger"
	"pcbuilder/internal/models"
)

// Setting keys. These mirror what the product keeps client-side: UX
// conveniences only, never the source of truth.
const (
	keyDarkMode  = "dark_mode"
	keyUsername  = "user_username"
	keyName      = "user_name"
	keySessionID = "chat_session_id"
)

// Store is the client-local key-value cache backed by a sqlite file.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping cache: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	query := `CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create settings table: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored value for key, or "" when absent.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting: %w", err)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	query := `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to write setting: %w", err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	return nil
}

// GetOrCreateSessionID returns the chat correlation token, generating and
// persisting it on first use. The token is immutable once created; a
// persistence failure is logged and the fresh token still returned.
func (s *Store) GetOrCreateSessionID() string {
	existing, err := s.Get(keySessionID)
	if err != nil {
		logger.Warn("failed to read session id", "error", err)
	}
	if existing != "" {
		return existing
	}

	id := strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + uuid.NewString()[:8]
	if err := s.Set(keySessionID, id); err != nil {
		logger.Warn("failed to persist session id", "error", err)
	}
	return id
}

func (s *Store) DarkMode() bool {
	value, err := s.Get(keyDarkMode)
	if err != nil {
		logger.Warn("failed to read dark mode", "error", err)
	}
	return value == "true"
}

func (s *Store) SetDarkMode(enabled bool) {
	if err := s.Set(keyDarkMode, strconv.FormatBool(enabled)); err != nil {
		logger.Warn("failed to persist dark mode", "error", err)
	}
}

// CachedUser returns the denormalized user snapshot from the last visit,
// or nil. It exists for display continuity only; the auth check endpoint
// is the source of truth.
func (s *Store) CachedUser() *models.User {
	username, err := s.Get(keyUsername)
	if err != nil {
		logger.Warn("failed to read cached user", "error", err)
		return nil
	}
	name, err := s.Get(keyName)
	if err != nil {
		logger.Warn("failed to read cached user", "error", err)
		return nil
	}
	if username == "" || name == "" {
		return nil
	}
	return &models.User{Username: username, Name: name}
}

func (s *Store) SetCachedUser(user models.User) {
	if err := s.Set(keyUsername, user.Username); err != nil {
		logger.Warn("failed to cache user", "error", err)
	}
	if err := s.Set(keyName, user.Name); err != nil {
		logger.Warn("failed to cache user", "error", err)
	}
}

func (s *Store) ClearCachedUser() {
	if err := s.Delete(keyUsername); err != nil {
		logger.Warn("failed to clear cached user", "error", err)
	}
	if err := s.Delete(keyName); err != nil {
		logger.Warn("failed to clear cached user", "error", err)
	}
}
