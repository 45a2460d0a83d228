package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// ErrNoSession indicates no identity is currently recorded.
var ErrNoSession = errors.New("no active session")

// Session is the signed-in identity the GUI keeps between windows and uses
// for audit attribution.
type Session struct {
	SessionID  string    `json:"session_id"`
	UserID     uint      `json:"user_id"`
	Username   string    `json:"username"`
	SignedInAt time.Time `json:"signed_in_at"`
}

// Store persists the session as a small JSON file next to the database.
// Controllers never read it; the acting user id is injected per call.
type Store struct {
	path string
}

// NewStore constructs a session store writing to the given path.
func NewStore(path string) Store {
	return Store{path: path}
}

// Save records the signed-in identity with a fresh session id.
func (s Store) Save(userID uint, username string) (Session, error) {
	sess := Session{
		SessionID:  uuid.NewString(),
		UserID:     userID,
		Username:   username,
		SignedInAt: time.Now(),
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return Session{}, fmt.Errorf("encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return Session{}, fmt.Errorf("write session file: %w", err)
	}

	return sess, nil
}

// Load returns the recorded identity, or ErrNoSession when nobody is signed
// in.
func (s Store) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session file: %w", err)
	}

	return sess, nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}

	return nil
}
