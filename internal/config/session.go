package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Session holds the web app's session cookie so the CLI shares the browser
// login and the server-side history.
type Session struct {
	Cookie     string    `json:"cookie"`
	Browser    string    `json:"browser,omitempty"` // where it was imported from
	ImportedAt time.Time `json:"imported_at"`
}

// GetSessionPath returns the path to the session file
func GetSessionPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "session.json"), nil
}

// LoadSession loads the stored session cookie. A missing file returns a nil
// session and no error; the service works unauthenticated too.
func LoadSession() (*Session, error) {
	path, err := GetSessionPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	if sess.Cookie == "" {
		return nil, nil
	}

	return &sess, nil
}

// SaveSession persists the session cookie with restrictive permissions.
func SaveSession(sess *Session) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	path := filepath.Join(configDir, "session.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}
