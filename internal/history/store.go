// Package history provides the local mirror of chat conversations.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmelo/healthguru/internal/models"
)

// SidebarLimit is how many recent conversations the sidebar lists.
const SidebarLimit = 10

// DefaultTitle is the placeholder title until the server generates one.
const DefaultTitle = "New Health Query"

// Message represents a single message in a conversation
type Message struct {
	Role      string    `json:"role"` // "user" or "model"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation represents one chat, keyed by the server's chat id once the
// server has assigned one.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// Store manages conversation persistence
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

// NewStore creates a new history store rooted at baseDir.
func NewStore(baseDir string) (*Store, error) {
	historyDir := filepath.Join(baseDir, "history")
	if err := os.MkdirAll(historyDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	return &Store{baseDir: historyDir}, nil
}

// DefaultStore creates a store under ~/.healthguru.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewStore(filepath.Join(home, ".healthguru"))
}

// NewDraftID returns an id for a conversation the server has not named yet.
// Adopt moves the record to the server id once one arrives.
func NewDraftID() string {
	return "draft-" + uuid.NewString()
}

// IsDraftID reports whether id was produced by NewDraftID.
func IsDraftID(id string) bool {
	return len(id) > 6 && id[:6] == "draft-"
}

// Create creates a new conversation under the given id.
func (s *Store) Create(id string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	conv := &Conversation{
		ID:        id,
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}

	if err := s.save(conv); err != nil {
		return nil, err
	}

	return conv, nil
}

// Get retrieves a conversation by id.
func (s *Store) Get(id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.load(id)
}

// List returns all conversations, most recently updated first.
func (s *Store) List() ([]*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var conversations []*Conversation
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		id := entry.Name()[:len(entry.Name())-5]
		conv, err := s.load(id)
		if err != nil {
			continue // Skip corrupted files
		}
		conversations = append(conversations, conv)
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})

	return conversations, nil
}

// Recent returns at most limit conversations, newest first.
func (s *Store) Recent(limit int) ([]*Conversation, error) {
	conversations, err := s.List()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(conversations) > limit {
		conversations = conversations[:limit]
	}
	return conversations, nil
}

// AddMessage appends a message, creating the conversation if needed. The
// first user message seeds the title until the server renames it.
func (s *Store) AddMessage(id, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.load(id)
	if err != nil {
		now := time.Now()
		conv = &Conversation{
			ID:        id,
			Title:     DefaultTitle,
			CreatedAt: now,
			Messages:  []Message{},
		}
	}

	conv.Messages = append(conv.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	conv.UpdatedAt = time.Now()

	if role == models.RoleUser && len(conv.Messages) == 1 {
		title := content
		if len(title) > 50 {
			title = title[:50] + "..."
		}
		conv.Title = title
	}

	return s.save(conv)
}

// Rename sets a conversation's title.
func (s *Store) Rename(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.load(id)
	if err != nil {
		return err
	}

	conv.Title = title
	conv.UpdatedAt = time.Now()

	return s.save(conv)
}

// Adopt moves a conversation from oldID to newID. Used when the server
// assigns (or re-assigns) the chat id for a draft conversation.
func (s *Store) Adopt(oldID, newID string) error {
	if oldID == newID || newID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.load(oldID)
	if err != nil {
		return err
	}

	conv.ID = newID
	conv.UpdatedAt = time.Now()

	if err := s.save(conv); err != nil {
		return err
	}

	if err := os.Remove(s.path(oldID)); err != nil {
		return fmt.Errorf("failed to remove old conversation: %w", err)
	}

	return nil
}

// Delete removes a conversation.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("conversation not found: %s", id)
		}
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	return nil
}

// ClearAll deletes all conversations
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to read history directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		if err := os.Remove(filepath.Join(s.baseDir, entry.Name())); err != nil {
			return fmt.Errorf("failed to delete %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// Internal methods

func (s *Store) path(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *Store) load(id string) (*Conversation, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("conversation not found: %s", id)
		}
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}

	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to parse conversation: %w", err)
	}

	return &conv, nil
}

func (s *Store) save(conv *Conversation) error {
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	if err := os.WriteFile(s.path(conv.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write conversation: %w", err)
	}

	return nil
}
