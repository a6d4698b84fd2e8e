package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmelo/healthguru/internal/models"
)

func TestNewStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if store == nil {
		t.Fatal("NewStore returned nil")
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "history")); os.IsNotExist(err) {
		t.Error("history directory was not created")
	}
}

func TestStore_Create(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	conv, err := store.Create("a1B2c3")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if conv.ID != "a1B2c3" {
		t.Errorf("ID = %s", conv.ID)
	}
	if conv.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", conv.Title, DefaultTitle)
	}
	if conv.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
	if len(conv.Messages) != 0 {
		t.Errorf("expected 0 messages, got %d", len(conv.Messages))
	}
}

func TestStore_AddMessage(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	store.Create("abc")

	if err := store.AddMessage("abc", models.RoleUser, "Can I drink coffee at night?"); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}
	if err := store.AddMessage("abc", models.RoleModel, "Better not. *Consult a doctor.*"); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}

	conv, err := store.Get("abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv.Messages))
	}
	if conv.Messages[0].Role != models.RoleUser {
		t.Errorf("first role = %s", conv.Messages[0].Role)
	}
	if conv.Messages[1].Role != models.RoleModel {
		t.Errorf("second role = %s", conv.Messages[1].Role)
	}

	// First user message seeds the title.
	if conv.Title != "Can I drink coffee at night?" {
		t.Errorf("Title = %q", conv.Title)
	}
}

func TestStore_AddMessageCreatesConversation(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	if err := store.AddMessage("fresh", models.RoleUser, "hello"); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}

	conv, err := store.Get("fresh")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(conv.Messages) != 1 {
		t.Errorf("expected 1 message, got %d", len(conv.Messages))
	}
}

func TestStore_AddMessageTruncatesLongTitle(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	long := strings.Repeat("a", 80)
	store.AddMessage("abc", models.RoleUser, long)

	conv, _ := store.Get("abc")
	if len(conv.Title) != 53 {
		t.Errorf("title length = %d, want 53", len(conv.Title))
	}
	if !strings.HasSuffix(conv.Title, "...") {
		t.Errorf("title = %q, want ... suffix", conv.Title)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	if _, err := store.Get("nope"); err == nil {
		t.Error("expected error for missing conversation")
	}
}

func TestStore_RecentOrderAndLimit(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	for i := 0; i < 12; i++ {
		id := string(rune('a' + i))
		store.Create(id)
		// Distinct UpdatedAt so ordering is deterministic.
		store.AddMessage(id, models.RoleUser, "msg "+id)
		time.Sleep(2 * time.Millisecond)
	}

	recent, err := store.Recent(SidebarLimit)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != SidebarLimit {
		t.Fatalf("len = %d, want %d", len(recent), SidebarLimit)
	}

	// Newest first.
	if recent[0].ID != "l" {
		t.Errorf("first = %s, want l", recent[0].ID)
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].UpdatedAt.After(recent[i-1].UpdatedAt) {
			t.Errorf("order broken at %d", i)
		}
	}
}

func TestStore_Rename(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	store.Create("abc")

	if err := store.Rename("abc", "Sleep Hygiene Tips"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	conv, _ := store.Get("abc")
	if conv.Title != "Sleep Hygiene Tips" {
		t.Errorf("Title = %q", conv.Title)
	}
}

func TestStore_Adopt(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	draft := NewDraftID()
	if !IsDraftID(draft) {
		t.Fatalf("IsDraftID(%q) = false", draft)
	}

	store.AddMessage(draft, models.RoleUser, "hello")

	if err := store.Adopt(draft, "srv42"); err != nil {
		t.Fatalf("Adopt failed: %v", err)
	}

	if _, err := store.Get(draft); err == nil {
		t.Error("draft conversation still present after Adopt")
	}

	conv, err := store.Get("srv42")
	if err != nil {
		t.Fatalf("Get(adopted) failed: %v", err)
	}
	if conv.ID != "srv42" {
		t.Errorf("ID = %s", conv.ID)
	}
	if len(conv.Messages) != 1 {
		t.Errorf("messages lost during Adopt: %d", len(conv.Messages))
	}
}

func TestStore_AdoptSameIDNoop(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	store.Create("abc")

	if err := store.Adopt("abc", "abc"); err != nil {
		t.Errorf("Adopt same id should be a no-op, got %v", err)
	}
	if _, err := store.Get("abc"); err != nil {
		t.Errorf("conversation gone after no-op Adopt: %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	store.Create("abc")

	if err := store.Delete("abc"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get("abc"); err == nil {
		t.Error("conversation still present after Delete")
	}

	if err := store.Delete("abc"); err == nil {
		t.Error("expected error deleting twice")
	}
}

func TestStore_ClearAll(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	store.Create("a")
	store.Create("b")

	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	list, _ := store.List()
	if len(list) != 0 {
		t.Errorf("expected empty store, got %d", len(list))
	}
}

func TestStore_ListSkipsCorrupted(t *testing.T) {
	tmpDir := t.TempDir()
	store, _ := NewStore(tmpDir)
	store.Create("good")

	bad := filepath.Join(tmpDir, "history", "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != "good" {
		t.Errorf("list = %v", list)
	}
}
