package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/dmelo/healthguru/internal/history"
	"github.com/dmelo/healthguru/internal/logger"
	"github.com/dmelo/healthguru/internal/models"
)

const (
	// sidebarWidth is the fixed width of the history panel.
	sidebarWidth = 32
	// sidebarBreakpoint is the minimum window width that fits the panel
	// next to the chat column.
	sidebarBreakpoint = 80
)

// sidebarEntry is one conversation listed in the history panel.
type sidebarEntry struct {
	id    string
	title string
}

// sidebarState holds the history panel. While open it captures navigation
// keys; the cursor counts "New chat" as item zero, entries follow.
type sidebarState struct {
	open    bool
	cursor  int
	entries []sidebarEntry
}

// itemCount is the number of selectable items: "New chat" plus the entries.
func (s *sidebarState) itemCount() int {
	return len(s.entries) + 1
}

// apply replaces (or inserts) the entry for a conversation, newest first,
// keeping at most the sidebar limit. This is how a server-retitled
// conversation surfaces.
func (s *sidebarState) apply(entry models.HistoryEntry) {
	s.remove(entry.ID)
	s.entries = append([]sidebarEntry{{id: entry.ID, title: entry.Title}}, s.entries...)
	if len(s.entries) > history.SidebarLimit {
		s.entries = s.entries[:history.SidebarLimit]
	}
}

// remove drops the entry with the given id, if present.
func (s *sidebarState) remove(id string) {
	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// adopt rewrites an entry id after the server assigned the real chat id.
func (s *sidebarState) adopt(oldID, newID string) {
	for i, e := range s.entries {
		if e.id == oldID {
			s.entries[i].id = newID
			return
		}
	}
}

// openSidebar opens the panel and loads the recent conversations.
func (m *Model) openSidebar() {
	m.sidebar.open = true
	m.sidebar.cursor = 0
	m.reloadSidebar()
}

// reloadSidebar refreshes the entries from the store.
func (m *Model) reloadSidebar() {
	if m.store == nil {
		return
	}

	recent, err := m.store.Recent(history.SidebarLimit)
	if err != nil {
		logger.L().Warn("failed to load recent conversations", zap.Error(err))
		return
	}

	entries := make([]sidebarEntry, 0, len(recent))
	for _, conv := range recent {
		entries = append(entries, sidebarEntry{id: conv.ID, title: conv.Title})
	}
	m.sidebar.entries = entries

	if m.sidebar.cursor >= m.sidebar.itemCount() {
		m.sidebar.cursor = m.sidebar.itemCount() - 1
	}
}

// updateSidebar handles key input while the panel is open.
func (m Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc", "ctrl+b":
		m.sidebar.open = false
		m.resize()
		m.updateViewport()

	case "up", "k":
		m.sidebar.cursor--
		if m.sidebar.cursor < 0 {
			m.sidebar.cursor = m.sidebar.itemCount() - 1
		}

	case "down", "j":
		m.sidebar.cursor++
		if m.sidebar.cursor >= m.sidebar.itemCount() {
			m.sidebar.cursor = 0
		}

	case "enter":
		if m.sidebar.cursor == 0 {
			m.startNewChat()
		} else {
			m.loadConversation(m.sidebar.entries[m.sidebar.cursor-1].id)
		}
		m.sidebar.open = false
		m.resize()
		m.updateViewport()
		m.viewport.GotoBottom()

	case "d":
		if m.sidebar.cursor > 0 {
			id := m.sidebar.entries[m.sidebar.cursor-1].id
			return m, m.deleteChat(id)
		}
	}

	return m, nil
}

// loadConversation swaps the transcript to a stored conversation.
func (m *Model) loadConversation(id string) {
	if m.store == nil {
		return
	}

	conv, err := m.store.Get(id)
	if err != nil {
		m.err = err
		return
	}

	m.chatID = conv.ID
	m.messages = m.messages[:0]
	for _, msg := range conv.Messages {
		m.messages = append(m.messages, chatMessage{
			role:    msg.Role,
			content: msg.Content,
		})
	}
	m.err = nil
}

// deleteChat returns a command that deletes a conversation on the server and
// locally. Draft conversations only exist locally.
func (m Model) deleteChat(id string) tea.Cmd {
	return func() tea.Msg {
		if !history.IsDraftID(id) && m.client != nil {
			if _, err := m.client.DeleteChat(id); err != nil {
				return chatDeletedMsg{chatID: id, err: err}
			}
		}
		if m.store != nil {
			if err := m.store.Delete(id); err != nil {
				return chatDeletedMsg{chatID: id, err: err}
			}
		}
		return chatDeletedMsg{chatID: id}
	}
}

// renderSidebar renders the history panel.
func (m Model) renderSidebar() string {
	var content strings.Builder

	content.WriteString(sidebarTitleStyle.Render("Recent chats"))
	content.WriteString("\n")

	maxTitle := sidebarWidth - 8

	for i := 0; i < m.sidebar.itemCount(); i++ {
		cursor := "  "
		style := sidebarItemStyle
		if i == m.sidebar.cursor {
			cursor = sidebarCursorStyle.Render("▸ ")
			style = sidebarSelectedStyle
		}

		var line string
		if i == 0 {
			line = cursor + style.Render("+ New chat")
		} else {
			entry := m.sidebar.entries[i-1]
			title := entry.title
			if len(title) > maxTitle {
				title = title[:maxTitle-3] + "..."
			}
			if entry.id == m.chatID {
				line = cursor + sidebarActiveStyle.Render("● "+title)
			} else {
				line = cursor + style.Render(title)
			}
		}

		content.WriteString(line)
		content.WriteString("\n")
	}

	if len(m.sidebar.entries) == 0 {
		content.WriteString("\n")
		content.WriteString(hintStyle.Render("  No conversations yet"))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	shortcuts := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Move"),
		statusKeyStyle.Render("d") + statusDescStyle.Render(" Delete"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Close"),
	}
	content.WriteString(strings.Join(shortcuts, " "))

	height := m.height - 2
	if height < 10 {
		height = 10
	}

	return sidebarPanelStyle.
		Width(sidebarWidth).
		Height(height).
		Render(content.String())
}
