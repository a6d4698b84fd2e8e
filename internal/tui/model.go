package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/dmelo/healthguru/internal/config"
	apierrors "github.com/dmelo/healthguru/internal/errors"
	"github.com/dmelo/healthguru/internal/history"
	"github.com/dmelo/healthguru/internal/logger"
	"github.com/dmelo/healthguru/internal/models"
	"github.com/dmelo/healthguru/internal/render"
)

// connectionFailureText is shown in place of a reply when the request never
// produced a usable answer (transport failure, undecodable body).
const connectionFailureText = "Could not reach the Healthguru service. Check your connection and try again."

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// replyMsg carries a successful reply for the submission identified by
	// token.
	replyMsg struct {
		token int
		reply *models.ChatReply
	}
	// replyErrMsg carries a failed submission.
	replyErrMsg struct {
		token int
		err   error
	}
	// chatDeletedMsg reports the outcome of deleting a conversation.
	chatDeletedMsg struct {
		chatID string
		err    error
	}
)

// ChatService is the slice of the API client the TUI needs.
type ChatService interface {
	SendMessage(message, chatID string) (*models.ChatReply, error)
	DeleteChat(chatID string) (*models.DeleteReply, error)
}

// HistoryStore is the slice of the history store the TUI needs.
type HistoryStore interface {
	Get(id string) (*history.Conversation, error)
	Recent(limit int) ([]*history.Conversation, error)
	AddMessage(id, role, content string) error
	Rename(id, title string) error
	Adopt(oldID, newID string) error
	Delete(id string) error
}

// chatMessage is one transcript entry. A pending entry is the placeholder
// shown while its submission is in flight; token ties it back to the reply.
type chatMessage struct {
	role    string // "user" or "model"
	content string
	failed  bool
	pending bool
	token   int
}

// Model represents the TUI state
type Model struct {
	client ChatService
	store  HistoryStore
	cfg    config.Config

	// chatID is the active conversation. Draft until the server assigns one.
	chatID string

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	messages       []chatMessage
	nextToken      int
	inflight       int
	ready          bool
	err            error
	animationFrame int

	sidebar sidebarState

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model.
func NewChatModel(client ChatService, store HistoryStore, cfg config.Config) Model {
	render.SetTheme(cfg.Theme)
	UpdateTheme()

	ta := textarea.New()
	ta.Placeholder = "Ask about your health and wellness..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		client:   client,
		store:    store,
		cfg:      cfg,
		chatID:   history.NewDraftID(),
		textarea: ta,
		spinner:  s,
		messages: []chatMessage{},
	}
}

// NewChatModelWithConversation creates a chat TUI model resuming an existing
// conversation.
func NewChatModelWithConversation(client ChatService, store HistoryStore, cfg config.Config, conv *history.Conversation) Model {
	m := NewChatModel(client, store, cfg)
	if conv != nil {
		m.chatID = conv.ID
		for _, msg := range conv.Messages {
			m.messages = append(m.messages, chatMessage{
				role:    msg.Role,
				content: msg.Content,
			})
		}
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Too narrow for a side panel
		if m.width < sidebarBreakpoint && m.sidebar.open {
			m.sidebar.open = false
		}

		m.resize()
		m.updateViewport()

	case tea.KeyMsg:
		if m.sidebar.open {
			return m.updateSidebar(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			return m, tea.Quit

		case "ctrl+t":
			m.toggleTheme()

		case "ctrl+b":
			if m.width >= sidebarBreakpoint {
				m.openSidebar()
				m.resize()
				m.updateViewport()
			}

		case "enter":
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				// Nothing submitted: no request, transcript untouched.
				break
			}
			if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
				return m, tea.Quit
			}
			return m.submit(input)
		}

	case replyMsg:
		// The placeholder settles exactly once, no matter how the reply and
		// any duplicate delivery interleave.
		if !m.settlePending(msg.token) {
			break
		}
		m.inflight--
		m.applyReply(msg.reply)
		m.updateViewport()
		m.viewport.GotoBottom()

	case replyErrMsg:
		if !m.settlePending(msg.token) {
			break
		}
		m.inflight--
		m.applyFailure(msg.err)
		m.updateViewport()
		m.viewport.GotoBottom()

	case chatDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			if msg.chatID == m.chatID {
				m.startNewChat()
			}
			m.sidebar.remove(msg.chatID)
			m.reloadSidebar()
			m.updateViewport()
		}

	case spinner.TickMsg:
		if m.inflight > 0 {
			m.spinner, cmd = m.spinner.Update(msg)
			m.updateViewport()
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.inflight > 0 {
			m.animationFrame++
			m.updateViewport()
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.sidebar.open {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit appends the user message and a pending placeholder, then issues the
// request. Further submissions may overlap; each carries its own token.
func (m Model) submit(input string) (tea.Model, tea.Cmd) {
	m.messages = append(m.messages, chatMessage{
		role:    models.RoleUser,
		content: input,
	})
	if m.store != nil {
		if err := m.store.AddMessage(m.chatID, models.RoleUser, input); err != nil {
			logger.L().Warn("failed to persist user message", zap.Error(err))
		}
	}

	token := m.nextToken
	m.nextToken++
	m.messages = append(m.messages, chatMessage{
		role:    models.RoleModel,
		pending: true,
		token:   token,
	})
	m.inflight++
	m.err = nil
	m.textarea.Reset()

	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.sendMessage(input, m.chatID, token),
		m.spinner.Tick,
		animationTick(),
	)
}

// sendMessage creates a command that posts one message to the service. Draft
// ids are local only; the server sees an empty chat_id and assigns a real one.
func (m Model) sendMessage(message, chatID string, token int) tea.Cmd {
	if history.IsDraftID(chatID) {
		chatID = ""
	}
	return func() tea.Msg {
		log := logger.WithRequestID()
		log.Debug("sending message", zap.String("chat_id", chatID))

		reply, err := m.client.SendMessage(message, chatID)
		if err != nil {
			log.Warn("message failed", zap.Error(err))
			return replyErrMsg{token: token, err: err}
		}

		log.Debug("reply received", zap.Bool("title_updated", reply.TitleUpdated))
		return replyMsg{token: token, reply: reply}
	}
}

// settlePending removes the placeholder for token. Returns false when the
// placeholder is already gone, making settlement idempotent.
func (m *Model) settlePending(token int) bool {
	for i, msg := range m.messages {
		if msg.pending && msg.token == token {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return true
		}
	}
	return false
}

// applyReply appends the reply text and absorbs the sidebar metadata the
// server sent along with it.
func (m *Model) applyReply(reply *models.ChatReply) {
	// The server may assign (or re-assign) the conversation id.
	if reply.ChatID != "" && reply.ChatID != m.chatID {
		if m.store != nil {
			if err := m.store.Adopt(m.chatID, reply.ChatID); err != nil {
				logger.L().Warn("failed to adopt chat id", zap.Error(err))
			}
		}
		m.sidebar.adopt(m.chatID, reply.ChatID)
		m.chatID = reply.ChatID
	}

	m.messages = append(m.messages, chatMessage{
		role:    models.RoleModel,
		content: reply.Response,
	})
	if m.store != nil {
		if err := m.store.AddMessage(m.chatID, models.RoleModel, reply.Response); err != nil {
			logger.L().Warn("failed to persist reply", zap.Error(err))
		}
	}

	// A freshly titled conversation replaces its sidebar entry. The fragment
	// is mined for id and title only, never rendered.
	if reply.TitleUpdated && reply.NewHistoryHTML != "" {
		entry, err := models.ParseHistoryEntry(reply.NewHistoryHTML)
		if err != nil {
			logger.L().Warn("unusable history fragment", zap.Error(err))
			return
		}
		if m.store != nil {
			if err := m.store.Rename(entry.ID, entry.Title); err != nil {
				logger.L().Warn("failed to rename conversation", zap.Error(err))
			}
		}
		m.sidebar.apply(*entry)
	}
}

// applyFailure appends the transcript entry for a failed submission. A
// server-reported error surfaces its message; anything else gets the generic
// connection failure line.
func (m *Model) applyFailure(err error) {
	text := connectionFailureText
	if apierrors.IsServerError(err) {
		text = "Error: " + apierrors.ServerMessage(err)
	}
	m.messages = append(m.messages, chatMessage{
		role:    models.RoleModel,
		content: text,
		failed:  true,
	})
}

// toggleTheme flips light/dark, rebuilds the styles and persists the choice.
// Toggling twice restores the original theme.
func (m *Model) toggleTheme() {
	m.cfg.Theme = config.ToggleTheme(m.cfg.Theme)
	render.SetTheme(m.cfg.Theme)
	UpdateTheme()

	m.textarea.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	m.textarea.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	m.textarea.BlurredStyle = m.textarea.FocusedStyle
	m.spinner.Style = loadingStyle

	if err := config.SaveConfig(m.cfg); err != nil {
		logger.L().Warn("failed to persist theme", zap.Error(err))
	}

	m.updateViewport()
}

// startNewChat resets the transcript under a fresh draft id.
func (m *Model) startNewChat() {
	m.chatID = history.NewDraftID()
	m.messages = []chatMessage{}
	m.err = nil
}

// resize recomputes component dimensions from the window size.
func (m *Model) resize() {
	headerHeight := 4
	inputHeight := 6
	statusHeight := 1
	padding := 2

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := m.contentWidth()

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.textarea.SetWidth(contentWidth - 4)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
		m.textarea.SetWidth(contentWidth - 4)
	}
}

// contentWidth is the width left for the chat column once the sidebar has
// taken its share.
func (m Model) contentWidth() int {
	w := m.width - 4
	if m.sidebar.open {
		w -= sidebarWidth + 2
	}
	if w < 20 {
		w = 20
	}
	return w
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.contentWidth()

	// Header
	headerParts := []string{
		titleStyle.Render("✚ Healthguru"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render("wellness chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.cfg.Theme + " theme"),
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	header := headerStyle.Width(contentWidth).Render(headerContent)
	sections = append(sections, header)

	// Messages area
	var messagesContent string
	if len(m.messages) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}

	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	// Input area
	inputContent := lipgloss.JoinVertical(
		lipgloss.Left,
		inputLabelStyle.Render("You"),
		m.textarea.View(),
	)
	inputPanel := inputPanelStyle.Width(contentWidth).Render(inputContent)
	sections = append(sections, inputPanel)

	// Status bar
	sections = append(sections, m.renderStatusBar(contentWidth))

	// Error display
	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	chat := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.sidebar.open {
		panel := m.renderSidebar()
		return lipgloss.JoinHorizontal(lipgloss.Top, panel, " ", chat)
	}

	return chat
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("✚")
	title := welcomeTitleStyle.Width(width).Render("Welcome to Healthguru")
	subtitle := welcomeStyle.Width(width).Render("Ask anything about health and wellness")
	disclaimer := welcomeStyle.Width(width).Render(hintStyle.Render("Not a substitute for professional medical advice"))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		icon,
		"",
		title,
		"",
		subtitle,
		"",
		disclaimer,
		"",
	)

	contentHeight := lipgloss.Height(content)
	topPadding := (height - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderThinking renders the animated placeholder for an in-flight reply.
func (m Model) renderThinking() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	frame := m.animationFrame
	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := gradientColors[(frame+i)%len(gradientColors)]
		dots += lipgloss.NewStyle().Foreground(dotColor).Render("●")
	}
	for i := numDots; i < 3; i++ {
		dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Healthguru is thinking ")

	return spin + text + dots
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+B", "History"},
		{"Ctrl+T", "Theme"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		switch {
		case msg.role == models.RoleUser:
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(render.Sanitize(msg.content))
			content.WriteString(label + "\n" + bubble)

		case msg.pending:
			label := modelLabelStyle.Render("✚ Healthguru")
			content.WriteString(label + "\n" + m.renderThinking())

		case msg.failed:
			label := modelLabelStyle.Render("✚ Healthguru")
			bubble := modelBubbleStyle.Width(bubbleWidth).Render(errorStyle.Render(render.Sanitize(msg.content)))
			content.WriteString(label + "\n" + bubble)

		default:
			label := modelLabelStyle.Render("✚ Healthguru")

			rendered, err := render.MarkdownWithWidth(msg.content, bubbleWidth-4)
			if err != nil {
				rendered = render.Sanitize(msg.content)
			}
			rendered = strings.TrimRight(rendered, "\n")

			bubble := modelBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI
func RunChat(client ChatService, store HistoryStore, cfg config.Config) error {
	m := NewChatModel(client, store, cfg)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

// RunChatWithConversation starts the chat TUI on an existing conversation.
func RunChatWithConversation(client ChatService, store HistoryStore, cfg config.Config, conv *history.Conversation) error {
	m := NewChatModelWithConversation(client, store, cfg, conv)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
