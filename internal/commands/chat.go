package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmelo/healthguru/internal/history"
	"github.com/dmelo/healthguru/internal/tui"
)

// chatCmd starts the interactive chat TUI.
var chatCmd = &cobra.Command{
	Use:   "chat [chat-id]",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with Healthguru.

With a chat id, resumes that saved conversation:
  healthguru chat abc123

Inside the chat:
  Enter     Send the message
  Ctrl+B    Toggle the history panel
  Ctrl+T    Toggle light/dark theme
  Esc       Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		client, err := newClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		defer client.Close()

		store, err := history.DefaultStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: history unavailable: %v\n", err)
		}

		// A nil *Store must not become a non-nil interface.
		var histStore tui.HistoryStore
		if store != nil {
			histStore = store
		}

		if len(args) > 0 {
			if store == nil {
				return fmt.Errorf("cannot resume a conversation without history")
			}
			conv, err := store.Get(args[0])
			if err != nil {
				return fmt.Errorf("failed to load conversation: %w", err)
			}
			return tui.RunChatWithConversation(client, histStore, cfg, conv)
		}

		return tui.RunChat(client, histStore, cfg)
	},
}
