package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmelo/healthguru/internal/browser"
	"github.com/dmelo/healthguru/internal/config"
)

// importTimeout bounds the browser cookie store scan.
const importTimeout = 30 * time.Second

// importSessionCmd imports the web session cookie from an installed browser.
var importSessionCmd = &cobra.Command{
	Use:   "import-session [browser]",
	Short: "Import the web login from a browser",
	Long: `Import the Healthguru web session cookie from an installed browser,
so the CLI shares the web login.

Without an argument all supported browsers are tried. Supported:
auto, chrome, chromium, firefox, edge, opera.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImportSession,
}

func runImportSession(cmd *cobra.Command, args []string) error {
	target := "auto"
	if len(args) > 0 {
		target = args[0]
	}

	b, err := browser.ParseBrowser(target)
	if err != nil {
		return err
	}

	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()

	spin := newSpinner("Searching browser cookies")
	spin.start()

	sess, err := browser.ImportSession(ctx, b, cfg.BaseURL)
	if err != nil {
		spin.stopWithError()
		return fmt.Errorf("session import failed: %w", err)
	}

	sess.ImportedAt = time.Now()
	if err := config.SaveSession(sess); err != nil {
		spin.stopWithError()
		return fmt.Errorf("failed to save session: %w", err)
	}

	spin.stopWithSuccess(fmt.Sprintf("Session imported from %s", sess.Browser))
	return nil
}
