package commands

import (
	"strings"
	"testing"

	"github.com/dmelo/healthguru/internal/config"
	"github.com/dmelo/healthguru/internal/history"
	"github.com/dmelo/healthguru/internal/models"
)

func TestRootCommandStructure(t *testing.T) {
	subcommands := []string{"chat", "config", "history", "import-session"}
	for _, name := range subcommands {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	for _, flag := range []string{"output", "file", "version"} {
		if rootCmd.Flags().Lookup(flag) == nil {
			t.Errorf("flag --%s not registered", flag)
		}
	}
	for _, flag := range []string{"base-url", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s not registered", flag)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	rootCmd.SetArgs([]string{"--version"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version flag failed: %v", err)
	}
}

func TestConfigSetGet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HEALTHGURU_THEME", "")
	t.Setenv("HEALTHGURU_BASE_URL", "")

	if err := runConfigSet(configSetCmd, []string{"theme", "light"}); err != nil {
		t.Fatalf("set theme failed: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Theme != config.ThemeLight {
		t.Errorf("theme = %q, want light", cfg.Theme)
	}

	if err := runConfigSet(configSetCmd, []string{"base_url", "http://example.test:5000"}); err != nil {
		t.Fatalf("set base_url failed: %v", err)
	}
	cfg, _ = config.LoadConfig()
	if cfg.BaseURL != "http://example.test:5000" {
		t.Errorf("base_url = %q", cfg.BaseURL)
	}

	if err := runConfigSet(configSetCmd, []string{"copy_to_clipboard", "true"}); err != nil {
		t.Fatalf("set copy_to_clipboard failed: %v", err)
	}
	cfg, _ = config.LoadConfig()
	if !cfg.CopyToClipboard {
		t.Error("copy_to_clipboard not persisted")
	}
}

func TestConfigSetRejectsBadValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cases := [][]string{
		{"theme", "neon"},
		{"base_url", ""},
		{"copy_to_clipboard", "maybe"},
		{"verbose", "sometimes"},
		{"unknown_key", "x"},
	}
	for _, args := range cases {
		if err := runConfigSet(configSetCmd, args); err == nil {
			t.Errorf("set %v: expected error", args)
		}
	}

	// A rejected value must not clobber the saved config.
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Theme != config.ThemeDark {
		t.Errorf("theme changed by invalid set: %q", cfg.Theme)
	}
}

func TestConfigGetUnknownKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runConfigGet(configGetCmd, []string{"nonsense"}); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := runConfigGet(configGetCmd, []string{"theme"}); err != nil {
		t.Errorf("get theme failed: %v", err)
	}
}

func TestHistoryListEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runHistoryList(historyListCmd, nil); err != nil {
		t.Fatalf("history list failed: %v", err)
	}
}

func TestHistoryDeleteDraftSkipsServer(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := history.DefaultStore()
	if err != nil {
		t.Fatalf("DefaultStore failed: %v", err)
	}

	draft := history.NewDraftID()
	if err := store.AddMessage(draft, models.RoleUser, "hello"); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}

	// No server reachable in tests; a draft must still delete cleanly.
	if err := runHistoryDelete(historyDeleteCmd, []string{draft}); err != nil {
		t.Fatalf("delete draft failed: %v", err)
	}
	if _, err := store.Get(draft); err == nil {
		t.Error("draft still present after delete")
	}
}

func TestHistoryDeleteLocalFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := history.DefaultStore()
	if err != nil {
		t.Fatalf("DefaultStore failed: %v", err)
	}
	if err := store.AddMessage("server-id", models.RoleUser, "hello"); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}

	historyLocalFlag = true
	defer func() { historyLocalFlag = false }()

	if err := runHistoryDelete(historyDeleteCmd, []string{"server-id"}); err != nil {
		t.Fatalf("local delete failed: %v", err)
	}
	if _, err := store.Get("server-id"); err == nil {
		t.Error("conversation still present after local delete")
	}
}

func TestHistoryShowMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runHistoryShow(historyShowCmd, []string{"nope"}); err == nil {
		t.Error("expected error for missing conversation")
	}
}

func TestRunQueryRejectsEmpty(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		if err := runQuery(q, true); err == nil {
			t.Errorf("runQuery(%q) accepted empty question", q)
		}
	}
}

func TestSpinnerStopOnce(t *testing.T) {
	s := newSpinner("working")
	s.start()
	s.stopOnce()
	// A second stop must not panic on a closed channel.
	s.stopOnce()
	<-s.done
}

func TestFormatErrorMessage(t *testing.T) {
	if got := formatErrorMessage(nil, "ctx"); got != "" {
		t.Errorf("nil error formatted as %q", got)
	}
}

func TestLoadConfigAppliesBaseURLFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HEALTHGURU_BASE_URL", "")

	baseURLFlag = "http://flag.test:9999"
	defer func() { baseURLFlag = "" }()

	cfg := loadConfig()
	if cfg.BaseURL != "http://flag.test:9999" {
		t.Errorf("BaseURL = %q, want flag value", cfg.BaseURL)
	}
}

func TestImportSessionRejectsUnknownBrowser(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	err := runImportSession(importSessionCmd, []string{"netscape"})
	if err == nil || !strings.Contains(err.Error(), "unsupported browser") {
		t.Errorf("err = %v, want unsupported browser", err)
	}
}
