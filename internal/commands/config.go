package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmelo/healthguru/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `View and change healthguru settings.

Keys:
  theme              light or dark
  base_url           Healthguru service URL
  copy_to_clipboard  true or false
  verbose            true or false`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("theme: %s\n", cfg.Theme)
	fmt.Printf("base_url: %s\n", cfg.BaseURL)
	fmt.Printf("copy_to_clipboard: %t\n", cfg.CopyToClipboard)
	fmt.Printf("verbose: %t\n", cfg.Verbose)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	switch args[0] {
	case "theme":
		fmt.Println(cfg.Theme)
	case "base_url":
		fmt.Println(cfg.BaseURL)
	case "copy_to_clipboard":
		fmt.Println(cfg.CopyToClipboard)
	case "verbose":
		fmt.Println(cfg.Verbose)
	default:
		return fmt.Errorf("unknown key: %s", args[0])
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	switch key {
	case "theme":
		if !config.ValidTheme(value) {
			return fmt.Errorf("invalid theme %q: must be %s or %s", value, config.ThemeLight, config.ThemeDark)
		}
		cfg.Theme = value
	case "base_url":
		if value == "" {
			return fmt.Errorf("base_url cannot be empty")
		}
		cfg.BaseURL = value
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value %q: must be true or false", value)
		}
		cfg.CopyToClipboard = b
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value %q: must be true or false", value)
		}
		cfg.Verbose = b
	default:
		return fmt.Errorf("unknown key: %s", key)
	}

	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("%s = %s\n", key, value)
	return nil
}
