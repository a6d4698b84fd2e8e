package render

import (
	"os"

	"github.com/dmelo/healthguru/internal/config"
)

// LoadOptionsFromConfig derives render options from user configuration.
// GLAMOUR_STYLE in the environment overrides the theme-derived style.
func LoadOptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	opts.Style = CurrentTheme().MarkdownStyle
	opts.EnableEmoji = cfg.Markdown.EnableEmoji
	opts.PreserveNewLines = cfg.Markdown.PreserveNewLines
	opts.TableWrap = cfg.Markdown.TableWrap

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}
