package render

import (
	"github.com/diogo/nuchat/internal/config"
)

// OptionsFromConfig builds render options from a loaded configuration.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	md := cfg.Markdown
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks
	return opts
}
