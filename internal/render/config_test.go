package render

import (
	"testing"

	"github.com/diogo/nuchat/internal/config"
)

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Markdown.Style = "light"
	cfg.Markdown.EnableEmoji = false
	cfg.Markdown.InlineTableLinks = true

	opts := OptionsFromConfig(cfg)

	if opts.Style != "light" {
		t.Errorf("expected Style='light', got %s", opts.Style)
	}
	if opts.EnableEmoji {
		t.Error("expected EnableEmoji=false")
	}
	if !opts.InlineTableLinks {
		t.Error("expected InlineTableLinks=true")
	}
	if opts.Width != 80 {
		t.Errorf("expected default width 80, got %d", opts.Width)
	}
}

func TestOptionsFromConfig_EmptyStyleKeepsDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Markdown.Style = ""

	if opts := OptionsFromConfig(cfg); opts.Style != "dark" {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
}
