package render

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsBuiltinStyle(t *testing.T) {
	tests := []struct {
		style    string
		expected bool
	}{
		{"dark", true},
		{"light", true},
		{"dracula", true},
		{"tokyonight", true},
		{"tokyo-night", true},
		{"Pink", true},
		{"catppuccin", false},
		{"custom_path.json", false},
		{"unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			if got := IsBuiltinStyle(tt.style); got != tt.expected {
				t.Errorf("IsBuiltinStyle(%q) = %v, want %v", tt.style, got, tt.expected)
			}
		})
	}
}

func TestResolveStyle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "dark"},
		{"  ", "dark"},
		{"tokyonight", "tokyo-night"},
		{"TokyoNight", "tokyo-night"},
		{"LIGHT", "light"},
		{"/tmp/theme.json", "/tmp/theme.json"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ResolveStyle(tt.in); got != tt.want {
				t.Errorf("ResolveStyle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsStyleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.json")
	if err := os.WriteFile(path, []byte(`{"document":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if !IsStyleFile(path) {
		t.Error("expected existing JSON file to be a style file")
	}
	if IsStyleFile(filepath.Join(dir, "missing.json")) {
		t.Error("missing file is not a style file")
	}
	if IsStyleFile("dark") {
		t.Error("built-in name is not a style file")
	}
}

func TestBuiltinThemesRender(t *testing.T) {
	for _, name := range ThemeNames() {
		t.Run(name, func(t *testing.T) {
			out, err := Markdown("**bold** and `code`", DefaultOptions().WithStyle(name))
			if err != nil {
				t.Fatalf("render with %s failed: %v", name, err)
			}
			if out == "" {
				t.Error("expected output")
			}
		})
	}
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	themes := AvailableThemes()
	if len(names) != len(themes) {
		t.Fatalf("names count (%d) != themes count (%d)", len(names), len(themes))
	}
	if names[0] != ThemeDark {
		t.Errorf("default theme should be listed first, got %s", names[0])
	}
}
