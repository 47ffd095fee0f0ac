package render

import (
	"os"
	"strings"
)

// Built-in markdown style names
const (
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeDracula    = "dracula"
	ThemePink       = "pink"
	ThemeNoTTY      = "notty"
	ThemeASCII      = "ascii"
)

// glamour's own names for styles we expose under a different name
var glamourStyleNames = map[string]string{
	ThemeTokyoNight: "tokyo-night",
	"tokyo-night":   "tokyo-night",
}

// ResolveStyle maps a configured style to a glamour style name or file path.
// Unknown names are returned unchanged and treated by glamour as a path.
func ResolveStyle(style string) string {
	style = strings.TrimSpace(style)
	if style == "" {
		return ThemeDark
	}
	if name, ok := glamourStyleNames[strings.ToLower(style)]; ok {
		return name
	}
	if IsBuiltinStyle(style) {
		return strings.ToLower(style)
	}
	return style
}

// IsBuiltinStyle returns true if the style ships with glamour
func IsBuiltinStyle(style string) bool {
	switch strings.ToLower(style) {
	case ThemeDark, ThemeLight, ThemeTokyoNight, "tokyo-night", ThemeDracula, ThemePink, ThemeNoTTY, ThemeASCII:
		return true
	default:
		return false
	}
}

// IsStyleFile reports whether style names an existing JSON theme file
func IsStyleFile(style string) bool {
	if IsBuiltinStyle(style) || !strings.HasSuffix(strings.ToLower(style), ".json") {
		return false
	}
	info, err := os.Stat(style)
	return err == nil && !info.IsDir()
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns the built-in markdown styles.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemePink, Description: "Pink accents"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
