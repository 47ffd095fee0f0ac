package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the color palette of the chat window and CLI output.
type TUITheme struct {
	Name        string
	Description string

	Border lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color

	UserBubble      lipgloss.Color
	AssistantBubble lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in palettes
var (
	TokyoNightTheme = TUITheme{
		Name:            "tokyonight",
		Description:     "Tokyo Night, blue accents (default)",
		Border:          "#414868",
		Primary:         "#7aa2f7",
		Secondary:       "#9ece6a",
		Accent:          "#bb9af7",
		Warning:         "#e0af68",
		Error:           "#f7768e",
		Success:         "#9ece6a",
		UserBubble:      "#7aa2f7",
		AssistantBubble: "#bb9af7",
		Text:            "#c0caf5",
		TextDim:         "#565f89",
		TextMute:        "#3b4261",
	}

	CatppuccinMochaTheme = TUITheme{
		Name:            "catppuccin",
		Description:     "Catppuccin Mocha, warm pastels",
		Border:          "#45475a",
		Primary:         "#89b4fa",
		Secondary:       "#a6e3a1",
		Accent:          "#cba6f7",
		Warning:         "#f9e2af",
		Error:           "#f38ba8",
		Success:         "#a6e3a1",
		UserBubble:      "#89b4fa",
		AssistantBubble: "#cba6f7",
		Text:            "#cdd6f4",
		TextDim:         "#6c7086",
		TextMute:        "#45475a",
	}

	NordTheme = TUITheme{
		Name:            "nord",
		Description:     "Nord, cool arctic tones",
		Border:          "#4c566a",
		Primary:         "#88c0d0",
		Secondary:       "#a3be8c",
		Accent:          "#b48ead",
		Warning:         "#ebcb8b",
		Error:           "#bf616a",
		Success:         "#a3be8c",
		UserBubble:      "#88c0d0",
		AssistantBubble: "#b48ead",
		Text:            "#eceff4",
		TextDim:         "#7b88a1",
		TextMute:        "#4c566a",
	}

	DraculaTheme = TUITheme{
		Name:            "dracula",
		Description:     "Dracula, vivid colors",
		Border:          "#6272a4",
		Primary:         "#8be9fd",
		Secondary:       "#50fa7b",
		Accent:          "#ff79c6",
		Warning:         "#f1fa8c",
		Error:           "#ff5555",
		Success:         "#50fa7b",
		UserBubble:      "#8be9fd",
		AssistantBubble: "#ff79c6",
		Text:            "#f8f8f2",
		TextDim:         "#6272a4",
		TextMute:        "#44475a",
	}
)

var tuiThemes = []TUITheme{TokyoNightTheme, CatppuccinMochaTheme, NordTheme, DraculaTheme}

var (
	tuiThemeMu      sync.RWMutex
	currentTUITheme = TokyoNightTheme
)

// GetTUITheme returns the active palette.
func GetTUITheme() TUITheme {
	tuiThemeMu.RLock()
	defer tuiThemeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme activates the palette called name. Unknown names are ignored
// and reported with false.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	tuiThemeMu.Lock()
	currentTUITheme = theme
	tuiThemeMu.Unlock()
	return true
}

// GetTUIThemeByName looks a palette up case-insensitively.
func GetTUIThemeByName(name string) (TUITheme, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range tuiThemes {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns the built-in palettes, default first.
func AvailableTUIThemes() []TUITheme {
	return append([]TUITheme(nil), tuiThemes...)
}

// TUIThemeNames returns the palette names, default first.
func TUIThemeNames() []string {
	names := make([]string, len(tuiThemes))
	for i, t := range tuiThemes {
		names[i] = t.Name
	}
	return names
}
