// Package tui provides the terminal user interface for nuchat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/nuchat/internal/errors"
	"github.com/diogo/nuchat/internal/render"
	"github.com/diogo/nuchat/internal/status"
)

// palette is the active color theme; styles below derive from it
var palette render.TUITheme

// Styles, rebuilt by UpdateTheme
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	messagesAreaStyle lipgloss.Style

	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style

	loadingStyle lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	errorStyle         lipgloss.Style
	bannerInfoStyle    lipgloss.Style
	bannerSuccessStyle lipgloss.Style
	bannerWarningStyle lipgloss.Style

	suggestionStyle lipgloss.Style

	welcomeStyle      lipgloss.Style
	welcomeTitleStyle lipgloss.Style
	welcomeIconStyle  lipgloss.Style
)

func init() {
	UpdateTheme()
}

// UpdateTheme rebuilds every style from the active render theme.
// Call it after render.SetTUITheme.
func UpdateTheme() {
	palette = render.GetTUITheme()
	p := palette

	bordered := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(c)
	}
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	headerStyle = bordered(p.Border).Padding(0, 2).MarginBottom(1)
	titleStyle = fg(p.Primary).Bold(true)
	subtitleStyle = fg(p.TextDim)
	hintStyle = fg(p.TextMute).Italic(true)

	messagesAreaStyle = bordered(p.Border).Padding(1)

	// user on the right, assistant on the left
	userBubbleStyle = bordered(p.UserBubble).Padding(0, 1).MarginLeft(4)
	userLabelStyle = fg(p.UserBubble).Bold(true).MarginLeft(4)
	assistantBubbleStyle = bordered(p.AssistantBubble).Foreground(p.Text).Padding(0, 1).MarginRight(4)
	assistantLabelStyle = fg(p.AssistantBubble).Bold(true)

	inputPanelStyle = bordered(p.Border).Padding(0, 1).MarginTop(1)
	inputLabelStyle = fg(p.Primary).Bold(true).MarginRight(1)

	loadingStyle = fg(p.Accent).Bold(true)

	statusBarStyle = fg(p.TextMute).MarginTop(1)
	statusKeyStyle = fg(p.TextDim).Bold(true)
	statusDescStyle = fg(p.TextMute)

	errorStyle = fg(p.Error).Bold(true)
	bannerInfoStyle = fg(p.Primary)
	bannerSuccessStyle = fg(p.Success).Bold(true)
	bannerWarningStyle = fg(p.Warning)

	suggestionStyle = fg(p.Secondary).Italic(true)

	welcomeStyle = fg(p.TextDim).Align(lipgloss.Center)
	welcomeTitleStyle = fg(p.Primary).Bold(true).Align(lipgloss.Center)
	welcomeIconStyle = fg(p.Accent).Align(lipgloss.Center)
}

// bannerStyle returns the style for a status banner kind
func bannerStyle(kind status.Kind) lipgloss.Style {
	switch kind {
	case status.KindSuccess:
		return bannerSuccessStyle
	case status.KindWarning:
		return bannerWarningStyle
	default:
		return bannerInfoStyle
	}
}

// FormatError returns a styled error message with additional context
// extracted from the structured error types.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(palette.Error)
	dimStyle := lipgloss.NewStyle().Foreground(palette.TextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if code := errors.GetHTTPStatus(err); code > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", code)))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case errors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Is the backend running? Check the base URL with 'nuchat config'"))
	case errors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or raise request_timeout"))
	}

	return sb.String()
}
