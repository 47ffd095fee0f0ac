package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/nuchat/internal/models"
	"github.com/diogo/nuchat/internal/status"
)

const helpText = "/clear  /export <file.md|.json|.html>  /model <id>  /models  /quit"

// runCommand executes a slash command typed into the input
func (m *Model) runCommand(input string) tea.Cmd {
	fields := strings.Fields(input)
	name, args := fields[0], fields[1:]
	r := m.widget.Reporter()

	m.logger.Debug().Str("command", name).Strs("args", args).Msg("slash command")

	switch name {
	case "/help":
		r.ShowStatus(helpText, status.KindInfo)

	case "/clear":
		m.widget.Clear()
		r.HideError()
		m.nextSuggestion = 0
		m.refresh()
		r.ShowStatus("Chat cleared", status.KindInfo)

	case "/export":
		if len(args) != 1 {
			r.ShowStatus("Usage: /export <file.md|.json|.html>", status.KindWarning)
			break
		}
		if err := m.widget.Transcript().WriteFile(args[0]); err != nil {
			m.logger.Warn().Err(err).Str("path", args[0]).Msg("export failed")
			r.ShowError(fmt.Sprintf("Export failed: %v", err))
			break
		}
		r.ShowStatus("Exported to "+args[0], status.KindSuccess)

	case "/model":
		if len(args) != 1 {
			current := m.widget.Model()
			if current == "" {
				current = "none"
			}
			r.ShowStatus("Current model: "+current+" (usage: /model <id>)", status.KindInfo)
			break
		}
		if !m.widget.SetModel(args[0]) {
			r.ShowStatus("The "+m.widget.Provider().Name()+" provider has no model to select", status.KindWarning)
			break
		}
		if !models.IsKnownModel(args[0]) {
			r.ShowStatus("Model set to "+args[0]+" (not a built-in model)", status.KindWarning)
			break
		}
		r.ShowStatus("Model set to "+args[0], status.KindSuccess)

	case "/models":
		return m.listModels()

	default:
		r.ShowStatus("Unknown command "+name+". Try /help", status.KindWarning)
	}

	return m.scheduleExpiry()
}
