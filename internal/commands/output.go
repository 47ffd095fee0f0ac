package commands

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/diogo/nuchat/internal/render"
)

// cliStyles are the one-shot output styles, built from the active palette
// so they match the chat window.
type cliStyles struct {
	assistantLabel  lipgloss.Style
	assistantBubble lipgloss.Style
	success         lipgloss.Style
	warning         lipgloss.Style
	failure         lipgloss.Style
	text            lipgloss.Style
	mute            lipgloss.Style
}

func newCLIStyles(theme render.TUITheme) cliStyles {
	return cliStyles{
		assistantLabel: lipgloss.NewStyle().Foreground(theme.AssistantBubble).Bold(true),
		assistantBubble: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.AssistantBubble).
			Foreground(theme.Text).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1),
		success: lipgloss.NewStyle().Foreground(theme.Success),
		warning: lipgloss.NewStyle().Foreground(theme.Warning),
		failure: lipgloss.NewStyle().Foreground(theme.Error),
		text:    lipgloss.NewStyle().Foreground(theme.Text),
		mute:    lipgloss.NewStyle().Foreground(theme.TextMute),
	}
}

func success(msg string) string {
	return newCLIStyles(render.GetTUITheme()).success.Render("✓ " + msg)
}

func warning(msg string) string {
	return newCLIStyles(render.GetTUITheme()).warning.Render("⚠ " + msg)
}

func failure(msg string) string {
	return newCLIStyles(render.GetTUITheme()).failure.Render("✗ " + msg)
}

// newTable returns a bordered table in the active palette
func newTable(headers ...string) *table.Table {
	theme := render.GetTUITheme()
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// spinner is the typing indicator shown while a one-shot query is pending
type spinner struct {
	out     io.Writer
	message string
	styles  cliStyles
	colors  []lipgloss.Color

	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(out io.Writer, message string) *spinner {
	theme := render.GetTUITheme()
	return &spinner{
		out:     out,
		message: message,
		styles:  newCLIStyles(theme),
		colors:  []lipgloss.Color{theme.Primary, theme.Accent, theme.Secondary, theme.UserBubble},
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(s.out, "\033[?25l")
		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws one frame: glyph, message and up to three dots
func (s *spinner) render() {
	color := s.colors[s.frame%len(s.colors)]
	glyph := lipgloss.NewStyle().Foreground(color).Bold(true).Render(spinnerFrames[s.frame%len(spinnerFrames)])

	var dots strings.Builder
	lit := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < lit {
			dots.WriteString(lipgloss.NewStyle().Foreground(color).Render("●"))
		} else {
			dots.WriteString(s.styles.mute.Render("○"))
		}
	}

	fmt.Fprintf(s.out, "\r\033[K%s %s %s", glyph, s.styles.text.Render(s.message), dots.String())
}

// stopOnce closes the stop channel at most once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the animation and prints message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done
	fmt.Fprintln(s.out, success(message))
}

// stopWithError stops the animation and leaves the line empty
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}
