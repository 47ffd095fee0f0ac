package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/diogo/nuchat/internal/api"
	"github.com/diogo/nuchat/internal/models"
	"github.com/diogo/nuchat/internal/render"
	"github.com/diogo/nuchat/internal/widget"
)

// Message types for the TUI
type (
	responseMsg struct {
		text string
		err  error
	}
	healthMsg struct {
		err error
	}
	// bannerExpireMsg hides the status banner of generation gen if it is still shown
	bannerExpireMsg struct {
		gen uint64
	}
	modelsMsg struct {
		models []models.ModelInfo
		err    error
	}
)

// modelLister is implemented by providers backed by an API client
type modelLister interface {
	Client() api.ClientInterface
}

// Options configures the chat model
type Options struct {
	// Title is shown in the header
	Title string
	// Welcome is appended as the first assistant message when set
	Welcome string
	// Suggestions are cycled into the input with Tab
	Suggestions []string
	// Markdown configures assistant rendering. The zero value uses render defaults.
	Markdown render.Options
	Logger   zerolog.Logger
}

// Model represents the TUI state
type Model struct {
	ctx    context.Context
	widget *widget.Widget
	opts   Options
	logger zerolog.Logger

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	ready          bool
	nextSuggestion int

	width  int
	height int
}

// NewChatModel creates a chat TUI around w. ctx bounds every provider call.
func NewChatModel(ctx context.Context, w *widget.Widget, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask me anything..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(palette.Text)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(palette.TextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	if opts.Title == "" {
		opts.Title = "nuchat"
	}
	if opts.Markdown.Style == "" {
		opts.Markdown = render.DefaultOptions()
	}
	if opts.Welcome != "" && w.Transcript().Len() == 0 {
		w.Welcome(opts.Welcome)
	}

	return Model{
		ctx:      ctx,
		widget:   w,
		opts:     opts,
		logger:   opts.Logger,
		textarea: ta,
		spinner:  s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if _, ok := m.widget.Provider().(widget.HealthChecker); ok {
		cmds = append(cmds, m.checkHealth())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 3 // shortcuts plus banners
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			if !m.widget.Busy() && len(m.opts.Suggestions) > 0 {
				m.textarea.SetValue(m.opts.Suggestions[m.nextSuggestion])
				m.nextSuggestion = (m.nextSuggestion + 1) % len(m.opts.Suggestions)
			}
			return m, nil

		case "enter":
			if m.widget.Busy() {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			switch input {
			case "exit", "quit", "/exit", "/quit":
				return m, tea.Quit
			}
			if strings.HasPrefix(input, "/") {
				m.textarea.Reset()
				cmd = m.runCommand(input)
				return m, cmd
			}

			return m.submit(input)
		}

	case responseMsg:
		m.widget.Complete(msg.text, msg.err)
		m.textarea.Focus()
		m.refresh()

	case healthMsg:
		cmds = append(cmds, m.scheduleExpiry())

	case bannerExpireMsg:
		m.widget.Reporter().Expire(msg.gen)

	case modelsMsg:
		list := msg.models
		kind := "backend"
		if msg.err != nil || len(list) == 0 {
			m.logger.Debug().Err(msg.err).Msg("model listing unavailable, using built-in list")
			list = models.BuiltinModels()
			kind = "built-in"
		}
		ids := make([]string, 0, len(list))
		for _, info := range list {
			ids = append(ids, info.ID)
		}
		m.widget.Reporter().ShowStatus(fmt.Sprintf("Models (%s): %s", kind, strings.Join(ids, ", ")), "")
		cmds = append(cmds, m.scheduleExpiry())

	case spinner.TickMsg:
		if m.widget.Busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.widget.Busy() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit starts a response operation for input
func (m Model) submit(input string) (tea.Model, tea.Cmd) {
	prompt, err := m.widget.Begin(input)
	if err != nil {
		return m, nil
	}
	m.textarea.Reset()
	m.refresh()

	return m, tea.Batch(
		m.respond(prompt),
		m.spinner.Tick,
	)
}

// respond creates a command that asks the provider for a reply
func (m Model) respond(prompt string) tea.Cmd {
	w, ctx := m.widget, m.ctx
	return func() tea.Msg {
		text, err := w.Respond(ctx, prompt)
		return responseMsg{text: text, err: err}
	}
}

// checkHealth creates a command that probes the backend
func (m Model) checkHealth() tea.Cmd {
	w, ctx := m.widget, m.ctx
	return func() tea.Msg {
		return healthMsg{err: w.CheckHealth(ctx)}
	}
}

// listModels creates a command that fetches the backend model list
func (m Model) listModels() tea.Cmd {
	ml, ok := m.widget.Provider().(modelLister)
	if !ok {
		return func() tea.Msg {
			return modelsMsg{}
		}
	}
	ctx := m.ctx
	return func() tea.Msg {
		list, err := ml.Client().Models(ctx)
		return modelsMsg{models: list, err: err}
	}
}

// scheduleExpiry arranges for the visible status banner to hide after the
// reporter timeout. A newer banner is left alone.
func (m Model) scheduleExpiry() tea.Cmd {
	r := m.widget.Reporter()
	banner, ok := r.Status()
	if !ok {
		return nil
	}
	return tea.Tick(r.Timeout(), func(time.Time) tea.Msg {
		return bannerExpireMsg{gen: banner.Gen}
	})
}

// refresh re-renders the transcript into the viewport and scrolls to the bottom
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// renderMessages renders the transcript with styled bubbles
func (m Model) renderMessages() string {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.widget.Transcript().Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.IsUser() {
			label := userLabelStyle.Render("⬤ " + msg.Role.Label())
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ " + msg.Role.Label())

			rendered, err := render.Markdown(msg.Text, m.opts.Markdown.WithWidth(bubbleWidth-4))
			if err != nil {
				rendered = msg.Text
			}
			// Trim trailing newlines from glamour
			rendered = strings.TrimRight(rendered, "\n")

			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	return content.String()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{titleStyle.Render("✦ " + m.opts.Title)}
	if model := m.widget.Model(); model != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(model),
		)
	} else {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(m.widget.Provider().Name()),
		)
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages
	var messagesContent string
	if m.widget.Transcript().Len() == 0 {
		messagesContent = m.renderEmptyState()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Input
	var inputContent string
	if m.widget.Busy() {
		inputContent = m.spinner.View() + loadingStyle.Render(" Assistant is typing...")
	} else {
		parts := []string{inputLabelStyle.Render("You"), m.textarea.View()}
		if len(m.opts.Suggestions) > 0 && m.widget.Transcript().Len() <= 1 {
			parts = append(parts, suggestionStyle.Render("Tab: "+m.opts.Suggestions[m.nextSuggestion]))
		}
		inputContent = lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	// Banners
	if banner := m.renderBanners(); banner != "" {
		sections = append(sections, banner)
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderBanners renders the status and error banners, if any
func (m Model) renderBanners() string {
	var lines []string
	r := m.widget.Reporter()
	if banner, ok := r.Status(); ok {
		lines = append(lines, bannerStyle(banner.Kind).Render("● "+banner.Text))
	}
	if text, ok := r.Error(); ok {
		lines = append(lines, errorStyle.Render("⚠ "+text))
	}
	return strings.Join(lines, "\n")
}

// renderEmptyState renders the placeholder shown when the log is empty
func (m Model) renderEmptyState() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Start a conversation!"),
		"",
		welcomeStyle.Width(width).Render("Type a message below and press Enter"),
		"",
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
		{"/help", "Commands"},
	}
	if len(m.opts.Suggestions) > 0 {
		shortcuts = append(shortcuts, struct {
			key  string
			desc string
		}{"Tab", "Suggest"})
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// RunChat starts the chat TUI and blocks until the user quits.
// Quitting cancels ctx-derived work such as a pending simulated delay.
func RunChat(ctx context.Context, w *widget.Widget, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		NewChatModel(ctx, w, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
