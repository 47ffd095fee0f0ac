package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/nuchat/internal/logging"
	"github.com/diogo/nuchat/internal/provider"
	"github.com/diogo/nuchat/internal/render"
	"github.com/diogo/nuchat/internal/transcript"
	"github.com/diogo/nuchat/internal/tui"
	"github.com/diogo/nuchat/internal/widget"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Messages go to the ChatGPT backend, or to the built-in Nushell assistant
with --local. Type 'exit', 'quit', or press Ctrl+C to end the session.
Type /help inside the chat for commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, opts)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, opts *rootOptions) error {
	rt, err := newRuntime(deps, opts, logging.ModeTUI)
	if err != nil {
		return err
	}
	defer rt.close()

	tui.UpdateTheme()

	topts := tui.Options{
		Title:    "ChatGPT Assistant",
		Markdown: render.OptionsFromConfig(rt.cfg),
		Logger:   logging.Component(rt.logger, "tui"),
	}
	if local, ok := rt.provider.(*provider.Local); ok {
		table := local.Table()
		topts.Title = "Nushell Assistant"
		topts.Welcome = table.Welcome()
		topts.Suggestions = table.Suggestions()
	}

	w := rt.newWidget(widget.WithTranscript(transcript.New(transcript.WithTitle(topts.Title))))

	rt.logger.Debug().Str("provider", rt.provider.Name()).Str("model", w.Model()).Msg("starting chat")
	return deps.TUI.RunChat(cmd.Context(), w, topts)
}
