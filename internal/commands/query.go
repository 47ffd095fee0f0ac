package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/nuchat/internal/logging"
	"github.com/diogo/nuchat/internal/render"
	"github.com/diogo/nuchat/internal/tui"
	"github.com/diogo/nuchat/internal/widget"
)

// runQuery sends one prompt through a widget and prints the reply.
// Decoration is skipped with --raw or when stdout is not a terminal.
func runQuery(cmd *cobra.Command, deps *Dependencies, opts *rootOptions, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	rt, err := newRuntime(deps, opts, logging.ModeCLI)
	if err != nil {
		return err
	}
	defer rt.close()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	rawOutput := opts.raw || !deps.IsTTY()

	surface := render.NewLog(0)
	w := rt.newWidget(widget.WithSurface(surface))

	rt.logger.Debug().
		Str("provider", rt.provider.Name()).
		Str("model", w.Model()).
		Msg("one-shot query")

	var spin *spinner
	if !rawOutput {
		spin = newSpinner(errOut, "Assistant is typing")
		spin.start()
	}

	if err := w.Submit(cmd.Context(), prompt); err != nil {
		if !rawOutput {
			spin.stopWithError()
			fmt.Fprintln(errOut, formatErrorMessage(err, "Request failed"))
		}
		return fmt.Errorf("request failed: %w", err)
	}
	if !rawOutput {
		spin.stopWithSuccess("Done")
	}

	reply, _ := w.Transcript().Last()
	text := reply.Text
	if opts.html {
		text = surface.HTML()
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !rawOutput {
			fmt.Fprintln(errOut, success("Response saved to "+opts.output))
		}
		return nil
	}

	if rawOutput || opts.html {
		fmt.Fprint(out, text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(out)
		}
		return nil
	}

	if rt.cfg.CopyToClipboard {
		if err := deps.Clipboard(text); err != nil {
			fmt.Fprintln(errOut, warning(fmt.Sprintf("Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(errOut, success("Copied to clipboard"))
		}
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	st := newCLIStyles(render.GetTUITheme())
	fmt.Fprintln(out, st.assistantLabel.Render("✦ "+reply.Role.Label()))

	rendered, err := render.Markdown(text, render.OptionsFromConfig(rt.cfg).WithWidth(contentWidth))
	if err != nil {
		rendered = text
	}
	rendered = strings.TrimRight(rendered, "\n")

	fmt.Fprintln(out, st.assistantBubble.Width(bubbleWidth).Render(rendered))
	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}
	return tui.FormatError(fmt.Errorf("%s: %w", context, err))
}

// truncate shortens s to maxLen runes, adding an ellipsis
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
