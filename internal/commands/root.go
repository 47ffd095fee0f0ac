// Package commands provides CLI commands for nuchat.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/nuchat/internal/config"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootOptions holds the global and one-shot flags
type rootOptions struct {
	model   string
	baseURL string
	local   bool
	verbose bool

	output  string
	file    string
	html    bool
	raw     bool
	version bool
}

// apply layers the command-line flags over the resolved configuration
func (o *rootOptions) apply(cfg *config.Config) {
	if o.model != "" {
		cfg.DefaultModel = o.model
	}
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.local {
		cfg.Provider = config.ProviderLocal
	}
	if o.verbose {
		cfg.Verbose = true
	}
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd creates the nuchat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "nuchat [prompt]",
		Short: "Chat assistant for your terminal",
		Long: `nuchat is a chat assistant for the terminal. It talks to a ChatGPT
backend over HTTP, or answers Nushell questions from a built-in keyword
table with --local.

Examples:
  nuchat chat                           Start interactive chat
  nuchat chat --local                   Chat with the offline Nushell assistant
  nuchat "What is Go?"                  Send a single query
  nuchat -f prompt.md                   Read prompt from file
  cat prompt.md | nuchat                Read prompt from stdin
  nuchat "Hello" -o response.md         Save response to file
  nuchat health                         Check the backend`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprintf(cmd.OutOrStdout(), "nuchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if opts.file != "" {
				data, err := os.ReadFile(opts.file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return runQuery(cmd, deps, opts, string(data))
			}

			piped, err := readPiped(deps.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			if piped != "" {
				return runQuery(cmd, deps, opts, piped)
			}

			if len(args) > 0 {
				return runQuery(cmd, deps, opts, args[0])
			}

			// No input - show help
			return cmd.Help()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.model, "model", "m", "", "Model to use (e.g., gpt-4, gpt-3.5-turbo)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Backend base URL (default http://localhost:5000/api)")
	cmd.PersistentFlags().BoolVar(&opts.local, "local", false, "Use the built-in Nushell assistant instead of the backend")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save response to file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolVar(&opts.html, "html", false, "Print the HTML rendering of the exchange")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print only the reply text")
	cmd.Flags().BoolVarP(&opts.version, "version", "v", false, "Show version and exit")

	// Add subcommands
	cmd.AddCommand(NewChatCmd(deps, opts))
	cmd.AddCommand(NewHealthCmd(deps, opts))
	cmd.AddCommand(NewModelsCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps, opts))
	cmd.AddCommand(NewResponsesCmd(deps))

	return cmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// readPiped returns the prompt piped on r. A terminal yields "".
func readPiped(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", nil
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
