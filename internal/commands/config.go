package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/diogo/nuchat/internal/config"
	"github.com/diogo/nuchat/internal/render"
)

// Value sources shown by the config command
const (
	sourceDefault = "default"
	sourceFile    = "file"
	sourceEnv     = "env"
	sourceFlag    = "flag"
)

// configRow is one resolved setting
type configRow struct {
	key    string
	value  string
	source string
}

// NewConfigCmd creates the config status command
func NewConfigCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	var (
		initFlag   bool
		jsonFlag   bool
		themesFlag bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show the resolved configuration and where each value came from.

Values are resolved from built-in defaults, ~/.nuchat/config.json, a .env file,
NUCHAT_* environment variables and finally command-line flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if themesFlag {
				fmt.Fprintln(out, themesTable())
				return nil
			}

			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}

			if initFlag {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(out, "Config file already exists: %s\n", path)
				} else {
					if err := config.SaveConfigTo(path, config.DefaultConfig()); err != nil {
						return err
					}
					fmt.Fprintln(out, success("Wrote default config to "+path))
				}
			}

			cfg, err := deps.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			resolved := cfg
			opts.apply(&resolved)

			if jsonFlag {
				data, err := json.MarshalIndent(resolved, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprintf(out, "Config file: %s", path)
			if _, err := os.Stat(path); err != nil {
				fmt.Fprint(out, " (not found, using defaults)")
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, configTable(configRows(cfg, resolved, envSet())))

			for _, w := range configWarnings(resolved) {
				fmt.Fprintln(cmd.ErrOrStderr(), warning(w))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&initFlag, "init", false, "Write a default config file if none exists")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the resolved configuration as JSON")
	cmd.Flags().BoolVar(&themesFlag, "themes", false, "List the markdown styles and TUI themes")

	return cmd
}

// envSet returns the NUCHAT_* variables currently overriding the file
func envSet() map[string]bool {
	set := make(map[string]bool)
	for _, key := range config.EnvOverrides() {
		set[key] = true
	}
	if _, ok := os.LookupEnv("GLAMOUR_STYLE"); ok {
		set["GLAMOUR_STYLE"] = true
	}
	return set
}

// configRows lists each setting with its source. loaded is the configuration
// before flags were applied.
func configRows(loaded, resolved config.Config, env map[string]bool) []configRow {
	def := config.DefaultConfig()

	source := func(envKey string, fromFlag, changed bool) string {
		switch {
		case fromFlag:
			return sourceFlag
		case env[envKey]:
			return sourceEnv
		case changed:
			return sourceFile
		default:
			return sourceDefault
		}
	}

	styleSource := source("NUCHAT_MARKDOWN_STYLE", false, loaded.Markdown.Style != def.Markdown.Style)
	if env["GLAMOUR_STYLE"] {
		styleSource = sourceEnv
	}

	return []configRow{
		{"base_url", resolved.BaseURL,
			source("NUCHAT_BASE_URL", resolved.BaseURL != loaded.BaseURL, loaded.BaseURL != def.BaseURL)},
		{"default_model", resolved.DefaultModel,
			source("NUCHAT_MODEL", resolved.DefaultModel != loaded.DefaultModel, loaded.DefaultModel != def.DefaultModel)},
		{"provider", resolved.Provider,
			source("NUCHAT_PROVIDER", resolved.Provider != loaded.Provider, loaded.Provider != def.Provider)},
		{"request_timeout", strconv.Itoa(resolved.RequestTimeout) + "s",
			source("NUCHAT_REQUEST_TIMEOUT", false, loaded.RequestTimeout != def.RequestTimeout)},
		{"status_timeout", strconv.Itoa(resolved.StatusTimeout) + "s",
			source("NUCHAT_STATUS_TIMEOUT", false, loaded.StatusTimeout != def.StatusTimeout)},
		{"typing_delay_min", strconv.Itoa(resolved.TypingDelayMin) + "ms",
			source("NUCHAT_TYPING_DELAY_MIN", false, loaded.TypingDelayMin != def.TypingDelayMin)},
		{"typing_delay_max", strconv.Itoa(resolved.TypingDelayMax) + "ms",
			source("NUCHAT_TYPING_DELAY_MAX", false, loaded.TypingDelayMax != def.TypingDelayMax)},
		{"verbose", strconv.FormatBool(resolved.Verbose),
			source("NUCHAT_VERBOSE", resolved.Verbose != loaded.Verbose, loaded.Verbose != def.Verbose)},
		{"copy_to_clipboard", strconv.FormatBool(resolved.CopyToClipboard),
			source("NUCHAT_COPY_TO_CLIPBOARD", false, loaded.CopyToClipboard != def.CopyToClipboard)},
		{"log_file", resolved.LogFile,
			source("NUCHAT_LOG_FILE", false, loaded.LogFile != def.LogFile)},
		{"tui_theme", resolved.TUITheme,
			source("NUCHAT_TUI_THEME", false, loaded.TUITheme != def.TUITheme)},
		{"markdown.style", resolved.Markdown.Style, styleSource},
	}
}

// configTable renders the rows as a table
func configTable(rows []configRow) string {
	t := newTable("KEY", "VALUE", "SOURCE")
	for _, r := range rows {
		t.Row(r.key, r.value, r.source)
	}
	return t.Render()
}

// configWarnings reports settings that load but will not work as intended
func configWarnings(cfg config.Config) []string {
	var warnings []string
	if err := cfg.Validate(); err != nil {
		warnings = append(warnings, err.Error())
	}
	if style := cfg.Markdown.Style; style != "" && !render.IsBuiltinStyle(style) && !render.IsStyleFile(style) {
		warnings = append(warnings, fmt.Sprintf("markdown style %q is neither a built-in style nor a JSON style file", style))
	}
	if _, ok := render.GetTUIThemeByName(cfg.TUITheme); cfg.TUITheme != "" && !ok {
		warnings = append(warnings, fmt.Sprintf("unknown tui_theme %q, using %s", cfg.TUITheme, render.GetTUITheme().Name))
	}
	return warnings
}

// themesTable lists the selectable markdown styles and TUI themes
func themesTable() string {
	t := newTable("SETTING", "NAME", "DESCRIPTION")
	for _, th := range render.AvailableThemes() {
		t.Row("markdown.style", th.Name, th.Description)
	}
	for _, th := range render.AvailableTUIThemes() {
		t.Row("tui_theme", th.Name, th.Description)
	}
	return t.Render()
}
