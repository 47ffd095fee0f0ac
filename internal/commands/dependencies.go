package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/diogo/nuchat/internal/api"
	"github.com/diogo/nuchat/internal/config"
	"github.com/diogo/nuchat/internal/logging"
	"github.com/diogo/nuchat/internal/provider"
	"github.com/diogo/nuchat/internal/render"
	"github.com/diogo/nuchat/internal/responder"
	"github.com/diogo/nuchat/internal/status"
	"github.com/diogo/nuchat/internal/tui"
	"github.com/diogo/nuchat/internal/widget"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, w *widget.Widget, opts tui.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client is the backend client. When nil one is built from the configuration.
	Client api.ClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	// LoadConfig resolves the configuration.
	LoadConfig func() (config.Config, error)

	// Stdin is read when a prompt is piped in.
	Stdin io.Reader

	// Clipboard receives the reply when copy_to_clipboard is set.
	Clipboard func(text string) error

	// IsTTY reports whether stdout is a terminal.
	IsTTY func() bool

	// LogWriter overrides the log destination.
	LogWriter io.Writer
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, w *widget.Widget, opts tui.Options) error {
	return tui.RunChat(ctx, w, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return (&Dependencies{}).withDefaults()
}

// withDefaults fills every unset dependency
func (d *Dependencies) withDefaults() *Dependencies {
	if d == nil {
		d = &Dependencies{}
	}
	if d.TUI == nil {
		d.TUI = &DefaultTUI{}
	}
	if d.LoadConfig == nil {
		d.LoadConfig = config.LoadConfig
	}
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.Clipboard == nil {
		d.Clipboard = clipboard.WriteAll
	}
	if d.IsTTY == nil {
		d.IsTTY = isStdoutTTY
	}
	return d
}

// runtime is the per-invocation state shared by the commands
type runtime struct {
	deps     *Dependencies
	cfg      config.Config
	logger   zerolog.Logger
	closeLog func() error
	provider provider.Provider
}

// newRuntime resolves configuration and flags, builds the logger and the
// response provider selected by the configuration.
func newRuntime(deps *Dependencies, opts *rootOptions, mode logging.Mode) (*runtime, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Verbose: cfg.Verbose,
		LogFile: cfg.LogFile,
		Mode:    mode,
		Writer:  deps.LogWriter,
	})
	if err != nil {
		return nil, err
	}

	rt := &runtime{deps: deps, cfg: cfg, logger: logger, closeLog: closeLog}

	if cfg.TUITheme != "" && !render.SetTUITheme(cfg.TUITheme) {
		logger.Warn().Str("theme", cfg.TUITheme).Msg("unknown theme, keeping default")
	}

	if cfg.IsLocal() {
		lo, hi := cfg.TypingDelay()
		rt.provider = provider.NewLocal(responder.Default(), provider.WithDelay(lo, hi))
		return rt, nil
	}

	client, err := rt.client()
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	rt.provider = provider.NewRemote(client, cfg.DefaultModel, logging.Component(logger, "provider"))
	return rt, nil
}

// client returns the injected backend client or builds one from the configuration
func (rt *runtime) client() (api.ClientInterface, error) {
	if rt.deps.Client != nil {
		return rt.deps.Client, nil
	}
	c, err := api.NewClient(rt.cfg.BaseURL,
		api.WithTimeout(rt.cfg.RequestTimeoutDuration()),
		api.WithLogger(logging.Component(rt.logger, "api")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return c, nil
}

// newWidget creates a widget around the runtime provider. Banners are
// expired by the caller, never by a background timer.
func (rt *runtime) newWidget(opts ...widget.Option) *widget.Widget {
	base := []widget.Option{
		widget.WithLogger(logging.Component(rt.logger, "widget")),
		widget.WithReporter(status.New(rt.cfg.StatusTimeoutDuration(), status.WithManualExpiry())),
	}
	return widget.New(rt.provider, append(base, opts...)...)
}

func (rt *runtime) close() {
	if err := rt.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
	}
}
