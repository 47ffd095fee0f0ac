// Package widget implements the chat widget: input handling, the busy flag,
// message rendering and the status/error banners around a response provider.
package widget

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apierrors "github.com/diogo/nuchat/internal/errors"
	"github.com/diogo/nuchat/internal/models"
	"github.com/diogo/nuchat/internal/provider"
	"github.com/diogo/nuchat/internal/status"
	"github.com/diogo/nuchat/internal/transcript"
)

// Surface displays appended messages, e.g. render.Log
type Surface interface {
	Append(msg models.Message)
}

type clearer interface {
	Clear()
}

// HealthChecker is implemented by providers that can probe their backend
type HealthChecker interface {
	Health(ctx context.Context) error
}

// ModelSetter is implemented by providers with a selectable model
type ModelSetter interface {
	Model() string
	SetModel(model string)
}

// Widget is one chat instance. At most one response is in flight at a time.
type Widget struct {
	provider   provider.Provider
	transcript *transcript.Transcript
	reporter   *status.Reporter
	surfaces   []Surface
	logger     zerolog.Logger
	now        func() time.Time

	mu   sync.Mutex
	busy bool
}

// Option configures a Widget
type Option func(*Widget)

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}

// WithReporter sets the status/error reporter
func WithReporter(r *status.Reporter) Option {
	return func(w *Widget) {
		w.reporter = r
	}
}

// WithTranscript sets the message log
func WithTranscript(t *transcript.Transcript) Option {
	return func(w *Widget) {
		w.transcript = t
	}
}

// WithSurface adds a surface that receives every appended message
func WithSurface(s Surface) Option {
	return func(w *Widget) {
		w.surfaces = append(w.surfaces, s)
	}
}

// WithClock sets the time source used for latency logging
func WithClock(now func() time.Time) Option {
	return func(w *Widget) {
		w.now = now
	}
}

// New creates a widget around p
func New(p provider.Provider, opts ...Option) *Widget {
	w := &Widget{
		provider: p,
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.transcript == nil {
		w.transcript = transcript.New(transcript.WithClock(w.now))
	}
	if w.reporter == nil {
		w.reporter = status.New(models.DefaultStatusTimeout)
	}
	if ms, ok := p.(ModelSetter); ok {
		w.transcript.SetModel(ms.Model())
	}
	return w
}

// Provider returns the response provider
func (w *Widget) Provider() provider.Provider { return w.provider }

// Transcript returns the message log
func (w *Widget) Transcript() *transcript.Transcript { return w.transcript }

// Reporter returns the status/error reporter
func (w *Widget) Reporter() *status.Reporter { return w.reporter }

// Busy reports whether a response is in flight
func (w *Widget) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Begin validates raw input and starts a response operation: it hides the
// error banner, appends the user message and sets the busy flag.
// Empty input and input while busy are rejected with a ValidationError and
// change nothing.
func (w *Widget) Begin(raw string) (string, error) {
	prompt := strings.TrimSpace(raw)

	w.mu.Lock()
	defer w.mu.Unlock()

	if prompt == "" {
		return "", apierrors.NewValidationError(apierrors.ErrEmptyMessage)
	}
	if w.busy {
		w.logger.Debug().Msg("submission ignored while busy")
		return "", apierrors.NewValidationError(apierrors.ErrBusy)
	}

	w.reporter.HideError()
	w.appendLocked(models.RoleUser, prompt)
	w.busy = true

	w.logger.Debug().Str("provider", w.provider.Name()).Int("length", len(prompt)).Msg("submitted")
	return prompt, nil
}

// Respond asks the provider for a reply. It does not touch widget state and
// may run on any goroutine.
func (w *Widget) Respond(ctx context.Context, prompt string) (string, error) {
	start := w.now()
	text, err := w.provider.Respond(ctx, prompt)
	latency := w.now().Sub(start)

	if err != nil {
		w.logger.Warn().Err(err).Str("provider", w.provider.Name()).Dur("latency", latency).Msg("response failed")
		return "", err
	}
	w.logger.Debug().Str("provider", w.provider.Name()).Dur("latency", latency).Msg("response received")
	return text, nil
}

// Complete finishes the operation started by Begin. On failure the error
// banner is shown and the fallback reply is appended instead of text.
// The busy flag is always cleared.
func (w *Widget) Complete(text string, err error) models.Message {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.reporter.ShowError(apierrors.UserMessage(err, models.GenericNetworkFailure))
		text = models.FallbackReply
	}
	msg := w.appendLocked(models.RoleAssistant, text)
	w.busy = false
	return msg
}

// Submit runs a whole exchange synchronously. Rejected input returns a
// ValidationError; a provider failure is handled as in Complete and then
// returned.
func (w *Widget) Submit(ctx context.Context, raw string) error {
	prompt, err := w.Begin(raw)
	if err != nil {
		return err
	}
	text, err := w.Respond(ctx, prompt)
	w.Complete(text, err)
	return err
}

// Welcome appends a greeting from the assistant
func (w *Widget) Welcome(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.appendLocked(models.RoleAssistant, text)
}

// Clear empties the transcript and every surface that supports it
func (w *Widget) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.transcript.Clear()
	for _, s := range w.surfaces {
		if c, ok := s.(clearer); ok {
			c.Clear()
		}
	}
}

// CheckHealth probes the backend when the provider supports it and shows
// the matching banner. Providers without a backend are always healthy.
func (w *Widget) CheckHealth(ctx context.Context) error {
	hc, ok := w.provider.(HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.Health(ctx); err != nil {
		w.logger.Warn().Err(err).Msg("health check failed")
		w.reporter.ShowError(models.HealthUnreachable)
		return err
	}
	w.reporter.HideError()
	w.reporter.ShowStatus(models.HealthConnected, status.KindSuccess)
	return nil
}

// Model returns the selected model, or "" when the provider has none
func (w *Widget) Model() string {
	if ms, ok := w.provider.(ModelSetter); ok {
		return ms.Model()
	}
	return ""
}

// SetModel selects the model sent with later messages.
// It reports false when the provider has no model.
func (w *Widget) SetModel(model string) bool {
	ms, ok := w.provider.(ModelSetter)
	if !ok {
		return false
	}
	ms.SetModel(model)
	w.transcript.SetModel(model)
	return true
}

func (w *Widget) appendLocked(role models.Role, text string) models.Message {
	msg := w.transcript.Append(role, text)
	for _, s := range w.surfaces {
		s.Append(msg)
	}
	return msg
}
