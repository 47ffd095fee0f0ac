// Package provider supplies assistant replies for the chat widget.
package provider

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/diogo/nuchat/internal/api"
	"github.com/diogo/nuchat/internal/models"
	"github.com/diogo/nuchat/internal/responder"
)

// Provider produces the assistant reply for one user message
type Provider interface {
	Name() string
	Respond(ctx context.Context, message string) (string, error)
}

// Remote forwards messages to the chat backend
type Remote struct {
	client api.ClientInterface
	logger zerolog.Logger

	mu    sync.RWMutex
	model string
}

// NewRemote creates a remote provider that sends the given model
func NewRemote(client api.ClientInterface, model string, logger zerolog.Logger) *Remote {
	if model == "" {
		model = models.DefaultModel
	}
	return &Remote{client: client, model: model, logger: logger}
}

// Name implements Provider
func (r *Remote) Name() string { return "remote" }

// Model returns the selected model
func (r *Remote) Model() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.model
}

// SetModel changes the model sent with later messages
func (r *Remote) SetModel(model string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model = model
}

// Client returns the backend client
func (r *Remote) Client() api.ClientInterface { return r.client }

// Health probes the backend
func (r *Remote) Health(ctx context.Context) error {
	return r.client.Health(ctx)
}

// Respond implements Provider
func (r *Remote) Respond(ctx context.Context, message string) (string, error) {
	resp, err := r.client.Chat(ctx, message, r.Model())
	if err != nil {
		return "", err
	}
	if resp.HasUsage() {
		r.logger.Debug().
			Str("model", resp.Model).
			Int64("total_tokens", resp.Usage.TotalTokens).
			Msg("usage")
	}
	return resp.Text(), nil
}

// Local answers from the keyword table after a simulated typing delay
type Local struct {
	table *responder.Table
	min   time.Duration
	max   time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// LocalOption configures a Local provider
type LocalOption func(*Local)

// WithDelay sets the delay range. The delay is drawn uniformly from [lo, hi).
func WithDelay(lo, hi time.Duration) LocalOption {
	return func(l *Local) {
		if hi < lo {
			lo, hi = hi, lo
		}
		l.min, l.max = lo, hi
	}
}

// WithSeed makes the delay sequence reproducible
func WithSeed(seed uint64) LocalOption {
	return func(l *Local) {
		l.rnd = rand.New(rand.NewPCG(seed, seed))
	}
}

// NewLocal creates a local provider over table
func NewLocal(table *responder.Table, opts ...LocalOption) *Local {
	l := &Local{
		table: table,
		min:   models.DefaultTypingDelayMin,
		max:   models.DefaultTypingDelayMax,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.rnd == nil {
		l.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return l
}

// Name implements Provider
func (l *Local) Name() string { return "local" }

// Table returns the keyword table
func (l *Local) Table() *responder.Table { return l.table }

// Delay draws the next simulated delay
func (l *Local) Delay() time.Duration {
	if l.max <= l.min {
		return l.min
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.min + time.Duration(l.rnd.Int64N(int64(l.max-l.min)))
}

// Respond waits for the simulated delay and returns the matching response.
// It fails only when ctx ends first.
func (l *Local) Respond(ctx context.Context, message string) (string, error) {
	timer := time.NewTimer(l.Delay())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return l.table.Match(message), nil
	}
}
