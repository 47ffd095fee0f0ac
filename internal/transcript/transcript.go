// Package transcript keeps the in-memory message log of a chat widget.
package transcript

import (
	"sync"
	"time"

	"github.com/diogo/nuchat/internal/models"
)

// Transcript is an append-only list of messages. It is never persisted
// unless the user exports it.
type Transcript struct {
	mu       sync.RWMutex
	messages []models.Message
	now      func() time.Time
	title    string
	model    string
	started  time.Time
}

// Option configures a Transcript
type Option func(*Transcript)

// WithClock sets the time source for message timestamps
func WithClock(now func() time.Time) Option {
	return func(t *Transcript) {
		t.now = now
	}
}

// WithTitle sets the export title
func WithTitle(title string) Option {
	return func(t *Transcript) {
		t.title = title
	}
}

// New creates an empty transcript
func New(opts ...Option) *Transcript {
	t := &Transcript{now: time.Now, title: "nuchat conversation"}
	for _, opt := range opts {
		opt(t)
	}
	t.started = t.now()
	return t
}

// Append adds a message and returns it with its sequence number set
func (t *Transcript) Append(role models.Role, text string) models.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg := models.NewMessage(role, text, t.now())
	msg.Seq = len(t.messages)
	t.messages = append(t.messages, msg)
	return msg
}

// Messages returns a copy of the messages in append order
func (t *Transcript) Messages() []models.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Last returns the newest message
func (t *Transcript) Last() (models.Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return models.Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Clear drops every message
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
	t.started = t.now()
}

// SetModel records the model named in exports
func (t *Transcript) SetModel(model string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.model = model
}

// Title returns the export title
func (t *Transcript) Title() string { return t.title }
