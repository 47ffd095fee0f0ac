// Package status tracks the status and error banners of a chat widget.
package status

import (
	"sync"
	"time"

	"github.com/diogo/nuchat/internal/models"
)

// Kind is the style of a status banner
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
)

// Banner is a visible status message
type Banner struct {
	Text string
	Kind Kind
	Gen  uint64
}

// Reporter holds at most one status banner and one error banner.
// A new banner replaces the current one; nothing is queued.
type Reporter struct {
	mu        sync.Mutex
	status    Banner
	hasStatus bool
	errText   string
	hasError  bool
	gen       uint64
	timeout   time.Duration
	autoHide  bool
}

// Option configures a Reporter
type Option func(*Reporter)

// WithManualExpiry disables the internal timer. The host calls Expire itself,
// e.g. from a tea.Tick.
func WithManualExpiry() Option {
	return func(r *Reporter) {
		r.autoHide = false
	}
}

// New creates a Reporter whose status banners hide after timeout
func New(timeout time.Duration, opts ...Option) *Reporter {
	if timeout <= 0 {
		timeout = models.DefaultStatusTimeout
	}
	r := &Reporter{timeout: timeout, autoHide: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Timeout returns how long a status banner stays visible
func (r *Reporter) Timeout() time.Duration {
	return r.timeout
}

// ShowStatus replaces the status banner and returns its generation
func (r *Reporter) ShowStatus(text string, kind Kind) uint64 {
	if kind == "" {
		kind = KindInfo
	}

	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.status = Banner{Text: text, Kind: kind, Gen: gen}
	r.hasStatus = true
	auto := r.autoHide
	r.mu.Unlock()

	if auto {
		time.AfterFunc(r.timeout, func() { r.Expire(gen) })
	}
	return gen
}

// Expire hides the status banner only if gen is still the current one.
// It reports whether anything was hidden.
func (r *Reporter) Expire(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hasStatus || r.status.Gen != gen {
		return false
	}
	r.hasStatus = false
	return true
}

// HideStatus hides the status banner
func (r *Reporter) HideStatus() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hasStatus = false
}

// ShowError replaces the error banner. It stays until HideError.
func (r *Reporter) ShowError(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errText = text
	r.hasError = true
}

// HideError hides the error banner
func (r *Reporter) HideError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hasError = false
}

// Status returns the visible status banner
func (r *Reporter) Status() (Banner, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.hasStatus
}

// Error returns the visible error text
func (r *Reporter) Error() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errText, r.hasError
}
