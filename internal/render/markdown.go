// Package render turns chat messages into terminal and HTML output.
package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// Options configures the terminal markdown renderer.
type Options struct {
	// Width is the word-wrap column
	Width int

	// Style is a built-in glamour style name or a JSON style path
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the options used when no configuration is loaded.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            ThemeDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns a copy of o wrapping at width. Widths below 20 are raised to 20.
func (o Options) WithWidth(width int) Options {
	o.Width = max(width, minWidth)
	return o
}

// WithStyle returns a copy of o using style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

const minWidth = 20

// Markdown renders content for the terminal with a pooled renderer.
func Markdown(content string, opts Options) (string, error) {
	r, err := renderers.get(opts)
	if err != nil {
		return "", err
	}
	defer renderers.put(opts, r)

	return r.Render(content)
}

// pool hands out glamour renderers per distinct Options value.
// A TermRenderer must not render concurrently, so each caller borrows its own.
type pool struct {
	mu    sync.Mutex
	pools map[Options]*sync.Pool
}

var renderers = &pool{pools: make(map[Options]*sync.Pool)}

func (p *pool) forOptions(opts Options) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	sp, ok := p.pools[opts]
	if !ok {
		sp = &sync.Pool{}
		p.pools[opts] = sp
	}
	return sp
}

func (p *pool) get(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := p.forOptions(opts).Get().(*glamour.TermRenderer); ok {
		return r, nil
	}
	return newRenderer(opts)
}

func (p *pool) put(opts Options, r *glamour.TermRenderer) {
	p.forOptions(opts).Put(r)
}

func (p *pool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pools)
}

func (p *pool) reset() {
	p.mu.Lock()
	p.pools = make(map[Options]*sync.Pool)
	p.mu.Unlock()
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	ro := []glamour.TermRendererOption{
		glamour.WithStylePath(ResolveStyle(opts.Style)),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		ro = append(ro, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ro = append(ro, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ro...)
}
