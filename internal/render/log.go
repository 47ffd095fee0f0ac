package render

import (
	"strings"
	"sync"

	"github.com/diogo/nuchat/internal/models"
)

// Log is an HTML message log with a scroll position.
// Heights are measured in rendered lines.
type Log struct {
	mu        sync.Mutex
	bubbles   []string
	lines     int
	viewport  int
	scrollTop int
}

// NewLog creates a log whose visible area is viewport lines tall
func NewLog(viewport int) *Log {
	if viewport < 1 {
		viewport = 1
	}
	return &Log{viewport: viewport}
}

// Append renders msg as a bubble and scrolls to the bottom
func (l *Log) Append(msg models.Message) {
	bubble := MessageHTML(msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.bubbles = append(l.bubbles, bubble)
	l.lines += bubbleLines(bubble)
	l.scrollTop = l.scrollHeightLocked()
}

// Clear removes every bubble
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bubbles = nil
	l.lines = 0
	l.scrollTop = 0
}

// Len returns the number of bubbles
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.bubbles)
}

// Bubbles returns the rendered bubbles in append order
func (l *Log) Bubbles() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.bubbles))
	copy(out, l.bubbles)
	return out
}

// ScrollTop returns the current scroll offset
func (l *Log) ScrollTop() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scrollTop
}

// ScrollHeight returns the maximum scroll offset
func (l *Log) ScrollHeight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scrollHeightLocked()
}

// ScrollTo moves the scroll offset, clamped to [0, ScrollHeight]
func (l *Log) ScrollTo(offset int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scrollTop = max(0, min(offset, l.scrollHeightLocked()))
}

// HTML returns the log as a single container element
func (l *Log) HTML() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var b strings.Builder
	b.WriteString(`<div class="messages">`)
	for _, bubble := range l.bubbles {
		b.WriteString("\n")
		b.WriteString(bubble)
	}
	b.WriteString("\n</div>")
	return b.String()
}

func (l *Log) scrollHeightLocked() int {
	return max(0, l.lines-l.viewport)
}

func bubbleLines(bubble string) int {
	return 1 + strings.Count(bubble, "<br>") + strings.Count(bubble, "\n")
}
