package transcript

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/nuchat/internal/models"
	"github.com/diogo/nuchat/internal/render"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
	ExportFormatHTML     ExportFormat = "html"
)

// FormatFromPath picks the export format from a file extension
func FormatFromPath(path string) (ExportFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return ExportFormatMarkdown, nil
	case ".json":
		return ExportFormatJSON, nil
	case ".html", ".htm":
		return ExportFormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use .md, .json or .html)", filepath.Ext(path))
	}
}

// ExportToMarkdown exports the transcript to Markdown
func (t *Transcript) ExportToMarkdown() string {
	messages := t.Messages()
	t.mu.RLock()
	model, started := t.model, t.started
	t.mu.RUnlock()

	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(t.title)
	sb.WriteString("\n\n")

	if model != "" {
		sb.WriteString("**Model:** ")
		sb.WriteString(model)
		sb.WriteString("\n")
	}
	sb.WriteString("**Started:** ")
	sb.WriteString(started.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d", len(messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range messages {
		sb.WriteString("## ")
		sb.WriteString(msg.Role.Label())
		if !msg.At.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.At.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportToJSON exports the transcript to JSON
func (t *Transcript) ExportToJSON() ([]byte, error) {
	t.mu.RLock()
	export := struct {
		Title     string           `json:"title"`
		Model     string           `json:"model,omitempty"`
		StartedAt time.Time        `json:"started_at"`
		Messages  []models.Message `json:"messages"`
	}{
		Title:     t.title,
		Model:     t.model,
		StartedAt: t.started,
	}
	t.mu.RUnlock()
	export.Messages = t.Messages()

	return json.MarshalIndent(export, "", "  ")
}

// ExportToHTML exports the transcript as a standalone HTML page
func (t *Transcript) ExportToHTML() string {
	log := render.NewLog(0)
	for _, msg := range t.Messages() {
		log.Append(msg)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	sb.WriteString(html.EscapeString(t.title))
	sb.WriteString("</title>\n<style>\n")
	sb.WriteString(pageStyle)
	sb.WriteString("</style>\n</head>\n<body>\n")
	sb.WriteString(log.HTML())
	sb.WriteString("\n</body>\n</html>\n")
	return sb.String()
}

// Export renders the transcript in the given format
func (t *Transcript) Export(format ExportFormat) ([]byte, error) {
	switch format {
	case ExportFormatMarkdown:
		return []byte(t.ExportToMarkdown()), nil
	case ExportFormatJSON:
		return t.ExportToJSON()
	case ExportFormatHTML:
		return []byte(t.ExportToHTML()), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteFile exports to path, choosing the format from its extension
func (t *Transcript) WriteFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := t.Export(format)
	if err != nil {
		return fmt.Errorf("failed to export transcript: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

const pageStyle = `body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; }
.message { padding: 0.75rem 1rem; margin: 0.5rem 0; border-radius: 0.5rem; white-space: normal; }
.user-message { background: #e8f0fe; white-space: pre-wrap; }
.assistant-message { background: #f4f4f5; }
pre { background: #1a1b26; color: #c0caf5; padding: 0.75rem; overflow-x: auto; }
`
