package transcript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/nuchat/internal/models"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		at = at.Add(time.Second)
		return at
	}
}

func TestAppend_SeqAndOrder(t *testing.T) {
	tr := New(WithClock(fixedClock()))

	first := tr.Append(models.RoleUser, "hello")
	second := tr.Append(models.RoleAssistant, "hi there")

	assert.Equal(t, 0, first.Seq)
	assert.Equal(t, 1, second.Seq)
	assert.True(t, second.At.After(first.At))
	assert.NotEqual(t, first.ID, second.ID)

	msgs := tr.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Text)
	assert.Equal(t, "hi there", msgs[1].Text)

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, second, last)
}

func TestMessages_ReturnsCopy(t *testing.T) {
	tr := New()
	tr.Append(models.RoleUser, "original")

	msgs := tr.Messages()
	msgs[0].Text = "changed"

	assert.Equal(t, "original", tr.Messages()[0].Text)
}

func TestAppend_Concurrent(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Append(models.RoleUser, "x")
		}()
	}
	wg.Wait()

	for i, m := range tr.Messages() {
		assert.Equal(t, i, m.Seq)
	}
	assert.Equal(t, 50, tr.Len())
}

func TestClear(t *testing.T) {
	tr := New()
	tr.Append(models.RoleUser, "x")
	tr.Clear()

	assert.Equal(t, 0, tr.Len())
	_, ok := tr.Last()
	assert.False(t, ok)

	assert.Equal(t, 0, tr.Append(models.RoleUser, "y").Seq)
}

func sample() *Transcript {
	tr := New(WithClock(fixedClock()), WithTitle("Nushell help"))
	tr.SetModel(models.ModelGPT4)
	tr.Append(models.RoleUser, "How do I filter files larger than 1MB? <now>")
	tr.Append(models.RoleAssistant, "Use `where`:\n\n```\nls | where size > 1mb\n```")
	return tr
}

func TestExportToMarkdown(t *testing.T) {
	md := sample().ExportToMarkdown()

	assert.True(t, strings.HasPrefix(md, "# Nushell help\n"))
	assert.Contains(t, md, "**Model:** gpt-4")
	assert.Contains(t, md, "**Messages:** 2")
	assert.Contains(t, md, "## You (10:00:02)")
	assert.Contains(t, md, "## Assistant (10:00:03)")
	assert.Contains(t, md, "ls | where size > 1mb")
	assert.Equal(t, 2, strings.Count(md, "\n---\n"))
}

func TestExportToJSON(t *testing.T) {
	data, err := sample().ExportToJSON()
	require.NoError(t, err)

	var decoded struct {
		Title    string           `json:"title"`
		Model    string           `json:"model"`
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Nushell help", decoded.Title)
	assert.Equal(t, "gpt-4", decoded.Model)
	require.Len(t, decoded.Messages, 2)
	assert.Equal(t, models.RoleAssistant, decoded.Messages[1].Role)
	assert.Equal(t, 1, decoded.Messages[1].Seq)
}

func TestExportToHTML(t *testing.T) {
	page := sample().ExportToHTML()

	assert.Contains(t, page, "<title>Nushell help</title>")
	assert.Contains(t, page, `<div class="message user-message">How do I filter files larger than 1MB? &lt;now&gt;</div>`)
	assert.Contains(t, page, "<pre><code>ls | where size &gt; 1mb</code></pre>")
	assert.Contains(t, page, "Use <code>where</code>:")
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    ExportFormat
		wantErr bool
	}{
		{"chat.md", ExportFormatMarkdown, false},
		{"chat.MARKDOWN", ExportFormatMarkdown, false},
		{"out/chat.json", ExportFormatJSON, false},
		{"chat.html", ExportFormatHTML, false},
		{"chat.htm", ExportFormatHTML, false},
		{"chat.txt", "", true},
		{"chat", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	tr := sample()

	for _, name := range []string{"t.md", "t.json", "t.html"} {
		path := filepath.Join(dir, name)
		require.NoError(t, tr.WriteFile(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Nushell help")
	}

	assert.Error(t, tr.WriteFile(filepath.Join(dir, "t.pdf")))
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := New().Export("yaml")
	assert.Error(t, err)
}
