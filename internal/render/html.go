package render

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/diogo/nuchat/internal/models"
)

var (
	fencedCodePattern = regexp.MustCompile("```(\\w*)\\n?([\\s\\S]*?)```")
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	boldPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	placeholderRe     = regexp.MustCompile(`\x00(\d+)\x00`)
)

// HTML converts assistant markdown to HTML in four ordered passes:
// fenced code blocks, inline code, bold, then line breaks.
// Fenced blocks are cut out first and restored last, so nothing inside
// them is reinterpreted. All text is HTML-escaped.
func HTML(text string) string {
	var blocks []string
	text = fencedCodePattern.ReplaceAllStringFunc(text, func(m string) string {
		code := fencedCodePattern.FindStringSubmatch(m)[2]
		blocks = append(blocks, "<pre><code>"+html.EscapeString(strings.TrimSpace(code))+"</code></pre>")
		return fmt.Sprintf("\x00%d\x00", len(blocks)-1)
	})

	text = html.EscapeString(text)
	text = inlineCodePattern.ReplaceAllString(text, "<code>$1</code>")
	text = boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	text = strings.ReplaceAll(text, "\n", "<br>")

	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		i, err := strconv.Atoi(placeholderRe.FindStringSubmatch(m)[1])
		if err != nil || i >= len(blocks) {
			return m
		}
		return blocks[i]
	})
}

// MessageHTML renders one message bubble. User text is escaped verbatim;
// assistant text goes through HTML.
func MessageHTML(msg models.Message) string {
	body := html.EscapeString(msg.Text)
	if !msg.IsUser() {
		body = HTML(msg.Text)
	}
	return fmt.Sprintf(`<div class="message %s-message">%s</div>`, msg.Role, body)
}
