// Package responder holds the keyword table behind the local assistant.
package responder

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/diogo/nuchat/internal/models"
)

//go:embed responses.yaml
var embeddedResponses []byte

// file is the on-disk layout of responses.yaml
type file struct {
	Welcome     string                 `yaml:"welcome"`
	Suggestions []string               `yaml:"suggestions"`
	Entries     []models.ResponseEntry `yaml:"entries"`
	Default     string                 `yaml:"default"`
}

// Table is an ordered, read-only keyword table
type Table struct {
	entries     []models.ResponseEntry
	fallback    string
	welcome     string
	suggestions []string
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := Load(embeddedResponses)
	if err != nil {
		panic(fmt.Sprintf("responder: embedded table is invalid: %v", err))
	}
	return t
})

// Default returns the table compiled into the binary
func Default() *Table {
	return defaultTable()
}

// Load parses a YAML table. Keywords are lower-cased; order is preserved.
func Load(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse response table: %w", err)
	}
	if strings.TrimSpace(f.Default) == "" {
		return nil, fmt.Errorf("response table has no default response")
	}

	entries := make([]models.ResponseEntry, 0, len(f.Entries))
	for i, e := range f.Entries {
		keyword := strings.ToLower(strings.TrimSpace(e.Keyword))
		if keyword == "" {
			return nil, fmt.Errorf("entry %d has an empty keyword", i)
		}
		if strings.TrimSpace(e.Response) == "" {
			return nil, fmt.Errorf("entry %q has an empty response", keyword)
		}
		entries = append(entries, models.ResponseEntry{Keyword: keyword, Response: e.Response})
	}

	return &Table{
		entries:     entries,
		fallback:    f.Default,
		welcome:     f.Welcome,
		suggestions: f.Suggestions,
	}, nil
}

// Match returns the response of the first entry whose keyword occurs in
// message, ignoring case, or the default response.
func (t *Table) Match(message string) string {
	if e, ok := t.MatchEntry(message); ok {
		return e.Response
	}
	return t.fallback
}

// MatchEntry returns the first matching entry
func (t *Table) MatchEntry(message string) (models.ResponseEntry, bool) {
	lower := strings.ToLower(message)
	for _, e := range t.entries {
		if strings.Contains(lower, e.Keyword) {
			return e, true
		}
	}
	return models.ResponseEntry{}, false
}

// Entries returns a copy of the entries in match order
func (t *Table) Entries() []models.ResponseEntry {
	out := make([]models.ResponseEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Fallback returns the default response
func (t *Table) Fallback() string { return t.fallback }

// Welcome returns the greeting shown when the local widget opens
func (t *Table) Welcome() string { return t.welcome }

// Suggestions returns a copy of the suggested questions
func (t *Table) Suggestions() []string {
	out := make([]string, len(t.suggestions))
	copy(out, t.suggestions)
	return out
}
