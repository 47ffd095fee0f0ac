package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/nuchat/internal/models"
	"github.com/diogo/nuchat/internal/responder"
)

func TestChatCommand(t *testing.T) {
	cmd := NewChatCmd(testDeps(&fakeClient{}, fastConfig()), &rootOptions{})

	if cmd.Use != "chat" {
		t.Errorf("Expected use 'chat', got %s", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("descriptions should not be empty")
	}
	if err := cmd.Args(cmd, []string{"extra"}); err == nil {
		t.Error("chat should reject positional arguments")
	}
}

func TestChat_Remote(t *testing.T) {
	deps := testDeps(&fakeClient{}, fastConfig())
	fake := deps.TUI.(*fakeTUI)

	_, _, err := execute(t, deps, "chat", "-m", models.ModelGPT4Turbo)
	require.NoError(t, err)

	require.True(t, fake.called)
	assert.Equal(t, "remote", fake.widget.Provider().Name())
	assert.Equal(t, models.ModelGPT4Turbo, fake.widget.Model())
	assert.Equal(t, "ChatGPT Assistant", fake.opts.Title)
	assert.Equal(t, "ChatGPT Assistant", fake.widget.Transcript().Title())
	assert.Empty(t, fake.opts.Welcome)
	assert.Empty(t, fake.opts.Suggestions)
	assert.Equal(t, "dark", fake.opts.Markdown.Style)
}

func TestChat_Local(t *testing.T) {
	deps := testDeps(&fakeClient{}, fastConfig())
	fake := deps.TUI.(*fakeTUI)

	_, _, err := execute(t, deps, "chat", "--local")
	require.NoError(t, err)

	require.True(t, fake.called)
	table := responder.Default()
	assert.Equal(t, "local", fake.widget.Provider().Name())
	assert.Equal(t, "Nushell Assistant", fake.opts.Title)
	assert.Equal(t, table.Welcome(), fake.opts.Welcome)
	assert.Equal(t, table.Suggestions(), fake.opts.Suggestions)
}

func TestChat_TUIErrorIsReturned(t *testing.T) {
	deps := testDeps(&fakeClient{}, fastConfig())
	deps.TUI.(*fakeTUI).err = errors.New("no tty")

	_, _, err := execute(t, deps, "chat")
	assert.ErrorContains(t, err, "no tty")
}
