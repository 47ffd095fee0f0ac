package commands

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/nuchat/internal/config"
	apierrors "github.com/diogo/nuchat/internal/errors"
	"github.com/diogo/nuchat/internal/models"
)

func TestHealth(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		out, _, err := execute(t, testDeps(&fakeClient{}, fastConfig()), "health")
		require.NoError(t, err)
		assert.Contains(t, out, models.HealthConnected)
		assert.Contains(t, out, models.DefaultBaseURL)
	})

	t.Run("unreachable", func(t *testing.T) {
		client := &fakeClient{healthErr: errors.Join(apierrors.ErrUnhealthy, errors.New("refused"))}
		_, errOut, err := execute(t, testDeps(client, fastConfig()), "health")
		require.Error(t, err)
		assert.ErrorIs(t, err, apierrors.ErrUnhealthy)
		assert.Contains(t, errOut, models.HealthUnreachable)
	})

	t.Run("local", func(t *testing.T) {
		out, _, err := execute(t, testDeps(&fakeClient{healthErr: errors.New("unused")}, fastConfig()), "health", "--local")
		require.NoError(t, err)
		assert.Contains(t, out, "no backend")
	})
}

func TestModels(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		client := &fakeClient{list: []models.ModelInfo{{ID: "nu-large", Name: "Nu Large"}}}
		out, _, err := execute(t, testDeps(client, fastConfig()), "models", "-m", "nu-large")
		require.NoError(t, err)
		assert.Contains(t, out, "nu-large")
		assert.Contains(t, out, "Nu Large")
		assert.NotContains(t, out, models.ModelGPT35Turbo)
	})

	t.Run("fallback", func(t *testing.T) {
		client := &fakeClient{listErr: apierrors.NewAPIError(404, "/models", "")}
		out, errOut, err := execute(t, testDeps(client, fastConfig()), "models")
		require.NoError(t, err)
		assert.Contains(t, errOut, "built-in")
		for _, m := range models.BuiltinModels() {
			assert.Contains(t, out, m.ID)
		}
	})
}

func TestModelsTable_MarksCurrent(t *testing.T) {
	out := modelsTable(models.BuiltinModels(), models.ModelGPT4)
	assert.Contains(t, out, "*")

	out = modelsTable(models.BuiltinModels(), "none")
	assert.NotContains(t, out, "*")
}

func TestConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NUCHAT_BASE_URL", "http://from-env/api")

	cfg := fastConfig()
	cfg.BaseURL = "http://from-env/api"
	cfg.DefaultModel = models.ModelGPT35Turbo

	out, _, err := execute(t, testDeps(&fakeClient{}, cfg), "config", "--local")
	require.NoError(t, err)

	assert.Contains(t, out, filepath.Join(home, ".nuchat", "config.json"))
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, "http://from-env/api")

	rows := configRows(cfg, func() config.Config {
		c := cfg
		(&rootOptions{local: true}).apply(&c)
		return c
	}(), envSet())
	sources := map[string]string{}
	for _, r := range rows {
		sources[r.key] = r.source
	}
	assert.Equal(t, sourceEnv, sources["base_url"])
	assert.Equal(t, sourceFile, sources["default_model"])
	assert.Equal(t, sourceFlag, sources["provider"])
	assert.Equal(t, sourceDefault, sources["verbose"])
}

func TestConfig_JSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, _, err := execute(t, testDeps(&fakeClient{}, fastConfig()), "config", "--json", "--base-url", "http://flag/api")
	require.NoError(t, err)

	var got config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "http://flag/api", got.BaseURL)
}

func TestConfig_Init(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, ".nuchat", "config.json")

	out, _, err := execute(t, testDeps(&fakeClient{}, fastConfig()), "config", "--init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default config")

	saved, err := config.LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().BaseURL, saved.BaseURL)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, _, err = execute(t, testDeps(&fakeClient{}, fastConfig()), "config", "--init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestConfig_Themes(t *testing.T) {
	out, _, err := execute(t, testDeps(&fakeClient{}, fastConfig()), "config", "--themes")
	require.NoError(t, err)
	assert.Contains(t, out, "tokyonight")
	assert.Contains(t, out, "catppuccin")
	assert.Contains(t, out, "dracula")
	assert.Contains(t, out, "ascii")
}

func TestConfigWarnings(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	assert.Empty(t, configWarnings(config.DefaultConfig()))

	cfg := config.DefaultConfig()
	cfg.Markdown.Style = "solarized"
	cfg.TUITheme = "neon"
	warnings := configWarnings(cfg)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "solarized")
	assert.Contains(t, warnings[1], "neon")

	_, errOut, err := execute(t, testDeps(&fakeClient{}, cfg), "config")
	require.NoError(t, err)
	assert.Contains(t, errOut, "neon")
}

func TestResponses(t *testing.T) {
	out, _, err := execute(t, testDeps(&fakeClient{}, fastConfig()), "responses")
	require.NoError(t, err)

	assert.Contains(t, out, "filter files larger than 1mb")
	assert.Contains(t, out, "Suggested questions:")

	out, _, err = execute(t, testDeps(&fakeClient{}, fastConfig()), "responses", "--match", "How do I GROUP DATA BY COLUMN?")
	require.NoError(t, err)
	assert.Contains(t, out, "Matched: group data by column")
	assert.Contains(t, out, "group-by")

	out, _, err = execute(t, testDeps(&fakeClient{}, fastConfig()), "responses", "--match", "tell me a joke")
	require.NoError(t, err)
	assert.Contains(t, out, "Matched: (default)")
}
