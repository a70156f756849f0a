package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	cli "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) []string {
	return []string{"--env", filepath.Join(t.TempDir(), "missing.env")}
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "codigo_generado.py", c.Output)
	assert.Equal(t, "es", c.Language)
	assert.Equal(t, "info", c.Log)
	assert.True(t, c.View)
	assert.Equal(t, 3*time.Second, c.Listen.Wake)
	assert.Equal(t, 8*time.Second, c.Listen.Command)
	assert.Equal(t, 500*time.Millisecond, c.Listen.Pause)
	assert.Len(t, c.Wake.Phrases, 3)
	assert.InDelta(t, 0.6, c.NLU.FuzzyThreshold, 1e-9)
	assert.InDelta(t, 0.5, c.NLU.MatchThreshold, 1e-9)
	assert.Equal(t, "whisper", c.STT.Backend)
	assert.True(t, c.Notify.Beep)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vozc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
output = "salida.py"

[listen]
wake = "2s"
stop_on_silence = true

[wake]
phrases = ["oye maquina"]

[nlu]
match_threshold = 0.7
`), 0o644))

	c, err := Load(append(noEnvFile(t), "--config", path))
	require.NoError(t, err)

	assert.Equal(t, "salida.py", c.Output)
	assert.Equal(t, 2*time.Second, c.Listen.Wake)
	assert.Equal(t, 8*time.Second, c.Listen.Command)
	assert.True(t, c.Listen.StopOnSilence)
	assert.Equal(t, []string{"oye maquina"}, c.Wake.Phrases)
	assert.InDelta(t, 0.7, c.NLU.MatchThreshold, 1e-9)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(append(noEnvFile(t), "--config", filepath.Join(t.TempDir(), "nope.toml")))
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("VOZC_OUTPUT", "env.py")
	t.Setenv("VOZC_LISTEN_COMMAND", "5s")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	c, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "env.py", c.Output)
	assert.Equal(t, 5*time.Second, c.Listen.Command)
	assert.Equal(t, "sk-test", c.STT.APIKey)

	c, err = Load(append(noEnvFile(t), "-o", "flag.py", "--stdin", "--no-view", "--duck"))
	require.NoError(t, err)
	assert.Equal(t, "flag.py", c.Output)
	assert.Equal(t, "stdin", c.STT.Backend)
	assert.False(t, c.View)
	assert.True(t, c.Audio.Duck)
}

func TestLoadEnvFile(t *testing.T) {
	// registers the variable for cleanup, then clears it so the file can set it
	t.Setenv("VOZC_LANGUAGE", "")
	require.NoError(t, os.Unsetenv("VOZC_LANGUAGE"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("VOZC_LANGUAGE=en\n"), 0o600))

	c, err := Load([]string{"--env", path})
	require.NoError(t, err)
	assert.Equal(t, "en", c.Language)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("VOZC_NLU_FUZZY_THRESHOLD", "1.5")

	_, err := Load(noEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nlu.fuzzy_threshold")
}

func TestLoadHelp(t *testing.T) {
	_, err := Load([]string{"-h"})
	assert.ErrorIs(t, err, cli.ErrHelp)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Output: "out.py",
		Log:    "info",
		Listen: ListenConfig{Wake: time.Second, Command: time.Second},
		Wake:   WakeConfig{Phrases: []string{"oye"}},
		NLU:    NLUConfig{FuzzyThreshold: 0.6, MatchThreshold: 0.5},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty output", func(c *Config) { c.Output = "" }, "output"},
		{"zero wake window", func(c *Config) { c.Listen.Wake = 0 }, "listen windows"},
		{"negative pause", func(c *Config) { c.Listen.Pause = -time.Second }, "pause"},
		{"no phrases", func(c *Config) { c.Wake.Phrases = nil }, "activation phrases"},
		{"match threshold", func(c *Config) { c.NLU.MatchThreshold = -0.1 }, "nlu.match_threshold"},
		{"log level", func(c *Config) { c.Log = "trace" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
