package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
timezone = "Europe/Berlin"
day_start = "08:00"
holidays = ["2025-12-24"]
token_db = "tokens.db"

[focus]
summary = "Heads down"

[slack]
max_blocks = 30
`)
	cfg, err := ReadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, WorkingHours{Start: "08:00", End: "19:00"}, cfg.WorkingHours())
	assert.Equal(t, []string{"2025-12-24"}, cfg.Holidays)
	assert.Equal(t, "primary", cfg.CalendarID)
	assert.Equal(t, "Heads down", cfg.Focus.Summary)
	assert.Equal(t, "3", cfg.Focus.ColorID)
	assert.Equal(t, 30, cfg.Slack.MaxBlocks)
	assert.Equal(t, defaultSlackTitle, cfg.Slack.Title)
	assert.Equal(t, DefaultExcludedColorIDs, cfg.ExcludedColorIDs)
}

func TestReadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad toml":     `timezone = `,
		"bad timezone": `timezone = "Mars/Olympus"`,
		"bad hours":    `day_end = "7pm"`,
		"bad holiday":  `holidays = ["12/25/2025"]`,
		"no calendar":  `calendar_id = ""`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_FallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, path, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_TokenStore(t *testing.T) {
	cfg := DefaultConfig()
	store, closeFn, err := cfg.TokenStore("primary")
	require.NoError(t, err)
	assert.IsType(t, FileTokenStore{}, store)
	require.NoError(t, closeFn())

	cfg.TokenDB = filepath.Join(t.TempDir(), "tokens.db")
	store, closeFn, err = cfg.TokenStore("primary")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteTokenStore{}, store)
	require.NoError(t, closeFn())
}
