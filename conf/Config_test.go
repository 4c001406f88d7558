package conf

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GIGBOT_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultSearchIntent, cfg.SearchIntent)
	assert.Equal(t, DefaultRefreshMinute, cfg.RefreshMinutes)
	assert.Equal(t, DefaultSourceName, cfg.SourceName)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.SheetsEnabled())
	assert.False(t, cfg.BasicAuthEnabled())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `{
		"port": "9000",
		"search_intent": "Conciertos",
		"max_results": 5,
		"spread_sheet_id": "sheet-1",
		"read_range": "Eventos!A:D",
		"key_file": "key.json"
	}`)
	t.Setenv("GIGBOT_CONFIG", path)
	t.Setenv("PORT", "9100")
	t.Setenv("WEBHOOK_USER", "dialogflow")
	t.Setenv("WEBHOOK_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "Conciertos", cfg.SearchIntent)
	assert.Equal(t, 5, cfg.MaxResults)
	assert.True(t, cfg.SheetsEnabled())
	assert.True(t, cfg.BasicAuthEnabled())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{"port":`},
		{"non numeric port", `{"port":"http"}`},
		{"sheet without range", `{"spread_sheet_id":"sheet-1","key_file":"key.json"}`},
		{"bad events url", `{"events_url":"not a url"}`},
		{"negative max results", `{"max_results":-1}`},
		{"unknown log mode", `{"log_mode":"verbose"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GIGBOT_CONFIG", writeConfig(t, tt.body))
			t.Setenv("PORT", "")
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
