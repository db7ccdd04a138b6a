package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMinimalEnv(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_SIGNING_SECRET", "sekrit")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ATTENDANCE_CONFIG", "")
}

func TestLoadDefaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "xoxb-test", cfg.SlackBotToken)
	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, "attendance.db", cfg.DBPath)
	assert.Equal(t, "events", cfg.Mode)
	assert.Equal(t, "https://slack.com/api", cfg.SlackAPIBase)
	assert.Equal(t, 15*time.Second, cfg.SlackTimeout)
}

func TestLoadMissingBotToken(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("SLACK_BOT_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLACK_BOT_TOKEN")
}

func TestLoadSocketModeRequiresAppToken(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("ATTENDANCE_MODE", "socket")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLACK_APP_TOKEN")

	t.Setenv("SLACK_APP_TOKEN", "xapp-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "socket", cfg.Mode)
}

func TestLoadYAMLWithEnvOverlay(t *testing.T) {
	setMinimalEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := "db_path: /var/lib/bot/att.db\nopenai_model: gpt-4o-mini\nlisten_addr: \":8080\"\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("ATTENDANCE_CONFIG", path)
	t.Setenv("ATTENDANCE_LISTEN_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/bot/att.db", cfg.DBPath)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	// env wins over the yaml file
	assert.Equal(t, ":9090", cfg.ListenAddr)
}

func TestLoadUnknownMode(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("ATTENDANCE_MODE", "webhookz")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
