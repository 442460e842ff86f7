package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5000", cfg.Listen)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, "defaultpass", cfg.AuthPassword)
	assert.Equal(t, "primary", cfg.CalendarID)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, path, cfg.Path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoad_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
listen = "0.0.0.0:8080"
timezone = "Europe/Berlin"
auth_password = "hunter2"
calendar_id = "work@example.com"

[google]
client_id = "cid"
client_secret = "csecret"
refresh_token = "rtoken"

[openai]
api_key = "sk-test"
model = "gpt-4o-mini"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Listen)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, "hunter2", cfg.AuthPassword)
	assert.Equal(t, "work@example.com", cfg.CalendarID)
	assert.Equal(t, "cid", cfg.Google.ClientID)
	assert.Equal(t, "csecret", cfg.Google.ClientSecret)
	assert.Equal(t, "rtoken", cfg.Google.RefreshToken)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`listen = "127.0.0.1:9999"`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Listen)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`auth_password = "from-file"`), 0o600))

	t.Setenv("VOICECAL_AUTH_PASSWORD", "from-env")
	t.Setenv("GOOGLE_CLIENT_ID", "env-cid")
	t.Setenv("GOOGLE_CLIENT_SECRET", "env-secret")
	t.Setenv("GOOGLE_REFRESH_TOKEN", "env-refresh")
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.AuthPassword)
	assert.Equal(t, "env-cid", cfg.Google.ClientID)
	assert.Equal(t, "env-secret", cfg.Google.ClientSecret)
	assert.Equal(t, "env-refresh", cfg.Google.RefreshToken)
	assert.Equal(t, "env-key", cfg.OpenAI.APIKey)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("listen = [broken"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Google = GoogleConfig{ClientID: "cid", ClientSecret: "cs", RefreshToken: "rt"}
	cfg.OpenAI.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingSecrets(t *testing.T) {
	cfg := Default()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google.client_id")
	assert.Contains(t, err.Error(), "openai.api_key")
}

func TestValidate_BadTimezone(t *testing.T) {
	cfg := Default()
	cfg.Google = GoogleConfig{ClientID: "cid", ClientSecret: "cs", RefreshToken: "rt"}
	cfg.OpenAI.APIKey = "sk-test"
	cfg.Timezone = "Neverland/Nowhere"

	assert.Error(t, cfg.Validate())
}

func TestLocation(t *testing.T) {
	cfg := Default()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}
