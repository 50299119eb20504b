package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: 9000
  read_timeout: 10s
  write_timeout: 10s
logging:
  level: debug
gate:
  idle_session_lifespan: 60
  discord_webhook_url: https://discord.com/api/webhooks/123/abc
  blacklisted_addresses:
    - 192.168.1.66
    - 192.168.1.67
  audit_buffer_size: 128
licenses:
  pro:
    library: artifacts/pro.so
    addresses:
      10.0.0.5: [5555]
      10.0.0.6: [5555, 5556]
  trial:
    library: artifacts/trial.so
    addresses: {}
`

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("PLUGINGATE_CONFIG", path)
}

func TestLoadFromFile(t *testing.T) {
	writeConfig(t, sampleConfig)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, Duration(10*time.Second), cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)

	assert.Equal(t, int64(60), cfg.Gate.IdleSessionLifespan)
	assert.Equal(t, "https://discord.com/api/webhooks/123/abc", cfg.Gate.DiscordWebhookURL)
	assert.Equal(t, []string{"192.168.1.66", "192.168.1.67"}, cfg.Gate.BlacklistedAddresses)
	assert.Equal(t, 128, cfg.Gate.AuditBufferSize)

	require.Contains(t, cfg.Licenses, "pro")
	assert.Equal(t, "artifacts/pro.so", cfg.Licenses["pro"].Library)
	assert.Equal(t, []int{5555, 5556}, cfg.Licenses["pro"].Addresses["10.0.0.6"])
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	// Run from an empty dir so no config.yaml in the working directory
	// leaks into the test.
	t.Setenv("PLUGINGATE_CONFIG", "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, int64(60), cfg.Gate.IdleSessionLifespan)
	assert.Empty(t, cfg.Gate.DiscordWebhookURL)
	assert.Empty(t, cfg.Licenses)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestEnvOverridesFile(t *testing.T) {
	writeConfig(t, sampleConfig)
	t.Setenv("PLUGINGATE_SERVER_PORT", "8123")
	t.Setenv("PLUGINGATE_GATE_IDLE_SESSION_LIFESPAN", "300")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, int64(300), cfg.Gate.IdleSessionLifespan)
	// File values not overridden stay intact.
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "zero idle lifespan",
			content: `
gate:
  idle_session_lifespan: 0
`,
		},
		{
			name: "bad webhook url",
			content: `
gate:
  discord_webhook_url: not-a-url
`,
		},
		{
			name: "license without library path",
			content: `
licenses:
  pro:
    addresses:
      10.0.0.5: [5555]
`,
		},
		{
			name: "license with invalid port",
			content: `
licenses:
  pro:
    library: artifacts/pro.so
    addresses:
      10.0.0.5: [70000]
`,
		},
		{
			name: "invalid log level",
			content: `
logging:
  level: loud
`,
		},
		{
			name: "malformed yaml",
			content: `	tabs are not yaml`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.content)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestRegistry(t *testing.T) {
	writeConfig(t, sampleConfig)

	cfg, err := Load()
	require.NoError(t, err)

	reg := cfg.Registry()
	assert.Equal(t, 2, reg.Len())

	lic, ok := reg.Find("pro")
	require.True(t, ok)
	assert.Equal(t, "artifacts/pro.so", lic.Library)
	assert.True(t, lic.AllowsPort("10.0.0.5", 5555))
	assert.False(t, lic.AllowsPort("10.0.0.5", 6666))
}
