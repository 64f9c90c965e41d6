// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: test-site\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-site", cfg.App.Name)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 8080, cfg.Server.OpsPort)
	assert.Equal(t, SessionBackendMemory, cfg.Sessions.Backend)
	assert.Equal(t, "immigria_assessment", cfg.Sessions.CookieName)
	assert.Equal(t, time.Hour, cfg.Sessions.TTL())
	assert.Equal(t, 1500*time.Millisecond, cfg.Submission.Delay())
	assert.False(t, cfg.Assessment.RequireStepFields)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_ReadsValues(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 4000
  ops_port: 4001
  trusted_proxies:
    - 10.0.0.0/8
    - 192.0.2.1
assessment:
  require_step_fields: true
submission:
  delay_ms: 10
rate_limit:
  enabled: true
  rps: 2.5
  burst: 3
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:4000", cfg.Server.Addr())
	assert.Equal(t, "127.0.0.1:4001", cfg.Server.OpsAddr())
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.Server.TrustedProxies)
	assert.True(t, cfg.Assessment.RequireStepFields)
	assert.Equal(t, 10*time.Millisecond, cfg.Submission.Delay())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, 3, cfg.RateLimit.Burst)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "5050")
	t.Setenv("SUBMISSION_DELAY_MS", "20")
	path := writeConfig(t, "server:\n  port: 4000\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5050, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Submission.DelayMS)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "cache.internal:6379")
	path := writeConfig(t, `
sessions:
  backend: redis
  redis:
    address: ${TEST_REDIS_ADDR}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, SessionBackendRedis, cfg.Sessions.Backend)
	assert.Equal(t, "cache.internal:6379", cfg.Sessions.Redis.Address)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "redis backend without address",
			body: "sessions:\n  backend: redis\n",
			want: "sessions.redis.address is required",
		},
		{
			name: "unknown backend",
			body: "sessions:\n  backend: memcached\n",
			want: "sessions.backend must be",
		},
		{
			name: "ops port collides",
			body: "server:\n  port: 9000\n  ops_port: 9000\n",
			want: "ops_port must differ",
		},
		{
			name: "bad trusted proxy",
			body: "server:\n  trusted_proxies: [\"10.0.0.0/8\", \"lb.internal\"]\n",
			want: "server.trusted_proxies",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REDIS_ADDRESS", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
