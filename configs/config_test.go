package configs_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/jira-requester/configs"
)

// clearEnv makes every variable Load reads look unset for the duration of the test.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"CONFIG_FILE", "JIRA_URL", "JIRA_USER_EMAIL", "JIRA_API_TOKEN", "LOG_LEVEL", "LOG_FILE",
		"LISTEN_ADDR", "ADMIN_ADDR", "HTTP_CLIENT_TIMEOUT", "SHUTDOWN_TIMEOUT",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE",
	} {
		for _, k := range []string{key, "JIRA_REQUESTER_" + key} {
			t.Setenv(k, "")
			require.NoError(t, os.Unsetenv(k))
		}
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	clearEnv(t)
	t.Setenv("JIRA_URL", "https://example.atlassian.net")
	t.Setenv("JIRA_USER_EMAIL", "dev@example.com")
	t.Setenv("JIRA_API_TOKEN", "secret")

	cfg, err := configs.Load()
	require.NoError(err)

	assert.Equal("info", cfg.LogLevel)
	assert.Equal(":8080", cfg.ListenAddr)
	assert.Equal(":8081", cfg.AdminAddr)
	assert.Equal(30*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(5*time.Second, cfg.ShutdownTimeout)
	assert.True(cfg.OtelExporterOtlpInsecure)

	jiraCfg := cfg.Jira()
	assert.Equal("https://example.atlassian.net", jiraCfg.BaseURL)
	assert.Equal("dev@example.com", jiraCfg.Email)
	assert.Equal("secret", jiraCfg.APIToken)
	assert.Equal(30*time.Second, jiraCfg.Timeout)
}

func TestLoad_PrefixedVariableWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("JIRA_URL", "https://plain.example.com")
	t.Setenv("JIRA_REQUESTER_JIRA_URL", "https://prefixed.example.com")
	t.Setenv("JIRA_USER_EMAIL", "dev@example.com")
	t.Setenv("JIRA_API_TOKEN", "secret")

	cfg, err := configs.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://prefixed.example.com", cfg.JiraURL)
}

func TestLoad_MissingVariables(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "All missing",
			env:     map[string]string{},
			wantErr: "missing required Jira environment variables: JIRA_URL, JIRA_USER_EMAIL, JIRA_API_TOKEN",
		},
		{
			name:    "Only token missing",
			env:     map[string]string{"JIRA_URL": "https://example.atlassian.net", "JIRA_USER_EMAIL": "dev@example.com"},
			wantErr: "missing required Jira environment variables: JIRA_API_TOKEN",
		},
		{
			name:    "Empty value counts as missing",
			env:     map[string]string{"JIRA_URL": "", "JIRA_USER_EMAIL": "dev@example.com", "JIRA_API_TOKEN": "secret"},
			wantErr: "missing required Jira environment variables: JIRA_URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := configs.Load()
			assert.Nil(t, cfg)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "jira-requester.yaml")
	require.NoError(os.WriteFile(path, []byte(`
jira:
  url: https://file.example.com
  user_email: file@example.com
  api_token: file-token
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JIRA_API_TOKEN", "env-token")

	cfg, err := configs.Load()
	require.NoError(err)
	assert.Equal("https://file.example.com", cfg.JiraURL)
	assert.Equal("file@example.com", cfg.JiraUserEmail)
	assert.Equal("env-token", cfg.JiraAPIToken, "environment overrides the file")
}

func TestLoad_FileErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("jira: [unterminated"), 0o600))

	t.Run("Missing file", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(dir, "absent.yaml"))
		_, err := configs.Load()
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", broken)
		_, err := configs.Load()
		assert.ErrorContains(t, err, "failed to unmarshal config file")
	})
}

func TestConfig_ParsedLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "INFO", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "warning", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
		{level: "verbose", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &configs.Config{LogLevel: tt.level}
			assert.Equal(t, tt.want, cfg.ParsedLogLevel())
		})
	}
}

func TestConfig_Tracing(t *testing.T) {
	cfg := &configs.Config{OtelExporterOtlpEndpoint: "collector:4317", OtelExporterOtlpInsecure: true}
	tracing := cfg.Tracing("jira-requester", "1.0.0")
	assert.Equal(t, "jira-requester", tracing.ServiceName)
	assert.Equal(t, "1.0.0", tracing.ServiceVersion)
	assert.Equal(t, "collector:4317", tracing.Endpoint)
	assert.True(t, tracing.Insecure)
}
