package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/i2y/jira-requester/internal/adapter/outbound/jira"
	"github.com/i2y/jira-requester/internal/observability"
)

// envPrefix is the envconfig prefix. Every variable is also accepted without it,
// e.g. JIRA_URL as well as JIRA_REQUESTER_JIRA_URL.
const envPrefix = "jira_requester"

// JiraFileConfig is the jira block of the YAML configuration file.
type JiraFileConfig struct {
	URL       string `yaml:"url"`
	UserEmail string `yaml:"user_email"`
	APIToken  string `yaml:"api_token"`
}

// FileConfig defines the structure loaded from the YAML configuration file.
type FileConfig struct {
	Jira JiraFileConfig `yaml:"jira"`
}

// Config holds the final application configuration, merged from file and environment variables.
// Environment variables take precedence; the file only fills Jira settings left empty.
type Config struct {
	ConfigFilePath string `envconfig:"CONFIG_FILE"`

	// Jira connection. No defaults, so values from the file survive.
	JiraURL       string `envconfig:"JIRA_URL"`
	JiraUserEmail string `envconfig:"JIRA_USER_EMAIL"`
	JiraAPIToken  string `envconfig:"JIRA_API_TOKEN"`

	LogLevel                 string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFile                  string        `envconfig:"LOG_FILE"`
	ListenAddr               string        `envconfig:"LISTEN_ADDR" default:":8080"`
	AdminAddr                string        `envconfig:"ADMIN_ADDR" default:":8081"`
	HTTPClientTimeout        time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s"`
	ShutdownTimeout          time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	OtelExporterOtlpEndpoint string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool          `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Validate reports every required Jira setting that is still empty.
func (c *Config) Validate() error {
	var missing []string
	if c.JiraURL == "" {
		missing = append(missing, "JIRA_URL")
	}
	if c.JiraUserEmail == "" {
		missing = append(missing, "JIRA_USER_EMAIL")
	}
	if c.JiraAPIToken == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required Jira environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Jira returns the settings handed to the Jira client.
func (c *Config) Jira() jira.Config {
	return jira.Config{
		BaseURL:  c.JiraURL,
		Email:    c.JiraUserEmail,
		APIToken: c.JiraAPIToken,
		Timeout:  c.HTTPClientTimeout,
	}
}

// Tracing returns the OTLP exporter settings for serviceName.
func (c *Config) Tracing(serviceName, serviceVersion string) observability.TracingConfig {
	return observability.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Endpoint:       c.OtelExporterOtlpEndpoint,
		Insecure:       c.OtelExporterOtlpInsecure,
	}
}

// Load reads environment variables, then the optional YAML file named by CONFIG_FILE,
// and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if cfg.ConfigFilePath != "" {
		fileCfg, err := loadFile(cfg.ConfigFilePath)
		if err != nil {
			return nil, err
		}
		cfg.mergeFile(fileCfg)
		slog.Debug("Loaded configuration from file.", "path", cfg.ConfigFilePath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string) (FileConfig, error) {
	var fileCfg FileConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileCfg, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return fileCfg, fmt.Errorf("failed to unmarshal config file '%s': %w", path, err)
	}
	return fileCfg, nil
}

func (c *Config) mergeFile(fileCfg FileConfig) {
	if c.JiraURL == "" {
		c.JiraURL = fileCfg.Jira.URL
	}
	if c.JiraUserEmail == "" {
		c.JiraUserEmail = fileCfg.Jira.UserEmail
	}
	if c.JiraAPIToken == "" {
		c.JiraAPIToken = fileCfg.Jira.APIToken
	}
}
