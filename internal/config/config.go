// Package config loads netport settings from defaults, an optional YAML
// file, .env and NETPORT_* environment variables.
package config

import (
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process-wide configuration. Read-only after Load.
type Config struct {
	WorkDir   string        `mapstructure:"work_dir"`
	RulesFile string        `mapstructure:"rules_file"`
	Scan      ScanConfig    `mapstructure:"scan"`
	Suggest   SuggestConfig `mapstructure:"suggest"`
	Ingest    IngestConfig  `mapstructure:"ingest"`
	Server    ServerConfig  `mapstructure:"server"`
	Log       LogConfig     `mapstructure:"log"`
}

// ScanConfig selects the scan backend
type ScanConfig struct {
	Mode    string        `mapstructure:"mode"` // inprocess | subprocess
	Command string        `mapstructure:"command"`
	Timeout time.Duration `mapstructure:"timeout"`
	Workers int           `mapstructure:"workers"`
}

// SuggestConfig configures the text-generation provider
type SuggestConfig struct {
	Provider     string        `mapstructure:"provider"` // xai | gemini
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	Model        string        `mapstructure:"model"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Temperature  float64       `mapstructure:"temperature"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimit    float64       `mapstructure:"rate_limit"`
}

// IngestConfig holds extraction limits and upload trust settings
type IngestConfig struct {
	MaxFiles         int    `mapstructure:"max_files"`
	MaxBytes         int64  `mapstructure:"max_bytes"`
	Keyring          string `mapstructure:"keyring"`
	RequireSignature bool   `mapstructure:"require_signature"`
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	MaxFiles       int    `mapstructure:"max_files"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// Scan modes
const (
	ScanInProcess  = "inprocess"
	ScanSubprocess = "subprocess"
)

// Suggestion providers
const (
	ProviderXAI    = "xai"
	ProviderGemini = "gemini"
)

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	v.SetDefault("work_dir", "Uploads")
	v.SetDefault("rules_file", "")

	v.SetDefault("scan.mode", ScanInProcess)
	v.SetDefault("scan.command", "")
	v.SetDefault("scan.timeout", 5*time.Minute)
	v.SetDefault("scan.workers", runtime.NumCPU())

	v.SetDefault("suggest.provider", ProviderXAI)
	v.SetDefault("suggest.base_url", "https://api.x.ai/v1")
	v.SetDefault("suggest.api_key", "")
	v.SetDefault("suggest.gemini_api_key", "")
	v.SetDefault("suggest.model", "grok-beta")
	v.SetDefault("suggest.max_tokens", 500)
	v.SetDefault("suggest.temperature", 0.7)
	v.SetDefault("suggest.timeout", 60*time.Second)
	v.SetDefault("suggest.rate_limit", 0.0)

	v.SetDefault("ingest.max_files", 10000)
	v.SetDefault("ingest.max_bytes", int64(1<<30))
	v.SetDefault("ingest.keyring", "")
	v.SetDefault("ingest.require_signature", false)

	v.SetDefault("server.addr", ":3001")
	v.SetDefault("server.max_upload_bytes", int64(50<<20))
	v.SetDefault("server.max_files", 50)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

// BindSensitiveEnvVars binds credentials to their conventional variables
func BindSensitiveEnvVars(v *viper.Viper) {
	_ = v.BindEnv("suggest.api_key", "NETPORT_SUGGEST_API_KEY", "XAI_API_KEY")
	_ = v.BindEnv("suggest.gemini_api_key", "NETPORT_SUGGEST_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")
}

// New returns a viper instance with defaults and environment binding
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("NETPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindSensitiveEnvVars(v)
	SetDefaults(v)
	return v
}

// Load reads .env (if present), then configFile (if set), then the environment
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := New()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates configuration from v
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with
func (c *Config) Validate() error {
	switch c.Scan.Mode {
	case ScanInProcess, ScanSubprocess:
	default:
		return errors.WithHint(errors.Newf("invalid scan.mode %q", c.Scan.Mode), "use inprocess or subprocess")
	}
	switch c.Suggest.Provider {
	case ProviderXAI, ProviderGemini:
	default:
		return errors.WithHint(errors.Newf("invalid suggest.provider %q", c.Suggest.Provider), "use xai or gemini")
	}
	if c.Suggest.Timeout <= 0 {
		return errors.New("suggest.timeout must be positive")
	}
	if c.Scan.Timeout <= 0 {
		return errors.New("scan.timeout must be positive")
	}
	if c.WorkDir == "" {
		return errors.New("work_dir must not be empty")
	}
	return nil
}
