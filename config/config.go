// Reads the program configuration from fluecheck.yaml, FLUECHECK_* environment variables and a
// .env file

package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sihwankim2023/kd-boiler-checker/document"
)

// DefaultConfigName is the configuration file looked up in the working directory.
const DefaultConfigName = "fluecheck"

// EnvPrefix prefixes the environment variables overriding configuration keys.
const EnvPrefix = "FLUECHECK"

type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Session  SessionConfig  `yaml:"session" mapstructure:"session"`
	Document DocumentConfig `yaml:"document" mapstructure:"document"`
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
}

type ServerConfig struct {
	Addr                string `yaml:"addr" mapstructure:"addr"`
	ShutdownTimeoutSecs int    `yaml:"shutdown_timeout_secs" mapstructure:"shutdown_timeout_secs"`
}

// ShutdownTimeout is the grace period given to in-flight requests on shutdown.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSecs) * time.Second
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

type SessionConfig struct {
	TTLMinutes int    `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
	Cookie     string `yaml:"cookie" mapstructure:"cookie"`
}

// TTL is how long an idle session is kept.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

type DocumentConfig struct {
	FontPath   string `yaml:"font_path" mapstructure:"font_path"`
	FontFamily string `yaml:"font_family" mapstructure:"font_family"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

// RendererOptions reads the configured font and returns the options of a document renderer.
func (c DocumentConfig) RendererOptions() (document.Options, error) {
	opts := document.Options{FontFamily: c.FontFamily, Compress: c.Compress}
	if c.FontPath == "" {
		return opts, nil
	}
	font, err := os.ReadFile(c.FontPath)
	if err != nil {
		return opts, errors.Wrapf(err, "config: read font %s", c.FontPath)
	}
	opts.Font = font
	return opts, nil
}

type CatalogConfig struct {
	RejectDuplicates bool `yaml:"reject_duplicates" mapstructure:"reject_duplicates"`
}

// Load reads the configuration. An explicit path must exist, otherwise fluecheck.yaml in the working
// directory is used when present. Environment variables override the file and the file overrides
// the defaults.
func Load(path string) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout_secs", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("session.ttl_minutes", 60)
	v.SetDefault("session.cookie", "fluecheck_session")
	v.SetDefault("document.font_path", "")
	v.SetDefault("document.font_family", "hangul")
	v.SetDefault("document.compress", true)
	v.SetDefault("catalog.reject_duplicates", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, errors.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that have no usable fallback.
func (c *Config) Validate() error {
	var problems []string
	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is required")
	}
	if c.Server.ShutdownTimeoutSecs < 0 {
		problems = append(problems, "server.shutdown_timeout_secs must not be negative")
	}
	if c.Session.TTLMinutes <= 0 {
		problems = append(problems, "session.ttl_minutes must be positive")
	}
	if c.Session.Cookie == "" {
		problems = append(problems, "session.cookie is required")
	}
	if c.Document.FontPath != "" && c.Document.FontFamily == "" {
		problems = append(problems, "document.font_family is required with document.font_path")
	}
	if len(problems) > 0 {
		return errors.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger builds the logger described by cfg and installs it as the global zap logger.
func InitLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return logger, nil
}
