package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"devopsdemo/internal/logger"
)

const (
	EnvPrefix   = "DEVOPSDEMO"
	DefaultAddr = "0.0.0.0:5000"
)

type Config struct {
	Addr              string
	LogLevel          string
	LogFormat         string
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

// SetDefaults registers defaults and env bindings on v.
// With nothing else configured the service binds DefaultAddr.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("read_header_timeout", 5*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadFile loads the optional YAML file. An empty path falls back to
// $HOME/.devopsdemo.yaml, which may be absent.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".devopsdemo")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Addr:              strings.TrimSpace(v.GetString("addr")),
		LogLevel:          v.GetString("log.level"),
		LogFormat:         v.GetString("log.format"),
		ShutdownTimeout:   v.GetDuration("shutdown_timeout"),
		ReadHeaderTimeout: v.GetDuration("read_header_timeout"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr must not be empty")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	if c.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("config: read_header_timeout must be positive, got %s", c.ReadHeaderTimeout)
	}
	return nil
}
