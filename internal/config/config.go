package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the full application configuration loaded from file/env.
type Config struct {
	Connection Connection `mapstructure:"connection"`
	LogLevel   string     `mapstructure:"log_level"`
}

// Connection describes how to reach a Confluence instance.
type Connection struct {
	Server   string `mapstructure:"server"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Credentials extracts the HTTP Basic credentials from the connection.
func (c Connection) Credentials() Credentials {
	return Credentials{Username: c.Username, Password: c.Password}
}

// Credentials holds the username/password pair used for HTTP Basic auth.
type Credentials struct {
	Username string
	Password string
}

// Load reads configuration from a .pyfluence ini file and environment
// variables. When path is empty the current directory and the user's home
// directory are searched. A missing config file is not an error; the
// returned Config is validated only when a connection is actually opened.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".pyfluence")
	v.SetConfigType("ini")

	if path != "" {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			v.AddConfigPath(path)
		} else {
			v.SetConfigFile(path)
		}
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix("pyfluence")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// ValidateConnection checks that the connection has everything needed to
// talk to a server. Missing credentials are reported explicitly; the
// username is never reused as a password fallback.
func (c *Config) ValidateConnection() error {
	if c.Connection.Server == "" {
		return fmt.Errorf("config: connection.server is required")
	}
	if c.Connection.Username == "" {
		return fmt.Errorf("config: connection.username is required")
	}
	if c.Connection.Password == "" {
		return fmt.Errorf("config: connection.password is required")
	}
	return nil
}

// ApplyNetrcDefaults fills in a missing username/password from .netrc when
// the server is known. Explicitly configured credentials win.
func (c *Config) ApplyNetrcDefaults() error {
	if c.Connection.Server == "" {
		return nil
	}
	if c.Connection.Username != "" && c.Connection.Password != "" {
		return nil
	}

	login, password, err := loadNetrcCredentials(c.Connection.Server)
	if err != nil {
		return fmt.Errorf("config: load netrc: %w", err)
	}

	if c.Connection.Username == "" {
		c.Connection.Username = login
	}
	if c.Connection.Password == "" && (c.Connection.Username == login || c.Connection.Username == "") {
		c.Connection.Password = password
	}

	return nil
}
