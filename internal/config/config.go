// Package config loads cqb configuration from file, environment, and
// defaults via viper. The space/token identity is carried as an explicit
// value from here into the client so queries stay independently testable
// with distinct configurations.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"cqb/internal/errors"
)

// DefaultEndpoint is the hosted content repository management API.
const DefaultEndpoint = "https://mapi.storyblok.com/v1"

// Config represents the complete cqb configuration.
type Config struct {
	SpaceID  string        `json:"spaceId" mapstructure:"spaceId" yaml:"spaceId"`
	Token    string        `json:"token" mapstructure:"token" yaml:"token"`
	Endpoint string        `json:"endpoint" mapstructure:"endpoint" yaml:"endpoint"`
	Query    QueryConfig   `json:"query" mapstructure:"query" yaml:"query"`
	Logging  LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`
}

// QueryConfig contains pagination policy for the fetch loops.
type QueryConfig struct {
	PerPage   int `json:"perPage" mapstructure:"perPage" yaml:"perPage"`
	MaxPages  int `json:"maxPages" mapstructure:"maxPages" yaml:"maxPages"`
	TimeoutMs int `json:"timeoutMs" mapstructure:"timeoutMs" yaml:"timeoutMs"`
}

// LoggingConfig contains logger configuration.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level" yaml:"level"`
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Endpoint: DefaultEndpoint,
		Query: QueryConfig{
			PerPage:   100,
			MaxPages:  10,
			TimeoutMs: 30000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from the given file (or ./cqb.yaml when path
// is empty), overlays CQB_* environment variables, and validates the
// result. A missing config file is fine as long as the environment
// supplies the credentials.
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("endpoint", def.Endpoint)
	v.SetDefault("query.perPage", def.Query.PerPage)
	v.SetDefault("query.maxPages", def.Query.MaxPages)
	v.SetDefault("query.timeoutMs", def.Query.TimeoutMs)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)

	v.SetEnvPrefix("CQB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{"spaceId", "token"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.New(errors.ConfigInvalid,
				fmt.Sprintf("cannot read config file %s", path), err)
		}
	} else {
		v.SetConfigName("cqb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/cqb")
		}
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, errors.New(errors.ConfigInvalid, "cannot read config file", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "cannot parse configuration", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.SpaceID == "" {
		return errors.New(errors.ConfigInvalid, "spaceId is not set (config file or CQB_SPACEID)", nil)
	}
	if c.Token == "" {
		return errors.New(errors.ConfigInvalid, "token is not set (config file or CQB_TOKEN)", nil)
	}
	if c.Endpoint == "" {
		return errors.New(errors.ConfigInvalid, "endpoint is not set", nil)
	}
	if c.Query.PerPage < 1 || c.Query.PerPage > 100 {
		return errors.New(errors.ConfigInvalid,
			fmt.Sprintf("query.perPage must be 1-100, got %d", c.Query.PerPage), nil)
	}
	if c.Query.MaxPages < 1 {
		return errors.New(errors.ConfigInvalid,
			fmt.Sprintf("query.maxPages must be positive, got %d", c.Query.MaxPages), nil)
	}
	return nil
}

// WriteStarter writes a commented starter config to path. It refuses to
// overwrite an existing file.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.New(errors.ConfigInvalid,
			fmt.Sprintf("%s already exists, not overwriting", path), nil)
	}

	starter := Default()
	starter.SpaceID = "your-space-id"
	starter.Token = "set-via-CQB_TOKEN-instead"

	data, err := yaml.Marshal(starter)
	if err != nil {
		return err
	}

	header := []byte("# cqb configuration.\n# token is better supplied via the CQB_TOKEN environment variable.\n")
	return os.WriteFile(path, append(header, data...), 0o600)
}
