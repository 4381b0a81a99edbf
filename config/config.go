package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Config is the notes CLI configuration.
	Config struct {
		File    string        `yaml:"-"`
		Backend BackendConfig `yaml:"backend"`
		Sync    SyncConfig    `yaml:"sync"`
		Log     LogConfig     `yaml:"log"`
	}

	// BackendConfig defines the managed GraphQL backend connection.
	BackendConfig struct {
		// Endpoint is the GraphQL HTTP endpoint
		Endpoint string `yaml:"endpoint" default:"http://127.0.0.1:20002/graphql" validate:"required,url"`
		// RealtimeEndpoint is the subscriptions websocket endpoint, derived from Endpoint if empty
		RealtimeEndpoint string `yaml:"realtime-endpoint" validate:"omitempty,url"`
		// ApiKey is sent as x-api-key header if set
		ApiKey string `yaml:"api-key"`
		// RequestTimeout limits a single query / mutation
		RequestTimeout time.Duration `yaml:"request-timeout" default:"30s" validate:"gt=0"`
	}

	// SyncConfig defines the sync controller behaviour.
	SyncConfig struct {
		// Create / Delete / Update policies: "optimistic" or "remote-echo"
		Create string `yaml:"create" default:"remote-echo" validate:"oneof=optimistic remote-echo"`
		Delete string `yaml:"delete" default:"optimistic" validate:"oneof=optimistic remote-echo"`
		Update string `yaml:"update" default:"optimistic" validate:"oneof=optimistic remote-echo"`
		// Rollback reverts optimistic changes on mutation failure
		Rollback bool `yaml:"rollback" default:"false"`
		// MonitorPeriod is the stats report period (0 disables the report)
		MonitorPeriod time.Duration `yaml:"monitor-period" default:"0s" validate:"gte=0"`
	}

	// LogConfig defines the logger.
	LogConfig struct {
		// Level, see zapcore.ParseLevel
		Level string `yaml:"level" default:"warn" validate:"oneof=debug info warn error"`
		// Production enables JSON output
		Production bool `yaml:"production" default:"false"`
	}
)

// Default returns the configuration with all the defaults set.
func Default() (*Config, error) {
	c := new(Config)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}

	return c, nil
}

// Load reads the configuration file.
// Defaults are returned if the file doesn't exist.
func Load(f string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if f == "" {
		return c, nil
	}

	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, errors.Wrap(err, "config path")
	}
	c.File = filepath.Clean(realpath)

	file, err := os.ReadFile(c.File)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, errors.Wrap(err, "read config file failed")
	}

	if err := yaml.Unmarshal(file, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	// Fill fields present in the file but empty
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "re-set default config failed")
	}

	return c, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	return nil
}

// Save writes the configuration to the file.
func (c *Config) Save() error {
	if c.File == "" {
		return errors.New("config file path is not set")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}
