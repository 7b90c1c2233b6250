package bot

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/streeteda/streeteda/core/config"
	coredatabase "github.com/streeteda/streeteda/core/database"
)

// NotifyConfig lists operator recipients and the optional broker URL.
type NotifyConfig struct {
	Recipients []int64 `yaml:"recipients" envconfig:"NOTIFY_RECIPIENTS"`
	AMQPURL    string  `yaml:"amqp_url" envconfig:"AMQP_URL"`
}

// Config aggregates everything the bot needs to start.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Notify   NotifyConfig        `yaml:"notify"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads configuration from a YAML file and environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}

	// Admins always receive order notifications even when the recipient
	// list is left empty.
	if len(cfg.Notify.Recipients) == 0 {
		cfg.Notify.Recipients = cfg.Core.Telegram.Admins
	}
	return &cfg, nil
}
