package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_DATABASE_URL points at a backend with the talk-glide schema
	// applied. Tests skip when it is unset.
	DatabaseURL string `envconfig:"E2E_DATABASE_URL"`
	// E2E_NOTIFY_CHANNEL matches the backend's NOTIFY channel name
	NotifyChannel string `envconfig:"E2E_NOTIFY_CHANNEL" default:"talk_glide_changes"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
