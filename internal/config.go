package internal

import "time"

type Config struct {
	DatabaseURL       string        `env:"DATABASE_URL,required=true"`
	NotifyChannel     string        `env:"NOTIFY_CHANNEL,default=talk_glide_changes"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	VaultFilepath     string        `env:"VAULT_FILEPATH,required=true"`
	SearchFilepath    string        `env:"SEARCH_FILEPATH"`
	SubscriberBuffer  int           `env:"SUBSCRIBER_BUFFER,default=16"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	DebugPort         *int          `env:"DEBUG_PORT"`
}
