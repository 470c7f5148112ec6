package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Realtime RealtimeConfig
	Prefs    PrefsConfig
	JWT      JWTConfig
	Fetch    FetchConfig
	API      APIConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BUSMGR_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"BUSMGR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BUSMGR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type BackendConfig struct {
	BaseURL        string        `envconfig:"BUSMGR_BACKEND_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"BUSMGR_BACKEND_REQUEST_TIMEOUT" default:"15s"`
}

type RealtimeConfig struct {
	RedisURL      string        `envconfig:"BUSMGR_REALTIME_REDIS_URL" required:"true"`
	ChannelPrefix string        `envconfig:"BUSMGR_REALTIME_CHANNEL_PREFIX" default:"busmgr:orders"`
	DialTimeout   time.Duration `envconfig:"BUSMGR_REALTIME_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout   time.Duration `envconfig:"BUSMGR_REALTIME_READ_TIMEOUT" default:"0"`
}

type PrefsConfig struct {
	Path string `envconfig:"BUSMGR_PREFS_PATH" default:"busmgr.db"`
}

type JWTConfig struct {
	// Issuer, when set, must match the iss claim of the supplied credential.
	// The client never verifies signatures; the backend owns that.
	Issuer string `envconfig:"BUSMGR_JWT_ISSUER"`
	// ExpiryLeeway tolerates small clock skew when checking credential expiry.
	ExpiryLeeway time.Duration `envconfig:"BUSMGR_JWT_EXPIRY_LEEWAY" default:"30s"`
}

type FetchConfig struct {
	DefaultLimit int `envconfig:"BUSMGR_FETCH_DEFAULT_LIMIT" default:"25"`
}

type APIConfig struct {
	Port           string   `envconfig:"BUSMGR_API_PORT" default:"4780"`
	AllowedOrigins []string `envconfig:"BUSMGR_API_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
