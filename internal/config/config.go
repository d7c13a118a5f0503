package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envPrefix = "SEWTRACK_"

type Config interface {
	EnvConfig
	ClientConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetAPIURL() string
	GetTokenFile() string
	GetLogLevel() string
}

type ClientConfig interface {
	GetHTTPTimeout() time.Duration
	GetSharedRefresh() bool
}

type mainConfig struct {
	EnvVars
	Client
}

// Load reads the configuration from SEWTRACK_* environment variables.
func Load(ctx context.Context) (Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration through the given lookuper. The SEWTRACK_
// prefix is applied to every key.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var c mainConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &c,
		Lookuper: envconfig.PrefixLookuper(envPrefix, lookuper),
	}); err != nil {
		return nil, fmt.Errorf("[config LoadWith] %w", err)
	}
	return c, nil
}
