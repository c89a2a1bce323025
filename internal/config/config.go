package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the run-level constants of the expansion engine. Every value
// can come from the environment, with an optional YAML file layered on top.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains the settings of the shared redirect-following client.
	HTTP struct {
		// TimeoutTotal bounds the whole redirect chain of one URL, not each hop.
		TimeoutTotal time.Duration `env:"HTTP_TIMEOUT_TOTAL" env-default:"10s" yaml:"timeoutTotal"`
		// MaxConnections is the maximum number of simultaneous in-flight resolutions.
		MaxConnections int `env:"HTTP_MAX_CONNECTIONS" env-default:"200" yaml:"maxConnections"`
		// MaxRedirects is the hop budget after which a chain is abandoned.
		MaxRedirects int `env:"HTTP_MAX_REDIRECTS" env-default:"20" yaml:"maxRedirects"`
		// DNSCacheTTL is how long resolved addresses are reused across requests.
		DNSCacheTTL time.Duration `env:"HTTP_DNS_CACHE_TTL" env-default:"5m" yaml:"dnsCacheTTL"`
		// UserAgent is sent on every probe request.
		UserAgent string `env:"HTTP_USER_AGENT" env-default:"unshorten/1.0" yaml:"userAgent"`
	} `yaml:"http"`

	// Redis configures the persistent cache backend. URL, when set, takes
	// precedence over the discrete host/port/db values.
	Redis struct {
		// URL is a full connection URL (scheme://host:port/db).
		URL string `env:"REDIS_URL" yaml:"url"`
		// Host is the Redis server hostname or IP address.
		Host string `env:"REDIS_HOST" env-default:"localhost" yaml:"host"`
		// Port is the Redis server port number.
		Port int `env:"REDIS_PORT" env-default:"6379" yaml:"port"`
		// DB is the Redis logical database index.
		DB int `env:"REDIS_DB" env-default:"0" yaml:"db"`
	} `yaml:"redis"`
}

// Load fills a Config from the YAML file at configPath layered over the
// environment. A missing file is not an error; the environment alone is used.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read environment: %w", err)
	}

	return &cfg, nil
}
