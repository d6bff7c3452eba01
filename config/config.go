package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings. Values come from defaults, an optional
// config file, and NOTABLE_* environment variables, in that order of
// precedence.
//
// The token signing key is deliberately not configurable: a fresh RSA keypair
// is generated on every boot so restarting the process invalidates all
// outstanding tokens.
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Auth   AuthConfig   `mapstructure:"auth"`
	CORS   CORSConfig   `mapstructure:"cors"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type StoreConfig struct {
	DSN  string `mapstructure:"dsn"`
	Seed bool   `mapstructure:"seed"`
}

type AuthConfig struct {
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	Scheme     string        `mapstructure:"scheme"`
	ContextKey string        `mapstructure:"context_key"`
}

type CORSConfig struct {
	Origin string `mapstructure:"origin"`
}

// Load reads the configuration. The config file is optional; defaults alone
// produce a runnable local setup.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "notable")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("store.dsn", "file:notable.db?_pragma=foreign_keys(1)")
	v.SetDefault("store.seed", true)
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.scheme", "Bearer")
	v.SetDefault("auth.context_key", "user")
	v.SetDefault("cors.origin", "http://localhost:4200")

	v.SetConfigName("notable")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("NOTABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetIssuer returns the value stamped into the iss claim of every token.
func (c *Config) GetIssuer() string {
	return c.App.Name
}

func (c *Config) GetTokenTTL() time.Duration {
	return c.Auth.TokenTTL
}

func (c *Config) GetContextKey() string {
	return c.Auth.ContextKey
}

func (c *Config) GetAuthScheme() string {
	return c.Auth.Scheme
}
