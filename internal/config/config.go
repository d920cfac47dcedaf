package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultListenAddr   = ":3000"
	DefaultUploadDir    = "./uploads"
	DefaultCookieMaxAge = 7 * 24 * time.Hour
	DefaultCookieName   = "sid"
)

type MySQLConfig struct {
	Dsn             string `mapstructure:"dsn"`
	TablePrefix     string `mapstructure:"tablePrefix"`
	MaxIdleConns    int    `mapstructure:"maxIdleConns"`
	MaxOpenConns    int    `mapstructure:"maxOpenConns"`
	ConnMaxIdleTime int    `mapstructure:"connMaxIdleTime"`
	ConnMaxLifetime int    `mapstructure:"connMaxLifetime"`
}

type RedisConfig struct {
	URL         string `mapstructure:"url"`
	PoolSize    int    `mapstructure:"poolSize"`
	ClusterMode bool   `mapstructure:"clusterMode"`
}

type SessionConfig struct {
	SessionMaxAge  time.Duration `mapstructure:"sessionMaxAge"`
	CookieName     string        `mapstructure:"cookieName"`
	CookieHttpOnly bool          `mapstructure:"cookieHttpOnly"`
	CookieSecure   bool          `mapstructure:"cookieSecure"`
}

type Config struct {
	Debug        bool          `mapstructure:"debug"`
	SiteName     string        `mapstructure:"siteName"`
	BaseURL      string        `mapstructure:"baseURL"`
	Environment  string        `mapstructure:"environment"` // local, testing, staging, production
	ListenAddr   string        `mapstructure:"listenAddr"`
	StaticDir    string        `mapstructure:"staticDir"`
	TemplateDir  string        `mapstructure:"templateDir"`
	UploadDir    string        `mapstructure:"uploadDir"`
	TokenSecret  string        `mapstructure:"tokenSecret"` // HS256 secret for api bearer tokens
	AllowOrigins []string      `mapstructure:"allowOrigins"`
	Redis        RedisConfig   `mapstructure:"redis"`
	Session      SessionConfig `mapstructure:"session"`
	MySQL        MySQLConfig   `mapstructure:"mysql"`
}

// IsLocal reports whether the ip restriction middleware should be bypassed.
func (c *Config) IsLocal() bool {
	return c.Environment == "local" || c.Environment == "testing"
}

func (c *Config) Sanitize() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.UploadDir == "" {
		c.UploadDir = DefaultUploadDir
	}
	if c.Session.SessionMaxAge == 0 {
		c.Session.SessionMaxAge = DefaultCookieMaxAge
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultCookieName
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigFile(filename)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
