package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Users    []UserConfig   `mapstructure:"users"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Client   ClientConfig   `mapstructure:"client"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	Mode           string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateBurst      int           `mapstructure:"rate_burst"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"` // 为空时不信任任何代理
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // postgres, sqlite
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogLevel     string `mapstructure:"log_level"` // silent, error, warn, info
}

// RedisConfig Addr 为空时使用进程内 LRU 缓存
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, console
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	Issuer string        `mapstructure:"issuer"`
}

// UserConfig 静态管理账号，PasswordHash 为 bcrypt 哈希
type UserConfig struct {
	Username     string   `mapstructure:"username"`
	PasswordHash string   `mapstructure:"password_hash"`
	Authorities  []string `mapstructure:"authorities"`
}

type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

// ClientConfig blogctl 使用
type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load 读取 config.yaml（可选）+ BLOG_ 前缀环境变量
func Load(paths ...string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.cors_origins", []string{"http://localhost:9000"})
	v.SetDefault("server.rate_limit_rps", 50.0)
	v.SetDefault("server.rate_burst", 100)
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "blog.db")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", 10*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("jwt.issuer", "blog-admin")

	v.SetDefault("tracing.service_name", "blog-admin")

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.timeout", 10*time.Second)
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.Mode == "release" && c.JWT.Secret == "" {
		return errors.New("jwt.secret is required in release mode")
	}
	if c.Server.RateLimitRPS <= 0 || c.Server.RateBurst <= 0 {
		return errors.New("server.rate_limit_rps and server.rate_burst must be positive")
	}
	return nil
}

// Addr 监听地址
func (s ServerConfig) Addr() string { return fmt.Sprintf(":%d", s.Port) }
