// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App     AppConfig     `koanf:"app"`
	API     APIConfig     `koanf:"api"`
	Storage StorageConfig `koanf:"storage"`
	Session SessionConfig `koanf:"session"`
	Stub    StubConfig    `koanf:"stub"`
	Log     LogConfig     `koanf:"log"`
	Otel    OtelConfig    `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

// APIConfig points the session controller at the remote auth API.
type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// StorageConfig selects the durable local store backend. The file backend is
// the default; redis exists for shared-host and kiosk deployments where the
// session must outlive the local filesystem.
type StorageConfig struct {
	Backend      string `koanf:"backend"`
	FilePath     string `koanf:"file_path"`
	RedisURL     string `koanf:"redis_url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type SessionConfig struct {
	RevalidateOnRestore bool `koanf:"revalidate_on_restore"`
}

// StubConfig configures the bundled development auth API.
type StubConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	PrivateKeyPath  string        `koanf:"private_key_path"`
	Issuer          string        `koanf:"issuer"`
	Audience        string        `koanf:"audience"`
	AccessTokenTTL  time.Duration `koanf:"access_token_ttl"`
	RefreshTokenTTL time.Duration `koanf:"refresh_token_ttl"`
	OTPTTL          time.Duration `koanf:"otp_ttl"`
	RateLimitPerMin int           `koanf:"rate_limit_per_min"`
	RateLimitBurst  int           `koanf:"rate_limit_burst"`
	RedisURL        string        `koanf:"redis_url"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		k := koanf.New(".")

		if err := loadDefaults(k); err != nil {
			loadErr = fmt.Errorf("load defaults: %w", err)
			return
		}

		if configPath != "" {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				loadErr = fmt.Errorf("load config file: %w", err)
				return
			}
		}

		if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
			loadErr = fmt.Errorf("load env vars: %w", err)
			return
		}

		cfg = &Config{}
		if err := k.Unmarshal("", cfg); err != nil {
			loadErr = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		if err := validate(cfg); err != nil {
			loadErr = fmt.Errorf("validate config: %w", err)
			return
		}
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "EduMentor Session",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"api.base_url": "http://localhost:8080",
		"api.timeout":  "15s",

		"storage.backend":        "file",
		"storage.file_path":      "",
		"storage.pool_size":      10,
		"storage.min_idle_conns": 2,

		"session.revalidate_on_restore": false,

		"stub.host":               "127.0.0.1",
		"stub.port":               8080,
		"stub.read_timeout":       "30s",
		"stub.write_timeout":      "30s",
		"stub.shutdown_timeout":   "10s",
		"stub.private_key_path":   "keys/private.pem",
		"stub.issuer":             "edumentor-authstub",
		"stub.audience":           "edumentor-client",
		"stub.access_token_ttl":   "15m",
		"stub.refresh_token_ttl":  "168h",
		"stub.otp_ttl":            "10m",
		"stub.rate_limit_per_min": 30,
		"stub.rate_limit_burst":   10,

		"log.level":  "info",
		"log.format": "text",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "edumentor-session",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"EDUMENTOR_API_URL":           "api.base_url",
	"EDUMENTOR_API_TIMEOUT":       "api.timeout",
	"EDUMENTOR_STORAGE_BACKEND":   "storage.backend",
	"EDUMENTOR_STORAGE_FILE":      "storage.file_path",
	"EDUMENTOR_REDIS_URL":         "storage.redis_url",
	"EDUMENTOR_REVALIDATE":        "session.revalidate_on_restore",
	"ENVIRONMENT":                 "app.environment",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"STUB_HOST":                   "stub.host",
	"STUB_PORT":                   "stub.port",
	"STUB_PRIVATE_KEY_PATH":       "stub.private_key_path",
	"STUB_REDIS_URL":              "stub.redis_url",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	switch c.Storage.Backend {
	case "file", "memory":
	case "redis":
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("EDUMENTOR_REDIS_URL is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Stub.AccessTokenTTL <= 0 || c.Stub.RefreshTokenTTL <= 0 {
		return fmt.Errorf("stub token TTLs must be positive")
	}

	if c.Stub.OTPTTL <= 0 {
		return fmt.Errorf("stub.otp_ttl must be positive")
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *StubConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
