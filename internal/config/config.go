package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Adyen    AdyenConfig    `koanf:"adyen"`
	Webhook  WebhookConfig  `koanf:"webhook"`
	Worker   WorkerConfig   `koanf:"worker"`
	Logger   LoggerConfig   `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

// AdyenConfig configures the provider client. The live URL prefix is only
// required for the live environment; the client enforces that at call time
// so a test configuration stays minimal.
type AdyenConfig struct {
	Environment     string        `koanf:"environment" validate:"required,oneof=test live"`
	APIKey          string        `koanf:"api_key" validate:"required"`
	MerchantAccount string        `koanf:"merchant_account" validate:"required"`
	LiveURLPrefix   string        `koanf:"live_url_prefix"`
	Timeout         time.Duration `koanf:"timeout" validate:"required"`
}

// WebhookConfig holds the HTTP Basic credentials the provider uses on the
// notifications endpoint. With neither secret configured authentication is
// skipped; that degraded mode is logged loudly at startup.
type WebhookConfig struct {
	AuthUser     string `koanf:"auth_user"`
	AuthPassword string `koanf:"auth_password"`
	// RedirectSecret signs the nonce tokens on the client-side checkout's
	// completion callbacks.
	RedirectSecret string `koanf:"redirect_secret" validate:"required"`
}

type WorkerConfig struct {
	Interval    time.Duration `koanf:"interval" validate:"required"`
	BatchSize   int           `koanf:"batch_size" validate:"required"`
	GracePeriod time.Duration `koanf:"grace_period" validate:"required"`
	// ExpireAfter is how long an OPEN payment may stay untouched before the
	// poller expires it.
	ExpireAfter time.Duration `koanf:"expire_after" validate:"required"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider("ADYEN_GATEWAY_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "ADYEN_GATEWAY_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
