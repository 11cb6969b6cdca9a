package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/autopro-kz/autopro/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Auth      sharedConfig.AuthConfig      `mapstructure:"auth"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"ratelimit"`
	Telegram  sharedConfig.TelegramConfig  `mapstructure:"telegram"`
	Email     sharedConfig.EmailConfig     `mapstructure:"email"`
	Kafka     sharedConfig.KafkaConfig     `mapstructure:"kafka"`
	Payment   sharedConfig.PaymentConfig   `mapstructure:"payment"`
	Scheduler sharedConfig.SchedulerConfig `mapstructure:"scheduler"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads .env (if present), configs/config.yaml and AUTOPRO_* environment
// variables, in increasing order of precedence.
func Load(env string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("AUTOPRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.Mode == "release" && c.Auth.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("auth.jwt.secret must be set in release mode")
	}
	return nil
}

const defaultJWTSecret = "change-me-in-production"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.api_prefix", "/api/v1")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.timezone", "Asia/Almaty")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "autopro")
	v.SetDefault("database.password", "autopro")
	v.SetDefault("database.database", "autopro_dev")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("auth.password.bcrypt_cost", 12)
	v.SetDefault("auth.jwt.secret", defaultJWTSecret)
	v.SetDefault("auth.jwt.access_exp_minutes", 1440)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.buy_per_minute", 10)
	v.SetDefault("ratelimit.callback_per_minute", 120)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.admin_chat_id", "")
	v.SetDefault("telegram.api_base_url", "https://api.telegram.org")
	v.SetDefault("telegram.request_timeout", 10*time.Second)

	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "noreply@autopro.local")
	v.SetDefault("email.from_name", "AutoPro")
	v.SetDefault("email.admin_address", "")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "autopro.subscriptions")
	v.SetDefault("kafka.client_id", "autopro")

	v.SetDefault("payment.signature_header", "X-Signature")
	v.SetDefault("payment.request_timeout", 10*time.Second)
	v.SetDefault("payment.kassa24.base_url", "https://ecommerce.pult24.kz")

	v.SetDefault("scheduler.expiry_sweep_enabled", false)
	v.SetDefault("scheduler.expiry_sweep_interval", 10*time.Minute)
}
