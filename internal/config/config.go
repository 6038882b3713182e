package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode         string        `mapstructure:"mode"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	LogLevel     string        `mapstructure:"log_level"`
	ReadLimit    int64         `mapstructure:"read_limit"`
	PingPeriod   time.Duration `mapstructure:"ping_period"`
	WriteWait    time.Duration `mapstructure:"write_wait"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	RemovalGrace time.Duration `mapstructure:"removal_grace"`
	Secret       string        `mapstructure:"secret"`

	RateLimit RateLimitConfig   `mapstructure:"rate_limit"`
	Meeting   MeetingConfig     `mapstructure:"meeting"`
	CORS      CORSConfig        `mapstructure:"cors"`
	ICE       []ICEServerConfig `mapstructure:"ice_servers"`
	Stats     StatsConfig       `mapstructure:"stats"`
	Sink      SinkConfig        `mapstructure:"sink"`
	Postgres  PostgresConfig    `mapstructure:"postgres"`
	Kafka     KafkaConfig       `mapstructure:"kafka"`
	Redis     RedisConfig       `mapstructure:"redis"`
}

type RateLimitConfig struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

type MeetingConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type StatsConfig struct {
	Schedule string `mapstructure:"schedule"`
}

type SinkConfig struct {
	Drivers   []string      `mapstructure:"drivers"`
	QueueSize int           `mapstructure:"queue_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ICEServerConfig is one STUN/TURN entry handed to browsers.
type ICEServerConfig struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type RedisConfig struct {
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 3001)
	v.SetDefault("log_level", "info")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("removal_grace", "1s")
	v.SetDefault("secret", "meetsignal-dev-secret")
	v.SetDefault("rate_limit.per_second", 50)
	v.SetDefault("rate_limit.burst", 100)
	v.SetDefault("meeting.secret_key", "healthcare-plus-secret-key-2024")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("stats.schedule", "@every 1m")
	v.SetDefault("sink.drivers", []string{})
	v.SetDefault("sink.queue_size", 256)
	v.SetDefault("sink.timeout", "5s")
	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	v.SetDefault("postgres.url", "")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "meetings.events")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.prefix", "healthcare:")
}

// Load reads config/config.<CONFIG_ENV>.yaml when present; SIGNAL_* env
// variables override file values.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	v.SetConfigFile(fileName)

	setDefaults(v)
	v.SetEnvPrefix("SIGNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Strs("sinks", cfg.Sink.Drivers).
		Msg("config ready")
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RemovalGrace < 0 {
		return errors.New("removal_grace must not be negative")
	}
	if c.SendBuffer <= 0 {
		return errors.New("send_buffer must be positive")
	}
	return nil
}
