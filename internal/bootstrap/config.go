package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerHost       string        `mapstructure:"SERVER_HOST"`
	ServerPort       int           `mapstructure:"SERVER_PORT"`
	Engine           string        `mapstructure:"ENGINE"`
	MaxBodyBytes     int64         `mapstructure:"MAX_BODY_BYTES"`
	ExposeErrors     bool          `mapstructure:"EXPOSE_ERRORS"`
	LogTurns         bool          `mapstructure:"LOG_TURNS"`
	LogDebug         bool          `mapstructure:"LOG_DEBUG"`
	RedisUrl         string        `mapstructure:"REDIS_URL"`
	TurnHistoryLimit int           `mapstructure:"TURN_HISTORY_LIMIT"`
	RecordQueueSize  int           `mapstructure:"RECORD_QUEUE_SIZE"`
	MongoUri         string        `mapstructure:"MONGO_URI"`
	MongoDatabase    string        `mapstructure:"MONGO_DATABASE"`
	ObserverPort     int           `mapstructure:"OBSERVER_PORT"`
	ShutdownTimeout  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVER_HOST":        "",
	"SERVER_PORT":        8080,
	"ENGINE":             "skirmish",
	"MAX_BODY_BYTES":     int64(1 << 20),
	"EXPOSE_ERRORS":      true,
	"LOG_TURNS":          false,
	"LOG_DEBUG":          false,
	"REDIS_URL":          "",
	"TURN_HISTORY_LIMIT": 100,
	"RECORD_QUEUE_SIZE":  256,
	"MONGO_URI":          "",
	"MONGO_DATABASE":     "turnserver",
	"OBSERVER_PORT":      0,
	"SHUTDOWN_TIMEOUT":   5 * time.Second,
}

// Setup loads the configuration from cfgPath, if it exists, with environment
// variables taking precedence.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}

func (c Config) Validate() error {
	if c.ServerPort < 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT %d out of range", c.ServerPort)
	}
	if c.ObserverPort < 0 || c.ObserverPort > 65535 {
		return fmt.Errorf("OBSERVER_PORT %d out of range", c.ObserverPort)
	}
	if c.ObserverPort != 0 && c.ObserverPort == c.ServerPort {
		return fmt.Errorf("OBSERVER_PORT must differ from SERVER_PORT")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	if c.TurnHistoryLimit <= 0 {
		return fmt.Errorf("TURN_HISTORY_LIMIT must be positive")
	}
	if c.RecordQueueSize < 0 {
		return fmt.Errorf("RECORD_QUEUE_SIZE must not be negative")
	}
	if c.Engine == "" {
		return fmt.Errorf("ENGINE must be set")
	}
	return nil
}

// Addr is the turn listener address; an empty host binds all interfaces.
func (c Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, strconv.Itoa(c.ServerPort))
}

func (c Config) ObserverAddr() string {
	return net.JoinHostPort(c.ServerHost, strconv.Itoa(c.ObserverPort))
}

func (c Config) ObserverEnabled() bool {
	return c.ObserverPort > 0
}
