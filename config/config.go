package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting the service reads at startup
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// Database
	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	// Redis, used to fan activity out to the chat/notification layer
	RedisHost       string `mapstructure:"REDIS_HOST"`
	RedisPort       string `mapstructure:"REDIS_PORT"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int    `mapstructure:"REDIS_DB"`
	ActivityChannel string `mapstructure:"ACTIVITY_CHANNEL"`

	JWTSecret         string `mapstructure:"JWT_SECRET"`
	InternalAuthToken string `mapstructure:"INTERNAL_AUTH_TOKEN"`

	// Task engine and attendance policy
	Timezone                 string `mapstructure:"TIMEZONE"`
	RectificationMaxAttempts int    `mapstructure:"RECTIFICATION_MAX_ATTEMPTS"`
	TaskMaxRetries           int    `mapstructure:"TASK_MAX_RETRIES"`
	StorageTimeoutSeconds    int    `mapstructure:"STORAGE_TIMEOUT_SECONDS"`

	LogDir string `mapstructure:"LOG_DIR"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "trackr")
	v.SetDefault("SQLITE_PATH", "trackr.db")
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ACTIVITY_CHANNEL", "trackr:activity")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("INTERNAL_AUTH_TOKEN", "")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("RECTIFICATION_MAX_ATTEMPTS", 3)
	v.SetDefault("TASK_MAX_RETRIES", 3)
	v.SetDefault("STORAGE_TIMEOUT_SECONDS", 5)
	v.SetDefault("LOG_DIR", "logs")
}

// LoadConfig reads an optional .env file under path, then environment variables
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	setDefaults(v)
	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err != nil {
		// a missing file is fine, the environment still applies
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	err = config.Validate()
	return
}

// Validate rejects settings the engine cannot run with
func (c *Config) Validate() error {
	if c.RectificationMaxAttempts < 0 {
		return fmt.Errorf("RECTIFICATION_MAX_ATTEMPTS must not be negative, got %d", c.RectificationMaxAttempts)
	}
	if c.TaskMaxRetries < 1 {
		return fmt.Errorf("TASK_MAX_RETRIES must be at least 1, got %d", c.TaskMaxRetries)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// Location is the reference timezone that decides what "today" means for attendance
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// StorageTimeout bounds every storage round-trip
func (c *Config) StorageTimeout() time.Duration {
	if c.StorageTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.StorageTimeoutSeconds) * time.Second
}

// GetDBConnString returns the MySQL DSN
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// GetRedisConnString returns the Redis address
func (c *Config) GetRedisConnString() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// RedisEnabled reports whether activity fan-out is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}
