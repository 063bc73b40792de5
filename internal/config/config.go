package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Review   ReviewConfig   `mapstructure:"review"`
	Stats    StatsConfig    `mapstructure:"stats"`
	Server   ServerConfig   `mapstructure:"server"`
	Timer    TimerConfig    `mapstructure:"timer"`
}

type StorageConfig struct {
	Driver                string `mapstructure:"driver" validate:"oneof=file mysql sqlite postgres"`
	Directory             string `mapstructure:"directory" validate:"required_if=Driver file,notfile"`
	PrimaryKey            string `mapstructure:"primary_key" validate:"required,nefield=BackupKey"`
	BackupKey             string `mapstructure:"backup_key" validate:"required"`
	BackupIntervalSeconds int    `mapstructure:"backup_interval_seconds" validate:"gte=0"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	URL             string            `mapstructure:"url" validate:"omitempty,url"`
	Path            string            `mapstructure:"path"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type RemoteConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"omitempty,url"`
	Collection     string `mapstructure:"collection"`
	Key            string `mapstructure:"key"`
	RetryAttempts  uint   `mapstructure:"retry_attempts"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
}

type ReviewConfig struct {
	Limit int `mapstructure:"limit" validate:"gte=1"`
}

type StatsConfig struct {
	Window   string `mapstructure:"window" validate:"oneof=calendar rolling"`
	Timezone string `mapstructure:"timezone" validate:"omitempty,timezone"`
	TopTags  int    `mapstructure:"top_tags" validate:"gte=1"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"gte=1,lte=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type TimerConfig struct {
	FocusMinutes int `mapstructure:"focus_minutes" validate:"gte=1"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/devnote")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.directory", filepath.Join("data"))
	v.SetDefault("storage.primary_key", "devnote_data")
	v.SetDefault("storage.backup_key", "devnote_data_backup")
	v.SetDefault("storage.backup_interval_seconds", 300)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "devnote")
	v.SetDefault("database.username", "user")
	v.SetDefault("database.path", filepath.Join("data", "devnote.db"))
	v.SetDefault("remote.collection", "devnote_users")
	v.SetDefault("remote.retry_attempts", 3)
	v.SetDefault("remote.timeout_seconds", 30)
	v.SetDefault("review.limit", 10)
	v.SetDefault("stats.window", "calendar")
	v.SetDefault("stats.top_tags", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("timer.focus_minutes", 25)

	// The sync key identifies the remote document, so keep it out of config files
	if err := v.BindEnv("remote.key", "DEVNOTE_REMOTE_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind DEVNOTE_REMOTE_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("database.url", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
