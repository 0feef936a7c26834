package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	defaultBaseURL     = "https://co1.qualtrics.com/API/v3"
	defaultLogLevel    = "info"
	defaultEnv         = EnvLocal
	defaultConfigDir   = ".goqualtrics"
	defaultResponseDir = "responses"
	defaultFilterStore = "sqlite"
	defaultMigrations  = "file://migrations"
)

type Config struct {
	Env            string        `mapstructure:"app_env" validate:"omitempty,oneof=local dev prod"`
	LogLevel       string        `mapstructure:"log_level"`
	BaseURL        string        `mapstructure:"qualtrics_base_url" validate:"required,url"`
	Token          string        `mapstructure:"qualtrics_token"`
	Passphrase     string        `mapstructure:"token_passphrase"`
	ConfigDir      string        `mapstructure:"config_dir"`
	TokenPath      string        `mapstructure:"token_path"`
	DataPath       string        `mapstructure:"data_path" validate:"required"`
	ResponseDir    string        `mapstructure:"response_dir"`
	SettleDelay    time.Duration `mapstructure:"settle_delay_ms" validate:"gte=0"`
	PollInterval   time.Duration `mapstructure:"poll_interval_ms" validate:"gte=0"`
	PollAttempts   int           `mapstructure:"poll_max_attempts" validate:"gte=0"`
	PollTimeout    time.Duration `mapstructure:"poll_timeout_seconds" validate:"gte=0"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout_seconds" validate:"gte=0"`
	Verbose        bool          `mapstructure:"verbose"`
	FilterStore    string        `mapstructure:"filter_store" validate:"oneof=sqlite postgres"`
	DatabaseURI    string        `mapstructure:"database_uri" validate:"required_if=FilterStore postgres"`
	MigrationsPath string        `mapstructure:"migrations_path"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// MustLoad загружает конфигурацию клиента
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load читает .env и переменные окружения
func Load() (*Config, error) {
	loadDotEnv()

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("QUALTRICS_BASE_URL", defaultBaseURL)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("RESPONSE_DIR", defaultResponseDir)
	viper.SetDefault("SETTLE_DELAY_MS", 1000)
	viper.SetDefault("POLL_INTERVAL_MS", 1000)
	viper.SetDefault("POLL_MAX_ATTEMPTS", 600)
	viper.SetDefault("POLL_TIMEOUT_SECONDS", 900)
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 60)
	viper.SetDefault("VERBOSE", false)
	viper.SetDefault("FILTER_STORE", defaultFilterStore)
	viper.SetDefault("MIGRATIONS_PATH", defaultMigrations)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("Ошибка создания директории конфигурации: %v\n", err)
	}

	dataPath := viper.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, "goqualtrics.db")
	}

	responseDir := viper.GetString("RESPONSE_DIR")
	if responseDir == defaultResponseDir {
		responseDir = filepath.Join(configDir, responseDir)
	}

	cfg := &Config{
		Env:            viper.GetString("APP_ENV"),
		LogLevel:       viper.GetString("LOG_LEVEL"),
		BaseURL:        viper.GetString("QUALTRICS_BASE_URL"),
		Token:          viper.GetString("QUALTRICS_TOKEN"),
		Passphrase:     viper.GetString("TOKEN_PASSPHRASE"),
		ConfigDir:      configDir,
		TokenPath:      filepath.Join(configDir, "token"),
		DataPath:       dataPath,
		ResponseDir:    responseDir,
		SettleDelay:    time.Duration(viper.GetInt("SETTLE_DELAY_MS")) * time.Millisecond,
		PollInterval:   time.Duration(viper.GetInt("POLL_INTERVAL_MS")) * time.Millisecond,
		PollAttempts:   viper.GetInt("POLL_MAX_ATTEMPTS"),
		PollTimeout:    time.Duration(viper.GetInt("POLL_TIMEOUT_SECONDS")) * time.Second,
		HTTPTimeout:    time.Duration(viper.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,
		Verbose:        viper.GetBool("VERBOSE"),
		FilterStore:    strings.ToLower(viper.GetString("FILTER_STORE")),
		DatabaseURI:    viper.GetString("DATABASE_URI"),
		MigrationsPath: viper.GetString("MIGRATIONS_PATH"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv() {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}
}

// Validate проверяет значения по тегам validate
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("некорректная конфигурация: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " не может быть пустым"
	case "required_if":
		return fe.Field() + " обязателен при " + fe.Param()
	case "url":
		return fe.Field() + " должен быть абсолютным URL"
	case "oneof":
		return fmt.Sprintf("%s: допустимые значения %s, получено %q", fe.Field(), fe.Param(), fe.Value())
	case "gte":
		return fe.Field() + " не может быть отрицательным"
	}
	return fe.Field() + ": " + fe.Tag()
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == EnvDev
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}
