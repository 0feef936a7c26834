package config

import (
	"fmt"
	"log"
	"os"

	clientconfig "goqualtrics/internal/app/client/config"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath        = "../../.env"
	defaultAddress = ":8080"
	EnvLocal       = clientconfig.EnvLocal
	EnvDev         = clientconfig.EnvDev
	EnvProd        = clientconfig.EnvProd
)

type Config struct {
	Env    string
	Server server
	Client *clientconfig.Config
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
	APIKey     string `env:"API_KEY"`
}

// MustLoad загружает конфигурацию сервера поверх конфигурации клиента
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}
	return cfg
}

func Load() (*Config, error) {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Println("No .env file found, relying on environment variables")
		}
	}

	client, err := clientconfig.Load()
	if err != nil {
		return nil, err
	}

	viper.AutomaticEnv()
	viper.SetDefault("RUN_ADDRESS", defaultAddress)

	cfg := &Config{
		Env: client.Env,
		Server: server{
			RunAddress: viper.GetString("RUN_ADDRESS"),
			APIKey:     viper.GetString("API_KEY"),
		},
		Client: client,
	}

	if cfg.Env == EnvProd && cfg.Server.APIKey == "" {
		return nil, fmt.Errorf("api_key обязателен в prod окружении")
	}
	return cfg, nil
}
