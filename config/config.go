package config

import (
	"brightnest/internal/logger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string  `mapstructure:"GENERAL_VERSION"`
	Environment          string  `mapstructure:"ENVIRONMENT"`
	ServerPort           int     `mapstructure:"SERVER_PORT"`
	DatabaseHost         string  `mapstructure:"DB_HOST"`
	DatabasePort         int     `mapstructure:"DB_PORT"`
	DatabaseName         string  `mapstructure:"DB_NAME"`
	DatabaseUser         string  `mapstructure:"DB_USER"`
	DatabasePassword     string  `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string  `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int     `mapstructure:"DB_CACHE_PORT"`
	CorsAllowOrigins     string  `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret            string  `mapstructure:"JWT_SECRET"`
	PIIEncryptionKey     string  `mapstructure:"PII_ENCRYPTION_KEY"`
	DemoAccountEmail     string  `mapstructure:"DEMO_ACCOUNT_EMAIL"`
	DemoPreviewEmail     string  `mapstructure:"DEMO_PREVIEW_EMAIL"`
	SchedulerEnabled     bool    `mapstructure:"SCHEDULER_ENABLED"`
	DispatchRadiusMiles  float64 `mapstructure:"DISPATCH_RADIUS_MILES"`
}

var ConfigInstance Config

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
		"CORS_ALLOW_ORIGINS",
		"JWT_SECRET", "PII_ENCRYPTION_KEY",
		"DEMO_ACCOUNT_EMAIL", "DEMO_PREVIEW_EMAIL",
		"SCHEDULER_ENABLED", "DISPATCH_RADIUS_MILES",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(&config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config", "environment", config.Environment)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func validateConfig(config *Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.JWTSecret == "" {
		return log.ErrMsg("Fatal error: JWT_SECRET is required")
	}

	// AES-256-GCM needs a 32 byte key, supplied hex encoded
	if config.PIIEncryptionKey != "" && len(config.PIIEncryptionKey) != 64 {
		return log.Error(
			"Fatal error: PII_ENCRYPTION_KEY must be 64 hex characters",
			"length", len(config.PIIEncryptionKey),
		)
	}

	if config.DemoAccountEmail != "" && config.DemoPreviewEmail == "" {
		return log.ErrMsg(
			"Fatal error: DEMO_PREVIEW_EMAIL required when DEMO_ACCOUNT_EMAIL is set",
		)
	}

	if config.DispatchRadiusMiles < 0 {
		return log.Error(
			"Fatal error: invalid dispatch radius",
			"radiusMiles", config.DispatchRadiusMiles,
		)
	}

	ConfigInstance = *config
	return nil
}
