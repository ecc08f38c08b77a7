package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Environment string `mapstructure:"environment"`

	StoreBackend  string `mapstructure:"store_backend"` // "memory" or "firebase"
	FirebaseURL   string `mapstructure:"firebase_url"`
	FirebaseToken string `mapstructure:"firebase_token"`

	HTTPAddr string `mapstructure:"http_addr"`

	KafkaEnabled    bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList string `mapstructure:"kafka_broker_list"`

	ArchiveEnabled bool   `mapstructure:"archive_enabled"`
	PostgresDSN    string `mapstructure:"postgres_dsn"`

	S3Region string `mapstructure:"s3_region"`
	S3Bucket string `mapstructure:"s3_bucket"`

	EventLogPath string `mapstructure:"event_log_path"`

	GeolocationTimeout time.Duration `mapstructure:"geolocation_timeout"`

	SeedOnEmpty  bool `mapstructure:"seed_on_empty"`
	SeedBranches int  `mapstructure:"seed_branches"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("tableserve")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("environment", "development")
	viper.SetDefault("store_backend", "memory")
	viper.SetDefault("http_addr", ":8080")
	viper.SetDefault("geolocation_timeout", "10s")
	viper.SetDefault("seed_branches", 2)

	if err := viper.ReadInConfig(); err != nil {
		// A config file is optional; flags and env cover the defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if config.StoreBackend == "firebase" && config.FirebaseURL == "" {
		return nil, fmt.Errorf("firebase_url is required when store_backend is firebase")
	}

	return &config, nil
}
