package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	CSV struct {
		Input             string `mapstructure:"input"`
		TransformedOutput string `mapstructure:"transformed_output"`
	} `mapstructure:"csv"`

	Mapping struct {
		AccountPath  string `mapstructure:"account_path"`
		CategoryPath string `mapstructure:"category_path"`
	} `mapstructure:"mapping"`

	LunchMoney struct {
		BaseURL   string `mapstructure:"base_url"`
		APIKey    string `mapstructure:"api_key"` // never written back to disk
		BatchSize int    `mapstructure:"batch_size"`
	} `mapstructure:"lunchmoney"`
}

// InitializeConfig initializes Viper configuration with hierarchical
// loading: defaults, then an optional config file, then MINT_* environment
// variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.mint-lunchmoney")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MINT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			Logger.Warnf("error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	// The API key is always read from the unprefixed variable the Lunch
	// Money docs use.
	if err := v.BindEnv("lunchmoney.api_key", "LUNCH_MONEY_API_KEY"); err != nil {
		Logger.Warnf("failed to bind LUNCH_MONEY_API_KEY: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("csv.input", "data.csv")
	v.SetDefault("csv.transformed_output", "data_transformed.csv")
	v.SetDefault("mapping.account_path", "account_mapping.json")
	v.SetDefault("mapping.category_path", "category_mapping.json")
	v.SetDefault("lunchmoney.base_url", "https://dev.lunchmoney.app")
	v.SetDefault("lunchmoney.batch_size", 100)
}

func validateConfig(config *Config) error {
	if config.LunchMoney.BatchSize < 1 {
		return fmt.Errorf("lunchmoney.batch_size must be positive, got %d", config.LunchMoney.BatchSize)
	}
	if config.LunchMoney.BaseURL == "" {
		return fmt.Errorf("lunchmoney.base_url must not be empty")
	}
	return nil
}
