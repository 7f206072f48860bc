package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Detection holds the default template matching parameters
type Detection struct {
	Threshold     float64 `mapstructure:"threshold"`
	MinThreshold  float64 `mapstructure:"min_threshold"`
	MaxRetries    int     `mapstructure:"max_retries"`
	CheckInterval float64 `mapstructure:"check_interval"`
	ReferenceW    int     `mapstructure:"reference_width"`
	ReferenceH    int     `mapstructure:"reference_height"`
}

// Input selects and configures the input backend
type Input struct {
	Backend  string `mapstructure:"backend"` // "robotgo" or "arduino"
	Port     string `mapstructure:"port"`
	BaudRate int    `mapstructure:"baud_rate"`
}

// Database configures the optional MySQL results sink
type Database struct {
	DSN      string `mapstructure:"dsn"`
	SaveToDB int    `mapstructure:"save_to_db"`
}

// Config is the application configuration loaded from config.yaml
type Config struct {
	ResultsDir     string    `mapstructure:"results_dir"`
	ScreenshotsDir string    `mapstructure:"screenshots_dir"`
	PresetsDir     string    `mapstructure:"presets_dir"`
	LogFilePath    string    `mapstructure:"log_file_path"`
	Detection      Detection `mapstructure:"detection"`
	Input          Input     `mapstructure:"input"`
	Database       Database  `mapstructure:"database"`
}

// InitConfig reads config.yaml from the working directory. A missing file is
// not an error: defaults cover every field.
func InitConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %v", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %v", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("results_dir", "results")
	v.SetDefault("screenshots_dir", "results/screenshots")
	v.SetDefault("presets_dir", "presets")
	v.SetDefault("log_file_path", "logs/katana_benchmark.log")

	v.SetDefault("detection.threshold", 0.8)
	v.SetDefault("detection.min_threshold", 0.6)
	v.SetDefault("detection.max_retries", 3)
	v.SetDefault("detection.check_interval", 1.0)
	v.SetDefault("detection.reference_width", 1920)
	v.SetDefault("detection.reference_height", 1080)

	v.SetDefault("input.backend", "robotgo")
	v.SetDefault("input.port", "COM3")
	v.SetDefault("input.baud_rate", 9600)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.save_to_db", 0)
}
