package config

import (
	"encoding/json"
	"os"

	"github.com/mondaylearn/monday-learn-api/pkg/logger"
)

type Config struct {
	Database DatabaseConfig `json:"database"`
	Server   ServerConfig   `json:"server"`
	Logging  LoggingConfig  `json:"logging"`
	Report   ReportConfig   `json:"report"`
}

type DatabaseConfig struct {
	Driver   string `json:"driver"` // postgres | sqlite
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	Port     int    `json:"port"`
	SSLMode  string `json:"sslmode"`
	Path     string `json:"path"` // sqlite file path
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type LoggingConfig struct {
	Level     string `json:"level"`
	File      string `json:"file"`
	GormLevel string `json:"gorm_level"`
}

type ReportConfig struct {
	TimeoutSeconds int `json:"timeout_seconds"`
}

var AppConfig Config

func LoadConfig(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		logger.Error("failed to open config file", "error", err)
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&AppConfig); err != nil {
		logger.Error("failed to decode config file", "error", err)
		return err
	}

	applyEnvOverrides(&AppConfig)
	return nil
}

// Secrets can be kept out of the config file and injected through the
// environment (a .env file is loaded by the entrypoint before this runs).
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MONDAY_LEARN_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("MONDAY_LEARN_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("MONDAY_LEARN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
