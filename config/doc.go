// Package config loads recordkit configuration.
//
// It uses Viper to read a config.yml found in SearchDirs (or given
// explicitly), loads an optional .env file with godotenv, and binds every
// mapstructure key of the target struct to an environment variable named
// after it, so RECORD_MAX_RECORDS sets record.max_records.
//
// # Usage
//
//	var cfg SystemConfig
//	err := config.LoadConfig("recordd", &cfg, config.WithConfigFile("config.yml"))
package config
