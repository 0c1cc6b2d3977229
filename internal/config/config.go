// Package config provides configuration for the assistant hub.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the hub configuration. A missing API key is not fatal at
// load time; endpoints report it per request and via the health check.
type Config struct {
	HTTPPort      int
	APIKey        string
	AssistantsDir string
	DataDir       string
	PublicDir     string
	LogLevel      string
}

// Load reads configuration from environment variables.
func Load() *Config {
	v := viper.New()
	v.SetDefault("port", 3000)
	v.SetDefault("assistants_dir", "assistants")
	v.SetDefault("data_dir", "data")
	v.SetDefault("public_dir", "public")
	v.SetDefault("log_level", "info")
	v.AutomaticEnv()

	return &Config{
		HTTPPort:      v.GetInt("port"),
		APIKey:        v.GetString("openai_api_key"),
		AssistantsDir: v.GetString("assistants_dir"),
		DataDir:       v.GetString("data_dir"),
		PublicDir:     v.GetString("public_dir"),
		LogLevel:      v.GetString("log_level"),
	}
}

// AssistantIDEnv returns the environment variable consulted for an
// assistant's remote identifier, e.g. SOX_AUDITOR_ASSISTANT_ID for key
// "sox-auditor".
func AssistantIDEnv(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_")) + "_ASSISTANT_ID"
}
