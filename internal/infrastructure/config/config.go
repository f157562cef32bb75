package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultModel       = "hermes-4-405b"
	DefaultTemperature = float32(0.7)
	DefaultMaxTokens   = 2048
)

// Settings are the user defaults loaded from ~/.hermes/config.yaml. Every
// field has a built-in fallback; the file is optional.
type Settings struct {
	Model            string       `mapstructure:"model"`
	Temperature      float32      `mapstructure:"temperature"`
	MaxTokens        int          `mapstructure:"max_tokens"`
	ConversationsDir string       `mapstructure:"conversations_dir"`
	LogLevel         string       `mapstructure:"log_level"`
	Tools            ToolSettings `mapstructure:"tools"`
}

type ToolSettings struct {
	Default       string `mapstructure:"default"`
	MaxIterations int    `mapstructure:"max_iterations"`
}

// HermesDir returns the base directory for all persisted state.
func HermesDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".hermes"), nil
}

// Load reads config.yaml from dir, returning built-in defaults when the file
// does not exist. An unreadable or malformed file is an error.
func Load(dir string) (*Settings, error) {
	settings := &Settings{
		Model:            DefaultModel,
		Temperature:      DefaultTemperature,
		MaxTokens:        DefaultMaxTokens,
		ConversationsDir: filepath.Join(dir, "conversations"),
		LogLevel:         "warn",
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, err
	}

	decode := func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}
	if err := v.Unmarshal(settings, viper.DecoderConfigOption(decode)); err != nil {
		return nil, err
	}
	return settings, nil
}
