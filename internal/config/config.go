// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Translator backends.
const (
	TranslatorOpenAI = "openai"
	TranslatorLambda = "lambda"
	TranslatorNone   = "none"
)

// Config is read once at cold start.
type Config struct {
	StateTable         string `env:"STATE_TABLE,required,notEmpty"`
	ParamPrefix        string `env:"PARAM_PREFIX,required,notEmpty"`
	Translator         string `env:"TRANSLATOR" envDefault:"openai"`
	TranslatorFunction string `env:"TRANSLATOR_FUNCTION"`
	OpenAIModel        string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL      string `env:"OPENAI_BASE_URL"`
	TranscriptEnabled  bool   `env:"TRANSCRIPT_ENABLED" envDefault:"true"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.ParamPrefix = strings.TrimRight(strings.TrimSpace(cfg.ParamPrefix), "/")
	cfg.Translator = strings.ToLower(strings.TrimSpace(cfg.Translator))
	switch cfg.Translator {
	case TranslatorOpenAI, TranslatorLambda, TranslatorNone:
	default:
		return Config{}, fmt.Errorf("config: unknown TRANSLATOR %q", cfg.Translator)
	}
	return cfg, nil
}

// TranslatorFunctionParam is the SSM parameter consulted when TRANSLATOR_FUNCTION is unset.
func (c Config) TranslatorFunctionParam() string {
	return c.ParamPrefix + "/config/translator_function"
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}
