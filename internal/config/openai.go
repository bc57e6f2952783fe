package config

import (
	"fmt"
	"time"
)

type OpenAIConfig struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// LoadOpenAIConfig загружает конфигурацию OpenAI из переменных окружения
func LoadOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		APIKey:     getEnv("OPENAI_API_KEY", ""),
		Model:      getEnv("OPENAI_MODEL", "gpt-4o"),
		Timeout:    getEnvAsDuration("OPENAI_TIMEOUT", 120*time.Second),
		MaxRetries: getEnvAsInt("OPENAI_MAX_RETRIES", 3),
	}
}

// Validate проверяет корректность конфигурации
func (c OpenAIConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be positive")
	}
	return nil
}
