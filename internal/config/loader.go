package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из YAML файла
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	// Валидация конфигурации
	err = validateConfig(&config)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return &config, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.InterviewConfig.TranscriptCeiling <= 0 {
		return fmt.Errorf("transcript_ceiling должно быть больше 0")
	}

	if config.InterviewConfig.MaxFollowUps <= 0 {
		return fmt.Errorf("max_follow_ups должно быть больше 0")
	}

	if config.InterviewConfig.MinFollowUpsForTransition < 0 {
		return fmt.Errorf("min_follow_ups_for_transition не может быть отрицательным")
	}

	if config.InterviewConfig.MinFollowUpsForTransition > config.InterviewConfig.MaxFollowUps {
		return fmt.Errorf("min_follow_ups_for_transition (%d) не может превышать max_follow_ups (%d)",
			config.InterviewConfig.MinFollowUpsForTransition, config.InterviewConfig.MaxFollowUps)
	}

	if len(config.ProgressThresholds) == 0 {
		return fmt.Errorf("progress_thresholds не заданы")
	}

	if _, ok := config.ProgressThresholds["technical_behavioral"]; !ok {
		return fmt.Errorf("progress_thresholds должны содержать technical_behavioral как тип по умолчанию")
	}

	for name, t := range config.ProgressThresholds {
		if t.Intro <= 0 || t.Exploration <= t.Intro || t.DeepDive <= t.Exploration {
			return fmt.Errorf("пороги для %s должны возрастать: intro < exploration < deep_dive", name)
		}
	}

	return nil
}
