package config

// Config представляет конфигурацию настройки интервью
type Config struct {
	InterviewConfig    InterviewConfig               `yaml:"interview_config"`
	ProgressThresholds map[string]ProgressThresholds `yaml:"progress_thresholds"`
}

// InterviewConfig содержит общие настройки движка разговора
type InterviewConfig struct {
	// Жесткий потолок длины транскрипта: при его достижении интервью
	// завершается вне зависимости от покрытия тем
	TranscriptCeiling int `yaml:"transcript_ceiling"`
	// Максимум подряд идущих CHALLENGE/DEEPEN на одной теме
	MaxFollowUps int `yaml:"max_follow_ups"`
	// Минимум follow-up вопросов прежде чем принимать TRANSITION от модели
	MinFollowUpsForTransition int `yaml:"min_follow_ups_for_transition"`
}

// ProgressThresholds задает пороги количества реплик для фаз интервью
// одного типа. Ожидаемое число вопросов различается по типам, поэтому
// пороги свои для technical_only / behavioral_only / technical_behavioral.
type ProgressThresholds struct {
	Intro       int `yaml:"intro"`
	Exploration int `yaml:"exploration"`
	DeepDive    int `yaml:"deep_dive"`
}

// Методы для удобного доступа к конфигурации
func (c *Config) GetTranscriptCeiling() int {
	return c.InterviewConfig.TranscriptCeiling
}

func (c *Config) GetMaxFollowUps() int {
	return c.InterviewConfig.MaxFollowUps
}

func (c *Config) GetMinFollowUpsForTransition() int {
	return c.InterviewConfig.MinFollowUpsForTransition
}

// GetProgressThresholds возвращает пороги для типа интервью,
// по умолчанию — пороги комбинированного интервью
func (c *Config) GetProgressThresholds(interviewType string) ProgressThresholds {
	if t, ok := c.ProgressThresholds[interviewType]; ok {
		return t
	}
	return c.ProgressThresholds["technical_behavioral"]
}

// Default возвращает конфигурацию по умолчанию — движок должен работать
// и без YAML файла
func Default() *Config {
	return &Config{
		InterviewConfig: InterviewConfig{
			TranscriptCeiling:         20,
			MaxFollowUps:              3,
			MinFollowUpsForTransition: 2,
		},
		ProgressThresholds: map[string]ProgressThresholds{
			"technical_only":       {Intro: 3, Exploration: 10, DeepDive: 16},
			"behavioral_only":      {Intro: 3, Exploration: 8, DeepDive: 14},
			"technical_behavioral": {Intro: 4, Exploration: 12, DeepDive: 18},
		},
	}
}
