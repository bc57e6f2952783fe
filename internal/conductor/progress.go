package conductor

import (
	"strings"

	"interview-conductor/internal/config"
)

// Progress — оценка продвижения интервью для внешнего API
type Progress struct {
	Percentage int    `json:"percentage"`
	Phase      string `json:"phase"`
	Exchanges  int    `json:"exchanges"`
}

// CalculateProgress маппит длину транскрипта на четыре фиксированных
// уровня прогресса. Пороги зависят от типа интервью, так как ожидаемое
// число вопросов различается.
func CalculateProgress(transcriptLen int, interviewType string, cfg *config.Config) Progress {
	t := cfg.GetProgressThresholds(interviewType)

	p := Progress{Exchanges: transcriptLen}
	switch {
	case transcriptLen <= t.Intro:
		p.Percentage = 25
		p.Phase = "introduction"
	case transcriptLen <= t.Exploration:
		p.Percentage = 50
		p.Phase = "exploration"
	case transcriptLen <= t.DeepDive:
		p.Percentage = 75
		p.Phase = "deep_dive"
	default:
		p.Percentage = 90
		p.Phase = "completion"
	}
	return p
}

// IsCompletionUtterance распознает завершающую реплику по маркерам
func IsCompletionUtterance(utterance string) bool {
	lowered := strings.ToLower(utterance)
	if strings.Contains(lowered, "thank you") && strings.Contains(lowered, "complete") {
		return true
	}
	return strings.Contains(lowered, "that concludes")
}
