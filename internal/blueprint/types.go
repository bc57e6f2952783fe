package blueprint

import (
	"time"
)

// Тип интервью. Значения совпадают с форматом внешнего API.
const (
	TypeTechnicalOnly       = "technical_only"
	TypeBehavioralOnly      = "behavioral_only"
	TypeTechnicalBehavioral = "technical_behavioral"
)

// QuestionType — классификация вопроса в плане интервью
type QuestionType string

const (
	QuestionIntroduction QuestionType = "introduction_job"
	QuestionTechnical    QuestionType = "technical"
	QuestionBehavioral   QuestionType = "behavioral"
)

// QuestionObject представляет один запланированный вопрос/тему.
// Неизменяем после создания.
type QuestionObject struct {
	ID                 string       `json:"id"`
	QuestionText       string       `json:"question_text"`
	QuestionType       QuestionType `json:"question_type"`
	Intent             string       `json:"intent"`
	Context            string       `json:"context"`
	ExpectedIndicators []string     `json:"expected_indicators"`
	MaxFollowUps       int          `json:"max_follow_ups"`
	TimeAllocation     int          `json:"time_allocation"`
}

// InterviewBlueprint — авторитетный план интервью, создается один раз
// при старте сессии. Каталог вопросов после создания не меняется —
// это фиксированная вселенная тем, по которой ходит селектор.
type InterviewBlueprint struct {
	SessionID     string    `json:"session_id"`
	CandidateName string    `json:"candidate_name"`
	Position      string    `json:"position"`
	Company       string    `json:"company"`
	InterviewType string    `json:"interview_type"`
	CreatedAt     time.Time `json:"created_at"`

	KeyTechnicalSkills        []string `json:"key_technical_skills"`
	KeyBehavioralCompetencies []string `json:"key_behavioral_competencies"`
	RelevantProjects          []string `json:"relevant_projects"`
	InterviewerDirectives     []string `json:"interviewer_directives"`

	IntroductionQuestions []QuestionObject `json:"introduction_questions"`
	TechnicalQuestions    []QuestionObject `json:"technical_questions"`
	BehavioralQuestions   []QuestionObject `json:"behavioral_questions"`

	// Устаревшие поля курсора для построчного режима (followup engine)
	CurrentSection       string `json:"current_section"`
	CurrentQuestionIndex int    `json:"current_question_index"`
	FollowUpCount        int    `json:"follow_up_count"`
}

// SynthesizedData — структурированная выжимка из резюме и описания вакансии
type SynthesizedData struct {
	KeyTechnicalSkills        []string `json:"key_technical_skills"`
	KeyBehavioralCompetencies []string `json:"key_behavioral_competencies"`
	RelevantProjects          []string `json:"relevant_projects"`
	CandidateStrengths        []string `json:"candidate_strengths"`
	AreasToProbe              []string `json:"areas_to_probe"`
	ResumeJobAlignment        string   `json:"resume_job_alignment"`
}

// AllowsTechnical сообщает, входят ли технические темы в данный тип интервью
func AllowsTechnical(interviewType string) bool {
	return interviewType == TypeTechnicalOnly || interviewType == TypeTechnicalBehavioral
}

// AllowsBehavioral сообщает, входят ли поведенческие темы в данный тип интервью
func AllowsBehavioral(interviewType string) bool {
	return interviewType == TypeBehavioralOnly || interviewType == TypeTechnicalBehavioral
}

// NormalizeType приводит произвольное написание типа интервью к каноническому
func NormalizeType(raw string) string {
	switch normalized := normalizeKey(raw); normalized {
	case "technical", "technical-only", "technical_only":
		return TypeTechnicalOnly
	case "behavioral", "behavioral-only", "behavioral_only":
		return TypeBehavioralOnly
	case "technical+behavioral", "behavioral+technical",
		"technical-behavioral", "behavioral-technical", "technical_behavioral":
		return TypeTechnicalBehavioral
	default:
		return TypeTechnicalBehavioral
	}
}

func normalizeKey(raw string) string {
	out := make([]rune, 0, len(raw))
	for _, r := range raw {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			// "behavioral + technical" -> "behavioral+technical"
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
