package blueprint

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"interview-conductor/internal/prompts"
	"interview-conductor/internal/sanitizer"
)

// Builder собирает план интервью из синтезированных данных.
// Один вызов оракула на сессию; при любом сбое — жестко зашитый план.
type Builder struct {
	llm LLMClient
}

// NewBuilder создает построитель планов
func NewBuilder(llm LLMClient) *Builder {
	return &Builder{llm: llm}
}

// Гибкий формат ответа оракула: план может прийти обернутым в
// interview_plan, лежать на верхнем уровне или использовать
// topic_modules вместо interview_flow.
type rawBlueprint struct {
	InterviewPlan         *rawPlan         `json:"interview_plan"`
	InterviewFlow         []rawFlowItem    `json:"interview_flow"`
	TopicModules          []rawTopicModule `json:"topic_modules"`
	InterviewerDirectives []string         `json:"interviewer_directives"`
}

type rawPlan struct {
	InterviewFlow         []rawFlowItem    `json:"interview_flow"`
	TopicModules          []rawTopicModule `json:"topic_modules"`
	InterviewerDirectives []string         `json:"interviewer_directives"`
}

type rawFlowItem struct {
	Phase        string `json:"phase"`
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
	TopicModule  string `json:"topic_module"`
	Intent       string `json:"intent"`
}

type rawTopicModule struct {
	TopicName       string `json:"topic_name"`
	Name            string `json:"name"`
	QuestionID      string `json:"question_id"`
	OpeningQuestion string `json:"opening_question"`
	Question        string `json:"question"`
	Intent          string `json:"intent"`
}

// NewSessionID выдает идентификатор вида interview_20250830_141502_a1b2c3d4
func NewSessionID() string {
	return fmt.Sprintf("interview_%s_%s",
		time.Now().Format("20060102_150405"),
		uuid.New().String()[:8])
}

// Build создает план интервью. Никогда не возвращает ошибку: при сбое
// оракула или нераспознаваемом ответе отдается fallback-план, чтобы
// сессия всегда стартовала.
func (b *Builder) Build(ctx context.Context, data SynthesizedData, candidateName, position, company, interviewType string) *InterviewBlueprint {
	interviewType = NormalizeType(interviewType)

	bp := &InterviewBlueprint{
		SessionID:     NewSessionID(),
		CandidateName: candidateName,
		Position:      position,
		Company:       company,
		InterviewType: interviewType,
		CreatedAt:     time.Now(),

		KeyTechnicalSkills:        data.KeyTechnicalSkills,
		KeyBehavioralCompetencies: data.KeyBehavioralCompetencies,
		RelevantProjects:          data.RelevantProjects,

		CurrentSection: "introduction",
	}

	synthesized, err := json.Marshal(data)
	if err != nil {
		synthesized = []byte("{}")
	}

	prompt := prompts.Blueprint(interviewType, string(synthesized), position, company)
	response, err := b.llm.GenerateResponse(ctx, prompt, 0.2, 4000)
	if err != nil {
		log.Printf("План интервью: оракул недоступен (%v), используем fallback", err)
		return fallbackBlueprint(bp)
	}

	cleaned, err := sanitizer.Extract(response)
	if err != nil {
		log.Printf("План интервью: не удалось восстановить JSON, используем fallback")
		return fallbackBlueprint(bp)
	}

	var raw rawBlueprint
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		log.Printf("План интервью: ошибка парсинга (%v), используем fallback", err)
		return fallbackBlueprint(bp)
	}

	flow, modules, directives := normalizeShape(raw)
	bp.InterviewerDirectives = directives

	switch {
	case len(flow) > 0:
		fillFromFlow(bp, flow)
	case len(modules) > 0:
		fillFromModules(bp, modules)
	default:
		log.Printf("План интервью: пустой ответ оракула, используем fallback")
		return fallbackBlueprint(bp)
	}

	if countQuestions(bp) == 0 {
		return fallbackBlueprint(bp)
	}

	log.Printf("План интервью %s собран: %d intro, %d tech, %d behavioral",
		bp.SessionID, len(bp.IntroductionQuestions), len(bp.TechnicalQuestions), len(bp.BehavioralQuestions))
	return bp
}

func normalizeShape(raw rawBlueprint) ([]rawFlowItem, []rawTopicModule, []string) {
	if raw.InterviewPlan != nil {
		directives := raw.InterviewPlan.InterviewerDirectives
		if len(directives) == 0 {
			directives = raw.InterviewerDirectives
		}
		return raw.InterviewPlan.InterviewFlow, raw.InterviewPlan.TopicModules, directives
	}
	return raw.InterviewFlow, raw.TopicModules, raw.InterviewerDirectives
}

func fillFromFlow(bp *InterviewBlueprint, flow []rawFlowItem) {
	for i, item := range flow {
		text := strings.TrimSpace(item.QuestionText)
		if text == "" {
			continue
		}
		id := item.QuestionID
		if id == "" {
			id = fmt.Sprintf("Q_%02d", i+1)
		}
		qType := classify(item.Phase, item.TopicModule, item.Intent, bp.InterviewType)
		bp.appendQuestion(QuestionObject{
			ID:                 id,
			QuestionText:       text,
			QuestionType:       qType,
			Intent:             item.Intent,
			Context:            item.Phase,
			ExpectedIndicators: defaultIndicators(qType),
			MaxFollowUps:       2,
			TimeAllocation:     extractMinutes(item.Phase, item.TopicModule),
		})
	}
}

func fillFromModules(bp *InterviewBlueprint, modules []rawTopicModule) {
	for i, m := range modules {
		text := strings.TrimSpace(m.OpeningQuestion)
		if text == "" {
			text = strings.TrimSpace(m.Question)
		}
		if text == "" {
			continue
		}
		name := m.TopicName
		if name == "" {
			name = m.Name
		}
		id := m.QuestionID
		if id == "" {
			id = fmt.Sprintf("Q_%02d", i+1)
		}
		qType := classify(name, name, m.Intent, bp.InterviewType)
		bp.appendQuestion(QuestionObject{
			ID:                 id,
			QuestionText:       text,
			QuestionType:       qType,
			Intent:             m.Intent,
			Context:            name,
			ExpectedIndicators: defaultIndicators(qType),
			MaxFollowUps:       2,
			TimeAllocation:     extractMinutes(name, name),
		})
	}
}

func (bp *InterviewBlueprint) appendQuestion(q QuestionObject) {
	switch q.QuestionType {
	case QuestionIntroduction:
		bp.IntroductionQuestions = append(bp.IntroductionQuestions, q)
	case QuestionBehavioral:
		bp.BehavioralQuestions = append(bp.BehavioralQuestions, q)
	default:
		bp.TechnicalQuestions = append(bp.TechnicalQuestions, q)
	}
}

func countQuestions(bp *InterviewBlueprint) int {
	return len(bp.IntroductionQuestions) + len(bp.TechnicalQuestions) + len(bp.BehavioralQuestions)
}

var behavioralMarkers = []string{
	"behavioral", "leadership", "teamwork", "collaboration", "communication",
	"conflict", "adaptability", "initiative", "ownership", "star",
	"experience", "team", "management", "project management",
}

var technicalMarkers = []string{
	"technical", "coding", "programming", "system", "design", "algorithm",
	"problem", "case", "architecture", "performance", "optimization", "deep dive",
}

// classify определяет тип вопроса по названию фазы/модуля/намерения.
// Порядок правил фиксирован: вступление, затем поведенческие маркеры,
// затем технические, иначе — дефолт по типу интервью.
func classify(phase, topicModule, intent, interviewType string) QuestionType {
	combined := strings.ToLower(phase + " " + topicModule + " " + intent)

	if strings.Contains(combined, "introduction") || strings.Contains(combined, "opening") {
		return QuestionIntroduction
	}
	for _, marker := range behavioralMarkers {
		if strings.Contains(combined, marker) {
			if interviewType == TypeTechnicalOnly {
				return QuestionTechnical
			}
			return QuestionBehavioral
		}
	}
	for _, marker := range technicalMarkers {
		if strings.Contains(combined, marker) {
			if interviewType == TypeBehavioralOnly {
				return QuestionBehavioral
			}
			return QuestionTechnical
		}
	}
	if interviewType == TypeBehavioralOnly {
		return QuestionBehavioral
	}
	return QuestionTechnical
}

var minutesRe = regexp.MustCompile(`\((\d+)\s*mins?\)`)

// extractMinutes достает тайминг из текста фазы вида "Deep Dive (20 mins)";
// если тайминг не указан, подставляются дефолты по типу фазы
func extractMinutes(phase, topicModule string) int {
	for _, s := range []string{phase, topicModule} {
		if m := minutesRe.FindStringSubmatch(strings.ToLower(s)); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	combined := strings.ToLower(phase + " " + topicModule)
	switch {
	case strings.Contains(combined, "introduction") || strings.Contains(combined, "opening"):
		return 5
	case strings.Contains(combined, "deep dive"):
		return 20
	case strings.Contains(combined, "problem") || strings.Contains(combined, "case"):
		return 15
	case strings.Contains(combined, "closing"):
		return 5
	default:
		return 10
	}
}

func defaultIndicators(qType QuestionType) []string {
	switch qType {
	case QuestionIntroduction:
		return []string{"clear communication", "relevant background"}
	case QuestionBehavioral:
		return []string{"specific situation", "concrete actions", "measurable results"}
	default:
		return []string{"technical depth", "concrete examples", "trade-off awareness"}
	}
}

// fallbackBlueprint — жестко зашитый план на случай сбоя оракула.
// Состав секций подрезается под тип интервью.
func fallbackBlueprint(bp *InterviewBlueprint) *InterviewBlueprint {
	bp.InterviewerDirectives = []string{
		"Maintain a professional but friendly tone",
		"Ask one question at a time",
		"Probe for specific details and concrete examples",
	}

	bp.IntroductionQuestions = []QuestionObject{{
		ID:                 "OPENER_01",
		QuestionText:       fmt.Sprintf("Hi! Thanks for joining today. To start, could you walk me through your background and what drew you to the %s role?", bp.Position),
		QuestionType:       QuestionIntroduction,
		Intent:             "Set a comfortable tone and learn the candidate's narrative",
		Context:            "Introduction (5 mins)",
		ExpectedIndicators: defaultIndicators(QuestionIntroduction),
		MaxFollowUps:       1,
		TimeAllocation:     5,
	}}

	if AllowsBehavioral(bp.InterviewType) {
		bp.BehavioralQuestions = []QuestionObject{{
			ID:                 "TB_01",
			QuestionText:       "Tell me about a time you faced a significant challenge on a project. What was the situation, and how did you handle it?",
			QuestionType:       QuestionBehavioral,
			Intent:             "Assess problem ownership and resilience",
			Context:            "Behavioral (10 mins)",
			ExpectedIndicators: defaultIndicators(QuestionBehavioral),
			MaxFollowUps:       2,
			TimeAllocation:     10,
		}}
	}

	if AllowsTechnical(bp.InterviewType) {
		bp.TechnicalQuestions = []QuestionObject{{
			ID:                 "CASE_01",
			QuestionText:       "Let's work through a scenario: how would you approach designing a system for the core requirements of this role? Walk me through your thinking.",
			QuestionType:       QuestionTechnical,
			Intent:             "Evaluate structured technical reasoning",
			Context:            "Case Study (15 mins)",
			ExpectedIndicators: defaultIndicators(QuestionTechnical),
			MaxFollowUps:       2,
			TimeAllocation:     15,
		}}
	}

	closing := QuestionObject{
		ID:                 "CLOSING_01",
		QuestionText:       "We're coming up on time. Do you have any questions for me about the team or the role?",
		QuestionType:       QuestionIntroduction,
		Intent:             "Give the candidate space for their own questions",
		Context:            "Closing (5 mins)",
		ExpectedIndicators: defaultIndicators(QuestionIntroduction),
		MaxFollowUps:       0,
		TimeAllocation:     5,
	}
	bp.IntroductionQuestions = append(bp.IntroductionQuestions, closing)

	log.Printf("План интервью %s: используется резервный план (%d вопросов)",
		bp.SessionID, countQuestions(bp))
	return bp
}
