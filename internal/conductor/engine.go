package conductor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"interview-conductor/internal/blueprint"
	"interview-conductor/internal/config"
	"interview-conductor/internal/prompts"
	"interview-conductor/internal/sanitizer"
)

// LLMClient — текстовый оракул. Выполняется internal/api.Client.
type LLMClient interface {
	GenerateResponse(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// Фиксированная реплика на случай полного отказа оракула: безопаснее
// переспросить деталь, чем молчать или перескакивать тему
const fallbackChallengeUtterance = "Could you elaborate on that point with more specific details?"

// Маркеры начала вопроса. Используются чтобы отрезать вопрос оракула
// от его переходной фразы: вопрос всегда подставляет селектор.
var questionStarters = []string{
	"Can you tell me", "Could you", "What", "How",
	"Describe", "Walk me through", "Tell me about",
}

// Engine — трехслойный движок разговора. Слой 1 (детерминированная
// проверка капитуляции) и слой 3 (счетчик фрустрации) выполняются в
// коде до обращения к оракулу; слой 2 — решение оракула, пропущенное
// через защитные проверки.
type Engine struct {
	llm LLMClient
	cfg *config.Config
}

// NewEngine создает движок разговора
func NewEngine(llm LLMClient, cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{llm: llm, cfg: cfg}
}

// ProcessTurn обрабатывает один ответ кандидата. Транскрипт передается
// уже с добавленной репликой кандидата; реплику Sarah в транскрипт
// добавляет вызывающий. Ошибок не возвращает: любой сбой оракула
// вырождается в фиксированный CHALLENGE.
func (e *Engine) ProcessTurn(ctx context.Context, bp *blueprint.InterviewBlueprint, state *SessionState, transcript []string, answer string) TurnResult {
	// Жесткий потолок длины: разговор завершается вне зависимости
	// от покрытия тем
	if len(transcript) >= e.cfg.GetTranscriptCeiling() {
		return TurnResult{
			Utterance: closingMessage(bp.Company),
			Action:    ActionTransition,
			Completed: true,
		}
	}

	// Слой 1: детерминированная проверка капитуляции, оракул не трогаем
	if IsConcession(answer) {
		log.Printf("Сессия %s: капитуляция в ответе, пивот без оракула", bp.SessionID)
		return e.concedeAndPivot(bp, state)
	}

	// Слой 3: счетчик фрустрации — принудительная смена темы после
	// серии уточнений по одной теме
	if state.FollowUpCount >= e.cfg.GetMaxFollowUps() &&
		(state.LastAction == ActionChallenge || state.LastAction == ActionDeepen) {
		log.Printf("Сессия %s: %d уточнений подряд, принудительный переход", bp.SessionID, state.FollowUpCount)
		return e.forceTransition(bp, state)
	}

	// Слой 2: решение оракула
	decision := e.askOracle(ctx, bp, state, transcript, answer)

	switch decision.ChosenAction {
	case ActionConcedeAndPivot:
		return e.concedeAndPivot(bp, state)

	case ActionTransition:
		// Переход принимается только после достаточного погружения
		// в текущую тему; иначе возвращаемся к углублению
		if state.FollowUpCount >= e.cfg.GetMinFollowUpsForTransition() || state.CurrentTopicID == "intro" {
			return e.acceptTransition(bp, state, decision)
		}
		log.Printf("Сессия %s: переход отклонен (%d уточнений на %s), продолжаем тему",
			bp.SessionID, state.FollowUpCount, state.CurrentTopicID)
		decision.ChosenAction = ActionDeepen
		fallthrough

	default: // CHALLENGE / DEEPEN
		utterance := strings.TrimSpace(decision.NextUtterance)
		if utterance == "" {
			utterance = fallbackChallengeUtterance
		}
		state.LastAction = decision.ChosenAction
		state.FollowUpCount++

		if IsCompletionUtterance(utterance) {
			return TurnResult{Utterance: closingMessage(bp.Company), Action: decision.ChosenAction, Completed: true}
		}
		return TurnResult{Utterance: utterance, Action: decision.ChosenAction}
	}
}

// askOracle собирает промпт, вызывает оракула и разбирает решение.
// При любом сбое возвращает фиксированный CHALLENGE.
func (e *Engine) askOracle(ctx context.Context, bp *blueprint.InterviewBlueprint, state *SessionState, transcript []string, answer string) Decision {
	planJSON := serializePlan(bp)
	prompt := prompts.Conductor(state.InterviewType, planJSON, strings.Join(transcript, "\n"))

	response, err := e.llm.GenerateResponse(ctx, prompt, 0.1, 800)
	if err != nil {
		log.Printf("Сессия %s: оракул недоступен (%v), fallback CHALLENGE", bp.SessionID, err)
		return fallbackDecision()
	}

	if d, ok := parseDecision(response); ok {
		return d
	}
	log.Printf("Сессия %s: нераспознаваемое решение оракула, fallback CHALLENGE", bp.SessionID)
	return fallbackDecision()
}

// parseDecision разбирает JSON решения; при невалидном JSON пытается
// вытащить отдельные поля регулярными выражениями
func parseDecision(response string) (Decision, bool) {
	cleaned, err := sanitizer.Extract(response)
	if err == nil {
		var d Decision
		if err := json.Unmarshal([]byte(cleaned), &d); err == nil && validAction(d.ChosenAction) {
			return d, true
		}
	}

	action, aerr := sanitizer.ExtractStringField(response, "chosen_action")
	utterance, uerr := sanitizer.ExtractStringField(response, "next_utterance")
	if aerr == nil && uerr == nil && validAction(Action(action)) && strings.TrimSpace(utterance) != "" {
		analysis, _ := sanitizer.ExtractStringField(response, "analysis_of_last_answer")
		return Decision{
			AnalysisOfLastAnswer: analysis,
			ChosenAction:         Action(action),
			NextUtterance:        utterance,
		}, true
	}
	return Decision{}, false
}

func validAction(a Action) bool {
	switch a {
	case ActionChallenge, ActionDeepen, ActionTransition, ActionConcedeAndPivot:
		return true
	}
	return false
}

func fallbackDecision() Decision {
	return Decision{
		AnalysisOfLastAnswer: "Unable to analyze the answer, asking for more detail",
		ChosenAction:         ActionChallenge,
		NextUtterance:        fallbackChallengeUtterance,
	}
}

// concedeAndPivot — мягкая смена темы после капитуляции кандидата.
// Тема помечается посещенной даже без единого уточнения: она была
// предъявлена и отклонена.
func (e *Engine) concedeAndPivot(bp *blueprint.InterviewBlueprint, state *SessionState) TurnResult {
	question, ok := NextTopic(bp, state)
	if !ok {
		return TurnResult{
			Utterance: "Thank you for your time today. That covers all the areas I wanted to discuss. Do you have any questions for me about the role or the company?",
			Action:    ActionConcedeAndPivot,
			Completed: true,
		}
	}
	state.FollowUpCount = 0
	state.LastAction = ActionConcedeAndPivot
	return TurnResult{
		Utterance: fmt.Sprintf("No problem, that's completely understandable. Let's move on to a different area then. %s", question),
		Action:    ActionConcedeAndPivot,
	}
}

// forceTransition — принудительный переход слоя 3
func (e *Engine) forceTransition(bp *blueprint.InterviewBlueprint, state *SessionState) TurnResult {
	question, ok := NextTopic(bp, state)
	if !ok {
		return TurnResult{
			Utterance: "I believe we've covered all the key areas comprehensively. Thank you for the detailed discussion. Do you have any questions for me?",
			Action:    ActionTransition,
			Completed: true,
		}
	}
	state.FollowUpCount = 0
	state.LastAction = ActionTransition
	return TurnResult{
		Utterance: fmt.Sprintf("I think we've covered this area well. Let me shift our focus to another important aspect. %s", question),
		Action:    ActionTransition,
	}
}

// acceptTransition — принятый переход слоя 2: переходная фраза оракула
// сохраняется, но сам вопрос всегда подставляет селектор
func (e *Engine) acceptTransition(bp *blueprint.InterviewBlueprint, state *SessionState, decision Decision) TurnResult {
	phrase := strings.TrimSpace(decision.NextUtterance)
	for _, starter := range questionStarters {
		if idx := strings.Index(phrase, starter); idx >= 0 {
			phrase = strings.TrimSpace(phrase[:idx])
			if phrase != "" && !strings.HasSuffix(phrase, ".") {
				phrase += "."
			}
			break
		}
	}

	question, ok := NextTopic(bp, state)
	if !ok {
		return TurnResult{
			Utterance: strings.TrimSpace(phrase + " I think we've covered all the key areas comprehensively. Thank you for sharing your detailed insights and experience with me today!"),
			Action:    ActionTransition,
			Completed: true,
		}
	}
	state.FollowUpCount = 0
	state.LastAction = ActionTransition

	utterance := question
	if phrase != "" {
		utterance = phrase + " " + question
	}
	return TurnResult{Utterance: utterance, Action: ActionTransition}
}

// serializePlan готовит компактное JSON-представление плана для
// conductor-промпта
func serializePlan(bp *blueprint.InterviewBlueprint) string {
	plan := struct {
		CandidateName             string   `json:"candidate_name"`
		Position                  string   `json:"position"`
		Company                   string   `json:"company"`
		KeyTechnicalSkills        []string `json:"key_technical_skills"`
		KeyBehavioralCompetencies []string `json:"key_behavioral_competencies"`
		RelevantProjects          []string `json:"relevant_projects"`
		InterviewerDirectives     []string `json:"interviewer_directives"`
	}{
		CandidateName:             bp.CandidateName,
		Position:                  bp.Position,
		Company:                   bp.Company,
		KeyTechnicalSkills:        bp.KeyTechnicalSkills,
		KeyBehavioralCompetencies: bp.KeyBehavioralCompetencies,
		RelevantProjects:          bp.RelevantProjects,
		InterviewerDirectives:     bp.InterviewerDirectives,
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return `{"candidate_name":"Candidate","position":"Engineer","company":"Company"}`
	}
	return string(data)
}

func closingMessage(company string) string {
	if company == "" {
		company = "the company"
	}
	return fmt.Sprintf("Thank you for the detailed discussion today. That concludes our interview. Do you have any questions for me or about %s?", company)
}
