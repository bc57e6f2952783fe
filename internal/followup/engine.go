package followup

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"interview-conductor/internal/blueprint"
	"interview-conductor/internal/prompts"
	"interview-conductor/internal/sanitizer"
)

// NextAction — решение по текущему вопросу в построчном режиме
type NextAction string

const (
	// ActionMoveOn — перейти к следующему вопросу плана
	ActionMoveOn NextAction = "MOVE_ON"
	// ActionAskFollowUp — задать уточняющий вопрос по текущей теме
	ActionAskFollowUp NextAction = "ASK_FOLLOW_UP"
)

// Жесткий предел уточняющих вопросов на один вопрос плана
const maxFollowUps = 3

// LLMClient — текстовый оракул. Выполняется internal/api.Client.
type LLMClient interface {
	GenerateResponse(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// Decision — решение движка уточнений
type Decision struct {
	NextAction       NextAction
	FollowUpQuestion string
	Reasoning        string
}

// rawDecision — формат ответа followup-промпта. Действия DRILL_DOWN /
// CONCLUDE_TOPIC маппятся на ASK_FOLLOW_UP / MOVE_ON.
type rawDecision struct {
	NextAction       string `json:"next_action"`
	FollowUpQuestion string `json:"follow_up_question"`
	Reasoning        string `json:"reasoning"`
}

// Engine — построчный движок уточнений. Устаревший режим: основной
// поток разговора ведет conductor.Engine, этот движок обслуживает
// сценарий строгого прохода по плану вопрос за вопросом.
type Engine struct {
	llm LLMClient
}

// NewEngine создает движок уточнений
func NewEngine(llm LLMClient) *Engine {
	return &Engine{llm: llm}
}

// Decide принимает решение: углубиться в текущий вопрос или идти дальше.
// Ошибок не возвращает — при сбое оракула работает эвристика по длине
// ответа.
func (e *Engine) Decide(ctx context.Context, question blueprint.QuestionObject, answer string, followUpCount int) Decision {
	// Жесткий предел соблюдается вне зависимости от решения оракула
	if followUpCount >= maxFollowUps {
		return Decision{
			NextAction: ActionMoveOn,
			Reasoning:  "Maximum follow-ups reached, moving to next question",
		}
	}

	prompt := prompts.FollowUp(question.Intent, question.QuestionText, answer)
	response, err := e.llm.GenerateResponse(ctx, prompt, 0.1, 500)
	if err != nil {
		log.Printf("Движок уточнений: оракул недоступен (%v), эвристика по длине ответа", err)
		return fallbackDecision(question, answer, followUpCount)
	}

	cleaned, err := sanitizer.Extract(response)
	if err != nil {
		return fallbackDecision(question, answer, followUpCount)
	}

	var raw rawDecision
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return fallbackDecision(question, answer, followUpCount)
	}

	decision := mapDecision(raw)
	return applyPolicy(decision, question, followUpCount)
}

func mapDecision(raw rawDecision) Decision {
	switch raw.NextAction {
	case "DRILL_DOWN", string(ActionAskFollowUp):
		return Decision{
			NextAction:       ActionAskFollowUp,
			FollowUpQuestion: strings.TrimSpace(raw.FollowUpQuestion),
			Reasoning:        raw.Reasoning,
		}
	case "CONCLUDE_TOPIC", string(ActionMoveOn):
		return Decision{NextAction: ActionMoveOn, Reasoning: raw.Reasoning}
	default:
		return Decision{NextAction: ActionMoveOn, Reasoning: "Unrecognized action, moving on"}
	}
}

// applyPolicy гарантирует хотя бы одно уточнение на вступительных и
// технических вопросах, даже если оракул предлагает идти дальше
func applyPolicy(decision Decision, question blueprint.QuestionObject, followUpCount int) Decision {
	if decision.NextAction != ActionMoveOn || followUpCount != 0 {
		return decision
	}
	if question.QuestionType != blueprint.QuestionIntroduction && question.QuestionType != blueprint.QuestionTechnical {
		return decision
	}

	probe := decision.FollowUpQuestion
	if probe == "" {
		if question.QuestionType == blueprint.QuestionTechnical {
			probe = "What key trade-offs or alternatives did you consider, and why was your approach the best in terms of performance and cost?"
		} else {
			probe = "Great — could you share one concrete example with specific metrics that best illustrates your impact related to this role?"
		}
	}
	return Decision{
		NextAction:       ActionAskFollowUp,
		FollowUpQuestion: probe,
		Reasoning:        "Policy: at least one probing follow-up for introduction and technical questions",
	}
}

// fallbackDecision — эвристика на случай сбоя оракула: короткий ответ
// без уточнений получает дежурный вопрос по типу, иначе идем дальше
func fallbackDecision(question blueprint.QuestionObject, answer string, followUpCount int) Decision {
	if len(strings.Fields(answer)) < 20 && followUpCount == 0 {
		var probe string
		switch question.QuestionType {
		case blueprint.QuestionTechnical:
			probe = "Can you elaborate on your technical approach and the reasoning behind it?"
		case blueprint.QuestionBehavioral:
			probe = "Can you provide more specific details about the situation and your actions?"
		case blueprint.QuestionIntroduction:
			probe = "Could you expand on that and provide more specific examples?"
		default:
			probe = "Could you provide more details about that?"
		}
		return Decision{
			NextAction:       ActionAskFollowUp,
			FollowUpQuestion: probe,
			Reasoning:        "Answer was brief, requesting more detail",
		}
	}
	if followUpCount >= 1 {
		return Decision{NextAction: ActionMoveOn, Reasoning: "Moving on after one follow-up"}
	}
	return Decision{NextAction: ActionMoveOn, Reasoning: "Default move on"}
}
