package blueprint

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	response string
	err      error
	calls    int
}

func (s *stubLLM) GenerateResponse(_ context.Context, _ string, _ float64, _ int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestBuildFromInterviewPlan(t *testing.T) {
	llm := &stubLLM{response: `{
		"interview_plan": {
			"interviewer_directives": ["Probe for specifics"],
			"interview_flow": [
				{"phase": "Introduction (5 mins)", "question_id": "Q1", "question_text": "Tell me about yourself.", "intent": "warm up"},
				{"phase": "Technical Deep Dive (20 mins)", "question_id": "Q2", "question_text": "How did you scale the ingestion pipeline?", "intent": "assess depth"},
				{"phase": "Behavioral (10 mins)", "question_id": "Q3", "question_text": "Tell me about a team conflict.", "intent": "teamwork"}
			]
		}
	}`}
	builder := NewBuilder(llm)

	bp := builder.Build(context.Background(), fallbackSynthesis(), "Alex", "Backend Engineer", "Acme", TypeTechnicalBehavioral)

	require.NotNil(t, bp)
	assert.Len(t, bp.IntroductionQuestions, 1)
	assert.Len(t, bp.TechnicalQuestions, 1)
	assert.Len(t, bp.BehavioralQuestions, 1)
	assert.Equal(t, []string{"Probe for specifics"}, bp.InterviewerDirectives)
	assert.Equal(t, 20, bp.TechnicalQuestions[0].TimeAllocation)
	assert.Equal(t, "Q2", bp.TechnicalQuestions[0].ID)
}

func TestBuildFromTopicModules(t *testing.T) {
	llm := &stubLLM{response: `{
		"topic_modules": [
			{"topic_name": "System Design", "opening_question": "Design a URL shortener.", "intent": "architecture"},
			{"topic_name": "Leadership", "opening_question": "When did you lead without authority?", "intent": "leadership"}
		]
	}`}
	builder := NewBuilder(llm)

	bp := builder.Build(context.Background(), fallbackSynthesis(), "Alex", "Backend Engineer", "Acme", TypeTechnicalBehavioral)

	require.NotNil(t, bp)
	assert.Len(t, bp.TechnicalQuestions, 1)
	assert.Len(t, bp.BehavioralQuestions, 1)
}

func TestBuildFallbackOnOracleFailure(t *testing.T) {
	llm := &stubLLM{err: errors.New("boom")}
	builder := NewBuilder(llm)

	bp := builder.Build(context.Background(), fallbackSynthesis(), "Alex", "Backend Engineer", "Acme", TypeTechnicalBehavioral)

	require.NotNil(t, bp)
	require.NotEmpty(t, bp.IntroductionQuestions)
	assert.Equal(t, "OPENER_01", bp.IntroductionQuestions[0].ID)
	require.NotEmpty(t, bp.TechnicalQuestions)
	assert.Equal(t, "CASE_01", bp.TechnicalQuestions[0].ID)
	require.NotEmpty(t, bp.BehavioralQuestions)
	assert.Equal(t, "TB_01", bp.BehavioralQuestions[0].ID)
}

func TestBuildFallbackRespectsInterviewType(t *testing.T) {
	llm := &stubLLM{err: errors.New("boom")}
	builder := NewBuilder(llm)

	bp := builder.Build(context.Background(), fallbackSynthesis(), "Alex", "Backend Engineer", "Acme", TypeTechnicalOnly)

	assert.NotEmpty(t, bp.TechnicalQuestions)
	assert.Empty(t, bp.BehavioralQuestions, "технический план не должен содержать поведенческих вопросов")
}

func TestBuildFallbackOnGarbageResponse(t *testing.T) {
	llm := &stubLLM{response: "I'd be happy to help plan this interview!"}
	builder := NewBuilder(llm)

	bp := builder.Build(context.Background(), fallbackSynthesis(), "Alex", "Backend Engineer", "Acme", TypeTechnicalBehavioral)

	require.NotNil(t, bp)
	assert.NotEmpty(t, bp.IntroductionQuestions)
}

func TestSessionIDFormat(t *testing.T) {
	id := NewSessionID()
	assert.Regexp(t, `^interview_\d{8}_\d{6}_[0-9a-f]{8}$`, id)

	other := NewSessionID()
	assert.NotEqual(t, id, other)
}

func TestClassifyOrderedRules(t *testing.T) {
	// Вступление распознается раньше остальных маркеров
	assert.Equal(t, QuestionIntroduction, classify("Introduction (5 mins)", "", "", TypeTechnicalBehavioral))
	// Поведенческие маркеры проверяются раньше технических
	assert.Equal(t, QuestionBehavioral, classify("Technical Leadership", "", "", TypeTechnicalBehavioral))
	assert.Equal(t, QuestionTechnical, classify("System Design Deep Dive", "", "", TypeTechnicalBehavioral))
	// Дефолт по типу интервью
	assert.Equal(t, QuestionTechnical, classify("Misc", "", "", TypeTechnicalBehavioral))
	assert.Equal(t, QuestionBehavioral, classify("Misc", "", "", TypeBehavioralOnly))
	// Тип интервью переопределяет маркер
	assert.Equal(t, QuestionTechnical, classify("Teamwork", "", "", TypeTechnicalOnly))
}

func TestExtractMinutes(t *testing.T) {
	assert.Equal(t, 20, extractMinutes("Deep Dive (20 mins)", ""))
	assert.Equal(t, 7, extractMinutes("Warmup (7 min)", ""))
	assert.Equal(t, 5, extractMinutes("Introduction", ""))
	assert.Equal(t, 15, extractMinutes("Case Study", ""))
	assert.Equal(t, 10, extractMinutes("Something Else", ""))
}

func TestNormalizeType(t *testing.T) {
	assert.Equal(t, TypeTechnicalOnly, NormalizeType("Technical"))
	assert.Equal(t, TypeBehavioralOnly, NormalizeType("behavioral-only"))
	assert.Equal(t, TypeTechnicalBehavioral, NormalizeType("Behavioral + Technical"))
	assert.Equal(t, TypeTechnicalBehavioral, NormalizeType("anything else"))
}
