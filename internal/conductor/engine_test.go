package conductor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-conductor/internal/blueprint"
	"interview-conductor/internal/config"
)

// stubLLM — управляемый оракул: считает вызовы и отдает заданные ответы
type stubLLM struct {
	calls     int
	responses []string
	err       error
}

func (s *stubLLM) GenerateResponse(_ context.Context, _ string, _ float64, _ int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return `{"analysis_of_last_answer": "ok", "chosen_action": "DEEPEN", "next_utterance": "Tell me more about that."}`, nil
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

func decisionJSON(action, utterance string) string {
	return fmt.Sprintf(`{"analysis_of_last_answer": "ok", "chosen_action": %q, "next_utterance": %q}`, action, utterance)
}

func testBlueprint(interviewType string) *blueprint.InterviewBlueprint {
	return &blueprint.InterviewBlueprint{
		SessionID:     "interview_test_00000000",
		CandidateName: "Alex",
		Position:      "Backend Engineer",
		Company:       "Acme",
		InterviewType: interviewType,
		TechnicalQuestions: []blueprint.QuestionObject{
			{ID: "T1", QuestionText: "How does a hash map handle collisions?", QuestionType: blueprint.QuestionTechnical},
			{ID: "T2", QuestionText: "Walk me through designing a rate limiter.", QuestionType: blueprint.QuestionTechnical},
		},
		BehavioralQuestions: []blueprint.QuestionObject{
			{ID: "B1", QuestionText: "Tell me about a conflict you resolved on a team.", QuestionType: blueprint.QuestionBehavioral},
		},
	}
}

func TestConcessionBypassesOracle(t *testing.T) {
	llm := &stubLLM{responses: []string{"total garbage, not json"}}
	engine := NewEngine(llm, config.Default())
	bp := testBlueprint(blueprint.TypeTechnicalBehavioral)
	state := NewSessionState(blueprint.TypeTechnicalBehavioral)

	result := engine.ProcessTurn(context.Background(), bp, state, []string{"Sarah: hi", "Candidate: I don't know"}, "I don't know")

	assert.Zero(t, llm.calls, "капитуляция должна обрабатываться без вызова оракула")
	assert.Equal(t, ActionConcedeAndPivot, result.Action)
	assert.False(t, result.Completed)
	assert.Contains(t, result.Utterance, "No problem, that's completely understandable.")
	assert.Contains(t, result.Utterance, "How does a hash map handle collisions?")
	assert.Equal(t, "tech_0", state.CurrentTopicID)
	assert.Zero(t, state.FollowUpCount)
}

func TestConcessionPhraseVariants(t *testing.T) {
	for _, answer := range []string{
		"Hmm, I'm NOT SURE about that one",
		"I can't recall the details",
		"no idea honestly",
		"I dont remember that project",
	} {
		assert.True(t, IsConcession(answer), "должна распознаваться капитуляция: %q", answer)
	}
	assert.False(t, IsConcession("I know exactly how that works"))
}

func TestFrustrationGuardForcesTransition(t *testing.T) {
	llm := &stubLLM{}
	engine := NewEngine(llm, config.Default())
	bp := testBlueprint(blueprint.TypeTechnicalBehavioral)
	state := NewSessionState(blueprint.TypeTechnicalBehavioral)
	state.FollowUpCount = 3
	state.LastAction = ActionChallenge

	result := engine.ProcessTurn(context.Background(), bp, state, []string{"Candidate: same answer again"}, "same answer again")

	assert.Zero(t, llm.calls, "принудительный переход решается без оракула")
	assert.Equal(t, ActionTransition, result.Action)
	assert.Contains(t, result.Utterance, "I think we've covered this area well.")
	assert.Zero(t, state.FollowUpCount)
}

func TestFollowUpsNeverExceedBound(t *testing.T) {
	// Оракул упорно отвечает CHALLENGE; после трех уточнений подряд
	// слой 3 обязан сменить тему
	llm := &stubLLM{responses: []string{decisionJSON("CHALLENGE", "Why exactly?")}}
	engine := NewEngine(llm, config.Default())
	bp := testBlueprint(blueprint.TypeTechnicalBehavioral)
	state := NewSessionState(blueprint.TypeTechnicalBehavioral)

	transcript := []string{"Sarah: intro"}
	for i := 0; i < 10; i++ {
		answer := fmt.Sprintf("substantive answer %d", i)
		transcript = append(transcript, "Candidate: "+answer)
		result := engine.ProcessTurn(context.Background(), bp, state, transcript, answer)
		transcript = append(transcript, "Sarah: "+result.Utterance)

		require.LessOrEqual(t, state.FollowUpCount, 3, "счетчик уточнений вышел за предел на ходе %d", i)
		if result.Completed {
			return
		}
	}
}

func TestTransitionGuardDowngradesToDeepen(t *testing.T) {
	llm := &stubLLM{responses: []string{decisionJSON("TRANSITION", "Great. Let's move on. What about caching?")}}
	engine := NewEngine(llm, config.Default())
	bp := testBlueprint(blueprint.TypeTechnicalBehavioral)
	state := NewSessionState(blueprint.TypeTechnicalBehavioral)
	state.CurrentTopicID = "tech_0"
	state.VisitedTopics["tech_0"] = true
	state.FollowUpCount = 1

	result := engine.ProcessTurn(context.Background(), bp, state, []string{"Candidate: answer"}, "a solid answer")

	assert.Equal(t, ActionDeepen, result.Action, "ранний TRANSITION должен понижаться до DEEPEN")
	assert.Equal(t, "tech_0", state.CurrentTopicID, "тема не должна меняться")
	assert.Equal(t, 2, state.FollowUpCount)
}

func TestTransitionAcceptedAfterEnoughFollowUps(t *testing.T) {
	llm := &stubLLM{responses: []string{decisionJSON("TRANSITION", "Great insights on that topic. What about your experience with queues?")}}
	engine := NewEngine(llm, config.Default())
	bp := testBlueprint(blueprint.TypeTechnicalBehavioral)
	state := NewSessionState(blueprint.TypeTechnicalBehavioral)
	state.CurrentTopicID = "tech_0"
	state.VisitedTopics["tech_0"] = true
	state.FollowUpCount = 2

	result := engine.ProcessTurn(context.Background(), bp, state, []string{"Candidate: answer"}, "a solid answer")

	assert.Equal(t, ActionTransition, result.Action)
	// Переходная фраза оракула сохранена, его вопрос отрезан,
	// вопрос подставлен селектором
	assert.Contains(t, result.Utterance, "Great insights on that topic.")
	assert.NotContains(t, result.Utterance, "experience with queues")
	assert.Contains(t, result.Utterance, "Walk me through designing a rate limiter.")
	assert.Equal(t, "tech_1", state.CurrentTopicID)
	assert.Zero(t, state.FollowUpCount)
}

func TestTransitionFromIntroAcceptedImmediately(t *testing.T) {
	llm := &stubLLM{responses: []string{decisionJSON("TRANSITION", "Thanks for the introduction. Can you tell me about your stack?")}}
	engine := NewEngine(llm, config.Default())
	bp := testBlueprint(blueprint.TypeTechnicalBehavioral)
	state := NewSessionState(blueprint.TypeTechnicalBehavioral)

	result := engine.ProcessTurn(context.Background(), bp, state, []string{"Candidate: about me"}, "about me")

	assert.Equal(t, ActionTransition, result.Action)
	assert.Equal(t, "tech_0", state.CurrentTopicID)
}

func TestNoTopicRepeats(t *testing.T) {
	// Кандидат сдается на каждой теме: селектор обязан пройти все темы
	// ровно по одному разу и завершить интервью
	llm := &stubLLM{}
	engine := NewEngine(llm, config.Default())
	bp := testBlueprint(blueprint.TypeTechnicalBehavioral)
	state := NewSessionState(blueprint.TypeTechnicalBehavioral)

	seen := make(map[string]bool)
	transcript := []string{"Sarah: intro"}
	for i := 0; i < 10; i++ {
		transcript = append(transcript, "Candidate: I don't know")
		result := engine.ProcessTurn(context.Background(), bp, state, transcript, "I don't know")
		transcript = append(transcript, "Sarah: "+result.Utterance)

		if result.Completed {
			assert.Equal(t, 3, len(seen), "до завершения должны быть предъявлены все темы")
			return
		}
		require.False(t, seen[state.CurrentTopicID], "тема %s предъявлена повторно", state.CurrentTopicID)
		seen[state.CurrentTopicID] = true
	}
	t.Fatal("интервью не завершилось после исчерпания тем")
}

func TestTechnicalOnlySkipsBehavioralTopics(t *testing.T) {
	llm := &stubLLM{}
	engine := NewEngine(llm, config.Default())
	bp := testBlueprint(blueprint.TypeTechnicalOnly)
	state := NewSessionState(blueprint.TypeTechnicalOnly)

	transcript := []string{"Sarah: intro"}
	for i := 0; i < 5; i++ {
		transcript = append(transcript, "Candidate: I don't know")
		result := engine.ProcessTurn(context.Background(), bp, state, transcript, "I don't know")
		transcript = append(transcript, "Sarah: "+result.Utterance)
		if result.Completed {
			break
		}
		assert.True(t, strings.HasPrefix(state.CurrentTopicID, "tech_"),
			"в техническом интервью выбрана тема %s", state.CurrentTopicID)
	}
	assert.False(t, state.VisitedTopics["behavioral_0"])
}

func TestOracleGarbageFallsBackToChallenge(t *testing.T) {
	llm := &stubLLM{responses: []string{"certainly! here is my analysis without any json"}}
	engine := NewEngine(llm, config.Default())
	bp := testBlueprint(blueprint.TypeTechnicalBehavioral)
	state := NewSessionState(blueprint.TypeTechnicalBehavioral)

	result := engine.ProcessTurn(context.Background(), bp, state, []string{"Candidate: answer"}, "a real answer")

	assert.Equal(t, ActionChallenge, result.Action)
	assert.Equal(t, "Could you elaborate on that point with more specific details?", result.Utterance)
	assert.Equal(t, 1, state.FollowUpCount)
}

func TestOracleFieldLevelRecovery(t *testing.T) {
	// JSON сломан, но отдельные поля извлекаются регулярками
	llm := &stubLLM{responses: []string{`oops {"chosen_action": "DEEPEN", "next_utterance": "What were the trade-offs?", broken`}}
	engine := NewEngine(llm, config.Default())
	bp := testBlueprint(blueprint.TypeTechnicalBehavioral)
	state := NewSessionState(blueprint.TypeTechnicalBehavioral)

	result := engine.ProcessTurn(context.Background(), bp, state, []string{"Candidate: answer"}, "a real answer")

	assert.Equal(t, ActionDeepen, result.Action)
	assert.Equal(t, "What were the trade-offs?", result.Utterance)
}

func TestTranscriptCeilingCompletes(t *testing.T) {
	llm := &stubLLM{}
	engine := NewEngine(llm, config.Default())
	bp := testBlueprint(blueprint.TypeTechnicalBehavioral)
	state := NewSessionState(blueprint.TypeTechnicalBehavioral)

	transcript := make([]string, 20)
	for i := range transcript {
		transcript[i] = "Candidate: line"
	}

	result := engine.ProcessTurn(context.Background(), bp, state, transcript, "one more answer")

	assert.True(t, result.Completed)
	assert.Zero(t, llm.calls)
	assert.Contains(t, result.Utterance, "That concludes our interview.")
	assert.Contains(t, result.Utterance, "Acme")
}

func TestCompletionUtteranceMarkers(t *testing.T) {
	assert.True(t, IsCompletionUtterance("Thank you, that makes our interview complete."))
	assert.True(t, IsCompletionUtterance("Well, that concludes our session."))
	assert.False(t, IsCompletionUtterance("Thank you for that answer, let's continue."))
}

func TestProgressBuckets(t *testing.T) {
	cfg := config.Default()

	cases := []struct {
		interviewType string
		length        int
		percentage    int
		phase         string
	}{
		{"technical_only", 2, 25, "introduction"},
		{"technical_only", 10, 50, "exploration"},
		{"technical_only", 16, 75, "deep_dive"},
		{"technical_only", 17, 90, "completion"},
		{"behavioral_only", 8, 50, "exploration"},
		{"behavioral_only", 14, 75, "deep_dive"},
		{"technical_behavioral", 4, 25, "introduction"},
		{"technical_behavioral", 12, 50, "exploration"},
		{"technical_behavioral", 18, 75, "deep_dive"},
		{"technical_behavioral", 19, 90, "completion"},
	}
	for _, tc := range cases {
		p := CalculateProgress(tc.length, tc.interviewType, cfg)
		assert.Equal(t, tc.percentage, p.Percentage, "%s/%d", tc.interviewType, tc.length)
		assert.Equal(t, tc.phase, p.Phase, "%s/%d", tc.interviewType, tc.length)
	}
}
