package conductor

// Action — решение движка по очередному ответу кандидата
type Action string

const (
	// ActionChallenge — попросить конкретику или оспорить поверхностный ответ
	ActionChallenge Action = "CHALLENGE"
	// ActionDeepen — углубиться в сильный ответ следующим вопросом по той же теме
	ActionDeepen Action = "DEEPEN"
	// ActionTransition — тема исчерпана, перейти к следующей
	ActionTransition Action = "TRANSITION"
	// ActionConcedeAndPivot — кандидат сдался, мягко сменить тему
	ActionConcedeAndPivot Action = "CONCEDE_AND_PIVOT"
)

// Decision — разобранный ответ оракула по формату conductor-промпта
type Decision struct {
	AnalysisOfLastAnswer string `json:"analysis_of_last_answer"`
	ChosenAction         Action `json:"chosen_action"`
	NextUtterance        string `json:"next_utterance"`
}

// SessionState — изменяемое состояние разговора. План интервью
// неизменяем, вся динамика живет здесь.
type SessionState struct {
	CurrentTopicID string          `json:"current_topic_id"`
	FollowUpCount  int             `json:"follow_up_count"`
	VisitedTopics  map[string]bool `json:"visited_topics"`
	LastAction     Action          `json:"last_action"`
	InterviewType  string          `json:"interview_type"`
}

// NewSessionState создает стартовое состояние: текущая тема — вступление,
// она же сразу помечена посещенной, чтобы селектор к ней не возвращался
func NewSessionState(interviewType string) *SessionState {
	return &SessionState{
		CurrentTopicID: "intro",
		FollowUpCount:  0,
		VisitedTopics:  map[string]bool{"intro": true},
		LastAction:     "",
		InterviewType:  interviewType,
	}
}

// TurnResult — исход одного хода движка
type TurnResult struct {
	Utterance string
	Action    Action
	Completed bool
}
