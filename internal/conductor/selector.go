package conductor

import (
	"fmt"

	"interview-conductor/internal/blueprint"
)

// NextTopic выбирает первую непосещенную тему из плана интервью и
// атомарно помечает ее посещенной: отметка ставится до возврата текста,
// поэтому один и тот же id не может быть выдан дважды. Вызывающий
// обязан держать мьютекс сессии.
//
// Порядок обхода детерминирован: сначала технические темы (если тип
// интервью их допускает), затем поведенческие. Идентификаторы —
// tech_<i> / behavioral_<i> по позиции в плане.
func NextTopic(bp *blueprint.InterviewBlueprint, state *SessionState) (string, bool) {
	if blueprint.AllowsTechnical(state.InterviewType) {
		for i, q := range bp.TechnicalQuestions {
			id := fmt.Sprintf("tech_%d", i)
			if !state.VisitedTopics[id] {
				state.VisitedTopics[id] = true
				state.CurrentTopicID = id
				return q.QuestionText, true
			}
		}
	}
	if blueprint.AllowsBehavioral(state.InterviewType) {
		for i, q := range bp.BehavioralQuestions {
			id := fmt.Sprintf("behavioral_%d", i)
			if !state.VisitedTopics[id] {
				state.VisitedTopics[id] = true
				state.CurrentTopicID = id
				return q.QuestionText, true
			}
		}
	}
	return "", false
}
